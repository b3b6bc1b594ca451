package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/incident-reports-api/config"
	"github.com/linesmerrill/incident-reports-api/databases"
	"github.com/linesmerrill/incident-reports-api/databases/mocks"
	"github.com/linesmerrill/incident-reports-api/models"
)

func TestNewIncidentDatabase(t *testing.T) {
	conf := &config.Config{URL: "mongodb://127.0.0.1:27017", DatabaseName: "test"}

	dbClient, err := databases.NewClient(context.Background(), conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	incidentDB := databases.NewIncidentDatabase(db)

	assert.NotEmpty(t, incidentDB)
}

func TestIncidentDatabase_Get(t *testing.T) {
	id := primitive.NewObjectID()

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(mongo.ErrNoDocuments)

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.IncidentDocument)
		(*arg).ID = id
		(*arg).CaseNumber = "HSE2306150001"
	})

	missing := primitive.NewObjectID()
	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"_id": missing}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"_id": id}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "incidents").Return(collectionHelper)

	incidentDB := databases.NewIncidentDatabase(dbHelper)

	incident, err := incidentDB.Get(context.Background(), missing.Hex())
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	incident, err = incidentDB.Get(context.Background(), id.Hex())
	assert.NoError(t, err)
	assert.Equal(t, &models.IncidentDocument{ID: id, CaseNumber: "HSE2306150001"}, incident)

	// a malformed id can never match
	incident, err = incidentDB.Get(context.Background(), "not-hex")
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestIncidentDatabase_Query(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelper = &mocks.CursorHelper{}

	cursorHelper.(*mocks.CursorHelper).
		On("All", mock.Anything, mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.IncidentDocument)
		*arg = []models.IncidentDocument{{CaseNumber: "HSE2306150002"}, {CaseNumber: "HSE2306150001"}}
	})
	cursorHelper.(*mocks.CursorHelper).On("Close", mock.Anything).Return(nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"status": bson.M{"$eq": "pending"}}).
		Return(cursorHelper, nil)
	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"status": bson.M{"$eq": "broken"}}).
		Return(nil, errors.New("mocked-error"))

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "incidents").Return(collectionHelper)

	incidentDB := databases.NewIncidentDatabase(dbHelper)

	docs, err := incidentDB.Query(context.Background(), models.Query{
		Constraints: []models.Constraint{{Field: "status", Operator: models.OpEqual, Value: "pending"}},
	})
	assert.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = incidentDB.Query(context.Background(), models.Query{
		Constraints: []models.Constraint{{Field: "status", Operator: models.OpEqual, Value: "broken"}},
	})
	assert.Nil(t, docs)
	assert.EqualError(t, err, "mocked-error")
}

func TestIncidentDatabase_AddUsesServerTimestamps(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	var captured bson.M
	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", context.Background(), mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{UpsertedCount: 1}, nil).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(bson.M)
		})

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "incidents").Return(collectionHelper)

	incidentDB := databases.NewIncidentDatabase(dbHelper)

	id, err := incidentDB.Add(context.Background(), models.IncidentDocument{
		CaseNumber:    "HSE2306150001",
		StoreNumber:   1234567,
		IncidentTypes: []string{"shoplifting"},
		Status:        models.StatusPending,
		Timestamp:     "client supplied",
	})
	assert.NoError(t, err)
	_, err = primitive.ObjectIDFromHex(id)
	assert.NoError(t, err)

	assert.Equal(t, bson.M{"timestamp": true, "updatedAt": true}, captured["$currentDate"])
	fields := captured["$setOnInsert"].(bson.M)
	assert.Equal(t, "HSE2306150001", fields["caseNumber"])
	assert.Equal(t, 1234567, fields["storeNumber"])
	assert.NotContains(t, fields, "timestamp")
	assert.NotContains(t, fields, "details")
}

func TestIncidentDatabase_UpdateAndDeleteMissing(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", context.Background(), mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)
	collectionHelper.(*mocks.CollectionHelper).
		On("DeleteOne", context.Background(), mock.Anything).
		Return(&mongo.DeleteResult{DeletedCount: 0}, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "incidents").Return(collectionHelper)

	incidentDB := databases.NewIncidentDatabase(dbHelper)
	id := primitive.NewObjectID().Hex()

	err := incidentDB.Update(context.Background(), id, bson.M{"status": "complete"})
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	err = incidentDB.Delete(context.Background(), id)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestIncidentDatabase_Update(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	id := primitive.NewObjectID()
	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", context.Background(), bson.M{"_id": id}, bson.M{
			"$set":         bson.M{"policeReport": "PR-1"},
			"$currentDate": bson.M{"updatedAt": true},
		}).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "incidents").Return(collectionHelper)

	incidentDB := databases.NewIncidentDatabase(dbHelper)
	assert.NoError(t, incidentDB.Update(context.Background(), id.Hex(), bson.M{"policeReport": "PR-1"}))
}

func TestIncidentDatabase_UpdateManyAndDeleteMany(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	first, second := primitive.NewObjectID(), primitive.NewObjectID()
	filter := bson.M{"_id": bson.M{"$in": []primitive.ObjectID{first, second}}}

	var captured bson.M
	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateMany", context.Background(), filter, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 2}, nil).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(bson.M)
		})
	collectionHelper.(*mocks.CollectionHelper).
		On("DeleteMany", context.Background(), filter).
		Return(&mongo.DeleteResult{DeletedCount: 2}, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "incidents").Return(collectionHelper)

	incidentDB := databases.NewIncidentDatabase(dbHelper)
	ids := []string{first.Hex(), second.Hex()}

	n, err := incidentDB.UpdateMany(context.Background(), ids, bson.M{"status": "complete"})
	assert.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, bson.M{"status": "complete"}, captured["$set"])
	assert.Equal(t, bson.M{"updatedAt": true}, captured["$currentDate"])

	n, err = incidentDB.DeleteMany(context.Background(), ids)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = incidentDB.DeleteMany(context.Background(), []string{"not-hex"})
	assert.Error(t, err)
}
