package databases

// go generate: mockery --name IncidentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/incident-reports-api/models"
)

const incidentName = "incidents"

// IncidentDatabase contains the methods to use with the incident database.
// Get, Update and Delete return mongo.ErrNoDocuments when no incident has the id.
type IncidentDatabase interface {
	Query(ctx context.Context, q models.Query) ([]models.IncidentDocument, error)
	Count(ctx context.Context, constraints []models.Constraint) (int64, error)
	Get(ctx context.Context, id string) (*models.IncidentDocument, error)
	FindByCaseNumber(ctx context.Context, caseNumber string) (*models.IncidentDocument, error)
	Add(ctx context.Context, incident models.IncidentDocument) (string, error)
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
	UpdateMany(ctx context.Context, ids []string, fields bson.M) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

type incidentDatabase struct {
	db DatabaseHelper
}

// NewIncidentDatabase initializes a new instance of incident database with the provided db connection
func NewIncidentDatabase(db DatabaseHelper) IncidentDatabase {
	return &incidentDatabase{
		db: db,
	}
}

func (c *incidentDatabase) Query(ctx context.Context, q models.Query) ([]models.IncidentDocument, error) {
	filter, err := buildFilter(q.Constraints)
	if err != nil {
		return nil, err
	}
	curr, err := c.db.Collection(incidentName).Find(ctx, filter, findOptions(q))
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)

	var incidents []models.IncidentDocument
	if err := curr.All(ctx, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

func (c *incidentDatabase) Count(ctx context.Context, constraints []models.Constraint) (int64, error) {
	filter, err := buildFilter(constraints)
	if err != nil {
		return 0, err
	}
	return c.db.Collection(incidentName).CountDocuments(ctx, filter)
}

func (c *incidentDatabase) Get(ctx context.Context, id string) (*models.IncidentDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	return c.findOne(ctx, bson.M{"_id": oid})
}

func (c *incidentDatabase) FindByCaseNumber(ctx context.Context, caseNumber string) (*models.IncidentDocument, error) {
	return c.findOne(ctx, bson.M{"caseNumber": caseNumber})
}

func (c *incidentDatabase) findOne(ctx context.Context, filter interface{}) (*models.IncidentDocument, error) {
	incident := &models.IncidentDocument{}
	err := c.db.Collection(incidentName).FindOne(ctx, filter).Decode(&incident)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// Add writes a new incident. timestamp and updatedAt come from the server
// clock through $currentDate, so the document is upserted under a fresh id
// rather than inserted.
func (c *incidentDatabase) Add(ctx context.Context, incident models.IncidentDocument) (string, error) {
	id := incident.ID
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	fields := bson.M{
		"caseNumber":    incident.CaseNumber,
		"storeNumber":   incident.StoreNumber,
		"incidentTypes": incident.IncidentTypes,
		"status":        incident.Status,
	}
	if incident.Details != "" {
		fields["details"] = incident.Details
	}
	if incident.PoliceReport != "" {
		fields["policeReport"] = incident.PoliceReport
	}

	update := bson.M{
		"$setOnInsert": fields,
		"$currentDate": bson.M{"timestamp": true, "updatedAt": true},
	}
	_, err := c.db.Collection(incidentName).UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (c *incidentDatabase) Update(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	update := bson.M{
		"$set":         fields,
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := c.db.Collection(incidentName).UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (c *incidentDatabase) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := c.db.Collection(incidentName).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateMany sets fields on every id in one statement and returns how many
// documents matched.
func (c *incidentDatabase) UpdateMany(ctx context.Context, ids []string, fields bson.M) (int64, error) {
	filter, err := buildFilter([]models.Constraint{{Field: "id", Operator: models.OpIn, Value: ids}})
	if err != nil {
		return 0, err
	}
	update := bson.M{
		"$set":         fields,
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := c.db.Collection(incidentName).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteMany removes every id in one statement and returns how many went
func (c *incidentDatabase) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	filter, err := buildFilter([]models.Constraint{{Field: "id", Operator: models.OpIn, Value: ids}})
	if err != nil {
		return 0, err
	}
	res, err := c.db.Collection(incidentName).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
