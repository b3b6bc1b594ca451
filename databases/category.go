package databases

// go generate: mockery --name CategoryDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/incident-reports-api/models"
)

const categoryName = "incidentCategories"

// CategoryDatabase contains the methods to use with the incident category database.
// Get, Replace, Update, Delete and SetDisplayOrder return mongo.ErrNoDocuments for an unknown id.
type CategoryDatabase interface {
	List(ctx context.Context) ([]models.Category, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Insert(ctx context.Context, category models.Category) error
	InsertMany(ctx context.Context, categories []models.Category) error
	Replace(ctx context.Context, category models.Category) error
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
	SetDisplayOrder(ctx context.Context, ids []string) error
}

type categoryDatabase struct {
	db DatabaseHelper
}

// NewCategoryDatabase initializes a new instance of category database with the provided db connection
func NewCategoryDatabase(db DatabaseHelper) CategoryDatabase {
	return &categoryDatabase{
		db: db,
	}
}

func (c *categoryDatabase) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "_id", Value: 1}})
	curr, err := c.db.Collection(categoryName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)

	var categories []models.Category
	if err := curr.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *categoryDatabase) Count(ctx context.Context) (int64, error) {
	return c.db.Collection(categoryName).CountDocuments(ctx, bson.M{})
}

func (c *categoryDatabase) Get(ctx context.Context, id string) (*models.Category, error) {
	category := &models.Category{}
	err := c.db.Collection(categoryName).FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (c *categoryDatabase) Insert(ctx context.Context, category models.Category) error {
	stamp(&category, true)
	_, err := c.db.Collection(categoryName).InsertOne(ctx, category)
	return err
}

func (c *categoryDatabase) InsertMany(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(categories))
	for _, category := range categories {
		stamp(&category, true)
		docs = append(docs, category)
	}
	_, err := c.db.Collection(categoryName).InsertMany(ctx, docs)
	return err
}

func (c *categoryDatabase) Replace(ctx context.Context, category models.Category) error {
	stamp(&category, false)
	res, err := c.db.Collection(categoryName).ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (c *categoryDatabase) Update(ctx context.Context, id string, fields bson.M) error {
	set := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	for k, v := range fields {
		set[k] = v
	}
	res, err := c.db.Collection(categoryName).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (c *categoryDatabase) Delete(ctx context.Context, id string) error {
	res, err := c.db.Collection(categoryName).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetDisplayOrder gives each category the position of its id in ids, in one bulk write
func (c *categoryDatabase) SetDisplayOrder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := primitive.NewDateTimeFromTime(time.Now())
	writes := make([]mongo.WriteModel, 0, len(ids))
	for i, id := range ids {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"displayOrder": i, "updatedAt": now}}))
	}
	res, err := c.db.Collection(categoryName).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return err
	}
	if res.MatchedCount < int64(len(ids)) {
		return mongo.ErrNoDocuments
	}
	return nil
}

func stamp(category *models.Category, created bool) {
	now := primitive.NewDateTimeFromTime(time.Now())
	if created || category.CreatedAt == nil {
		category.CreatedAt = now
	}
	category.UpdatedAt = now
}
