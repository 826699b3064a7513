package collection

import (
	"context"
	"time"

	"OliaRewards/internal/rules"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionRepository handles DB operations for the collection ledger.
type CollectionRepository struct {
	collection *mongo.Collection
}

func NewCollectionRepository(db *mongo.Database) *CollectionRepository {
	return &CollectionRepository{collection: db.Collection("collections")}
}

func (r *CollectionRepository) Insert(ctx context.Context, request *Collection) error {
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

func (r *CollectionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Collection, error) {
	var record Collection
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *CollectionRepository) ListBySchool(ctx context.Context, schoolID primitive.ObjectID) ([]*Collection, error) {
	return r.list(ctx, bson.M{"school_id": schoolID})
}

// List returns all collection requests, optionally filtered by status.
func (r *CollectionRepository) List(ctx context.Context, status string) ([]*Collection, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter)
}

func (r *CollectionRepository) list(ctx context.Context, filter bson.M) ([]*Collection, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var records []*Collection
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *CollectionRepository) Schedule(ctx context.Context, id primitive.ObjectID, date time.Time) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":         rules.CollectionScheduled,
		"scheduled_date": date,
	}})
	return err
}

// Complete sets the final fields in one update; they are never written again.
func (r *CollectionRepository) Complete(ctx context.Context, id primitive.ObjectID, liters float64, points int, at time.Time) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":           rules.CollectionCompleted,
		"collected_liters": liters,
		"completed_date":   at,
		"points":           points,
	}})
	return err
}
