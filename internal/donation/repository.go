package donation

import (
	"context"
	"time"

	"OliaRewards/internal/rules"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DonationRepository handles DB operations for the donation ledger.
type DonationRepository struct {
	collection *mongo.Collection
}

func NewDonationRepository(db *mongo.Database) *DonationRepository {
	return &DonationRepository{collection: db.Collection("donations")}
}

func (r *DonationRepository) Insert(ctx context.Context, donation *Donation) error {
	_, err := r.collection.InsertOne(ctx, donation)
	return err
}

func (r *DonationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Donation, error) {
	var donation Donation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&donation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (r *DonationRepository) ListByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*Donation, error) {
	return r.list(ctx, bson.M{"user_id": citizenID})
}

func (r *DonationRepository) ListBySchool(ctx context.Context, schoolID primitive.ObjectID) ([]*Donation, error) {
	return r.list(ctx, bson.M{"school_id": schoolID})
}

func (r *DonationRepository) list(ctx context.Context, filter bson.M) ([]*Donation, error) {
	opts := options.Find().SetSort(bson.M{"donated_at": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var donations []*Donation
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// Confirm flips the status and stamps the confirmation time in one update.
func (r *DonationRepository) Confirm(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":       rules.DonationConfirmed,
		"confirmed_at": at,
	}})
	return err
}

// SumConfirmedLiters aggregates the confirmed donation volume for the
// government dashboard.
func (r *DonationRepository) SumConfirmedLiters(ctx context.Context) (float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"status": rules.DonationConfirmed}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$liters"}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
