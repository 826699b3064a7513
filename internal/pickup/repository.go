package pickup

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationRepository handles DB operations for pickup locations.
type LocationRepository struct {
	collection *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{collection: db.Collection("pickup_locations")}
}

// ListUpcoming returns available locations whose slot date has not passed.
func (r *LocationRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*Location, error) {
	filter := bson.M{
		"available": true,
		"date":      bson.M{"$gte": from},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		return nil, err
	}
	var locations []*Location
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Location, error) {
	var location Location
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&location)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

// PickupRepository handles DB operations for the pickup ledger.
type PickupRepository struct {
	collection *mongo.Collection
}

func NewPickupRepository(db *mongo.Database) *PickupRepository {
	return &PickupRepository{collection: db.Collection("pickups")}
}

func (r *PickupRepository) Insert(ctx context.Context, pickup *Pickup) error {
	_, err := r.collection.InsertOne(ctx, pickup)
	return err
}

// FindUnclaimed returns the outstanding pickup for a (citizen, location)
// pair, if one exists.
func (r *PickupRepository) FindUnclaimed(ctx context.Context, citizenID, locationID primitive.ObjectID) (*Pickup, error) {
	var pickup Pickup
	err := r.collection.FindOne(ctx, bson.M{
		"user_id":      citizenID,
		"location_id":  locationID,
		"picked_up_at": nil,
	}).Decode(&pickup)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &pickup, nil
}

func (r *PickupRepository) ListByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*Pickup, error) {
	return r.list(ctx, bson.M{"user_id": citizenID})
}

func (r *PickupRepository) ListAll(ctx context.Context) ([]*Pickup, error) {
	return r.list(ctx, bson.M{})
}

func (r *PickupRepository) list(ctx context.Context, filter bson.M) ([]*Pickup, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var pickups []*Pickup
	if err := cursor.All(ctx, &pickups); err != nil {
		return nil, err
	}
	return pickups, nil
}
