package reward

import (
	"context"
	"time"

	"OliaRewards/internal/rules"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RewardRepository handles DB operations for the reward catalog.
type RewardRepository struct {
	collection *mongo.Collection
}

func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{collection: db.Collection("rewards")}
}

// ListActive returns the redeemable catalog, cheapest first.
func (r *RewardRepository) ListActive(ctx context.Context) ([]*Reward, error) {
	opts := options.Find().SetSort(bson.M{"points": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	var rewards []*Reward
	if err := cursor.All(ctx, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *RewardRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Reward, error) {
	var reward Reward
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reward)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

// RequestRepository handles DB operations for the reward request ledger.
type RequestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{collection: db.Collection("reward_requests")}
}

func (r *RequestRepository) Insert(ctx context.Context, request *RewardRequest) error {
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*RewardRequest, error) {
	var request RewardRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// FindPending returns the open request for a (school, reward) pair, if any.
func (r *RequestRepository) FindPending(ctx context.Context, schoolID, rewardID primitive.ObjectID) (*RewardRequest, error) {
	var request RewardRequest
	err := r.collection.FindOne(ctx, bson.M{
		"school_id": schoolID,
		"reward_id": rewardID,
		"status":    rules.RequestPending,
	}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) ListBySchool(ctx context.Context, schoolID primitive.ObjectID) ([]*RewardRequest, error) {
	return r.list(ctx, bson.M{"school_id": schoolID})
}

func (r *RequestRepository) List(ctx context.Context, status string) ([]*RewardRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter)
}

func (r *RequestRepository) list(ctx context.Context, filter bson.M) ([]*RewardRequest, error) {
	opts := options.Find().SetSort(bson.M{"requested_at": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var requests []*RewardRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Approve stamps exactly the approval side; deniedAt stays unset forever.
func (r *RequestRepository) Approve(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":      rules.RequestApproved,
		"approved_at": at,
	}})
	return err
}

func (r *RequestRepository) Deny(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":    rules.RequestDenied,
		"denied_at": at,
	}})
	return err
}
