package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const feedLimit = 50

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection("notifications")}
}

func (r *NotificationRepository) Insert(ctx context.Context, notification *Notification) error {
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

func (r *NotificationRepository) InsertMany(ctx context.Context, notifications []*Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	docs := make([]interface{}, len(notifications))
	for i, n := range notifications {
		docs[i] = n
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *NotificationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Notification, error) {
	var notification Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// ListForCitizen returns the citizen's feed, most recent first, capped.
// A non-nil isRead restricts the feed to read or unread entries.
func (r *NotificationRepository) ListForCitizen(ctx context.Context, citizenID primitive.ObjectID, isRead *bool) ([]*Notification, error) {
	filter := bson.M{"user_id": citizenID}
	if isRead != nil {
		filter["is_read"] = *isRead
	}
	return r.list(ctx, filter)
}

func (r *NotificationRepository) ListForSchool(ctx context.Context, schoolID primitive.ObjectID, isRead *bool) ([]*Notification, error) {
	filter := bson.M{"school_id": schoolID}
	if isRead != nil {
		filter["is_read"] = *isRead
	}
	return r.list(ctx, filter)
}

// ListBroadcast returns the entries addressed to nobody in particular, which
// is what the government feed shows.
func (r *NotificationRepository) ListBroadcast(ctx context.Context, isRead *bool) ([]*Notification, error) {
	filter := bson.M{"user_id": nil, "school_id": nil}
	if isRead != nil {
		filter["is_read"] = *isRead
	}
	return r.list(ctx, filter)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_read": true}})
	return err
}

func (r *NotificationRepository) list(ctx context.Context, filter bson.M) ([]*Notification, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(feedLimit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
