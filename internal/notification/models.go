package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification targets either a citizen or a school. Both ids nil means a
// broadcast entry visible in the government feed.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    *primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	SchoolID  *primitive.ObjectID `bson:"school_id,omitempty" json:"schoolId,omitempty"`
	Type      string              `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	IsRead    bool                `bson:"is_read" json:"isRead"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
}

type CreateNotificationRequest struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	UserID    string `json:"userId"`
	SchoolID  string `json:"schoolId"`
	Broadcast bool   `json:"broadcast"`
}
