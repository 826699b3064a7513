package collection

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection records a school requesting a government oil pickup.
type Collection struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID        primitive.ObjectID `bson:"school_id" json:"schoolId"`
	RequestedLiters float64            `bson:"requested_liters" json:"requestedLiters"`
	PreferredDate   time.Time          `bson:"preferred_date" json:"preferredDate"`
	Status          string             `bson:"status" json:"status"`

	ScheduledDate   *time.Time `bson:"scheduled_date,omitempty" json:"scheduledDate,omitempty"`
	CollectedLiters *float64   `bson:"collected_liters,omitempty" json:"collectedLiters,omitempty"`
	CompletedDate   *time.Time `bson:"completed_date,omitempty" json:"completedDate,omitempty"`
	Points          int        `bson:"points" json:"points"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type RequestCollectionRequest struct {
	RequestedLiters float64 `json:"requestedLiters"`
	PreferredDate   string  `json:"preferredDate"`
}

type ScheduleCollectionRequest struct {
	ScheduledDate string `json:"scheduledDate"`
}

type CompleteCollectionRequest struct {
	CollectedLiters float64 `json:"collectedLiters"`
}

// SchoolRef is the school summary joined into the government's listing.
type SchoolRef struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Address      string             `json:"address,omitempty"`
	Neighborhood string             `json:"neighborhood,omitempty"`
	City         string             `json:"city,omitempty"`
}

type CollectionWithSchool struct {
	Collection
	School *SchoolRef `json:"school,omitempty"`
}
