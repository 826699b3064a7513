package reward

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reward is one redeemable catalog entry.
type Reward struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Points      int                `bson:"points" json:"points"`
	Image       string             `bson:"image" json:"image"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// AnnotatedReward is a catalog entry with the caller school's request state
// overlaid. The flags are computed per request, never stored.
type AnnotatedReward struct {
	Reward
	Available bool `json:"available"`
	Unlocked  bool `json:"unlocked"`
	Requested bool `json:"requested"`
}

// RewardRequest records a school redeeming a catalog entry.
type RewardRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID    primitive.ObjectID `bson:"school_id" json:"schoolId"`
	RewardID    primitive.ObjectID `bson:"reward_id" json:"rewardId"`
	Status      string             `bson:"status" json:"status"`
	RequestedAt time.Time          `bson:"requested_at" json:"requestedAt"`
	ApprovedAt  *time.Time         `bson:"approved_at,omitempty" json:"approvedAt,omitempty"`
	DeniedAt    *time.Time         `bson:"denied_at,omitempty" json:"deniedAt,omitempty"`
}

type CreateRequestRequest struct {
	RewardID string `json:"rewardId"`
}

// SchoolRef is the school summary joined into the government's listing.
type SchoolRef struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Points int                `json:"points"`
}

type RequestWithReward struct {
	RewardRequest
	Reward *Reward `json:"reward,omitempty"`
}

type RequestWithRefs struct {
	RewardRequest
	Reward *Reward    `json:"reward,omitempty"`
	School *SchoolRef `json:"school,omitempty"`
}
