package pickup

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a fixed soap-distribution slot.
type Location struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address" json:"address"`
	Date      time.Time          `bson:"date" json:"date"`
	StartTime string             `bson:"start_time" json:"startTime"`
	EndTime   string             `bson:"end_time" json:"endTime"`
	Available bool               `bson:"available" json:"available"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Pickup records a citizen claiming a soap pickup slot. PickedUpAt stays nil
// until the physical hand-over, which no API operation performs.
type Pickup struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	LocationID primitive.ObjectID `bson:"location_id" json:"pickupLocationId"`
	QRCode     string             `bson:"qr_code" json:"qrCode"`
	PickedUpAt *time.Time         `bson:"picked_up_at,omitempty" json:"pickedUpAt,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

type RequestPickupRequest struct {
	PickupLocationID string `json:"pickupLocationId"`
}

type PickupWithLocation struct {
	Pickup
	Location *Location `json:"pickupLocation,omitempty"`
}

// CitizenRef is the claimant summary joined into the government listing.
type CitizenRef struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	HasBenefit bool               `json:"hasBolsaFamilia"`
}

type PickupWithRefs struct {
	Pickup
	User     *CitizenRef `json:"user,omitempty"`
	Location *Location   `json:"pickupLocation,omitempty"`
}
