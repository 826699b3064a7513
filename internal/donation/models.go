package donation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation records a citizen depositing oil at a school.
type Donation struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"userId"`
	SchoolID primitive.ObjectID `bson:"school_id" json:"schoolId"`
	Liters   float64            `bson:"liters" json:"liters"`

	// Code is the human-readable receipt code; QRCode the opaque tracking
	// token printed on it.
	Code   string `bson:"code" json:"code"`
	QRCode string `bson:"qr_code" json:"qrCode"`

	Status      string     `bson:"status" json:"status"`
	DonatedAt   time.Time  `bson:"donated_at" json:"donatedAt"`
	ConfirmedAt *time.Time `bson:"confirmed_at,omitempty" json:"confirmedAt,omitempty"`
}

type CreateDonationRequest struct {
	SchoolID string  `json:"schoolId"`
	Liters   float64 `json:"liters"`
}

// SchoolRef is the school summary joined into citizen-facing listings.
type SchoolRef struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Address      string             `json:"address,omitempty"`
	Neighborhood string             `json:"neighborhood,omitempty"`
}

// CitizenRef is the donor summary joined into school-facing listings.
type CitizenRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

type CitizenDonation struct {
	Donation
	School *SchoolRef `json:"school,omitempty"`
}

type SchoolDonation struct {
	Donation
	User *CitizenRef `json:"user,omitempty"`
}
