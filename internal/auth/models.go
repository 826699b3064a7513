package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Citizen is an oil-donating individual account.
type Citizen struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CPF          string             `bson:"cpf,omitempty" json:"cpf,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Neighborhood string             `bson:"neighborhood,omitempty" json:"neighborhood,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	Lat          *float64           `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng          *float64           `bson:"lng,omitempty" json:"lng,omitempty"`

	// BenefitCard is the social program card number; HasBenefit gates soap
	// pickup eligibility.
	BenefitCard string `bson:"benefit_card,omitempty" json:"bolsaFamilia,omitempty"`
	HasBenefit  bool   `bson:"has_benefit" json:"hasBolsaFamilia"`

	TotalLiters   float64   `bson:"total_liters" json:"totalLiters"`
	RewardsEarned int       `bson:"rewards_earned" json:"rewardsEarned"`
	CO2Saved      float64   `bson:"co2_saved" json:"co2Saved"`
	Level         int       `bson:"level" json:"level"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// School is a collection-point account accumulating points.
type School struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	CNPJ         string             `bson:"cnpj" json:"cnpj"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Neighborhood string             `bson:"neighborhood,omitempty" json:"neighborhood,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	Lat          *float64           `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng          *float64           `bson:"lng,omitempty" json:"lng,omitempty"`

	ResponsibleName  string `bson:"responsible_name,omitempty" json:"responsibleName,omitempty"`
	ResponsiblePhone string `bson:"responsible_phone,omitempty" json:"responsiblePhone,omitempty"`
	ResponsibleEmail string `bson:"responsible_email,omitempty" json:"responsibleEmail,omitempty"`
	StorageCapacity  string `bson:"storage_capacity,omitempty" json:"storageCapacity,omitempty"`

	TotalLiters     float64   `bson:"total_liters" json:"totalLiters"`
	CollectionCount int       `bson:"collection_count" json:"collectionCount"`
	Points          int       `bson:"points" json:"points"`
	Capacity        int       `bson:"capacity" json:"capacity"`
	IsActive        bool      `bson:"is_active" json:"isActive"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// Government is the administrative account with approval powers.
type Government struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

type RegisterCitizenRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CPF          string `json:"cpf"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	BenefitCard  string `json:"bolsaFamilia"`
	HasBenefit   bool   `json:"hasBolsaFamilia"`
}

type RegisterSchoolRequest struct {
	SchoolName       string `json:"schoolName"`
	CNPJ             string `json:"cnpj"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Address          string `json:"address"`
	Neighborhood     string `json:"neighborhood"`
	City             string `json:"city"`
	ResponsibleName  string `json:"responsibleName"`
	ResponsiblePhone string `json:"responsiblePhone"`
	ResponsibleEmail string `json:"responsibleEmail"`
	StorageCapacity  string `json:"storageCapacity"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// UpdateCitizenProfileRequest carries a partial profile edit. Nil pointers
// leave the stored value untouched.
type UpdateCitizenProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`
	BenefitCard  *string `json:"bolsaFamilia"`
	HasBenefit   *bool   `json:"hasBolsaFamilia"`
}

type UpdateSchoolProfileRequest struct {
	Name             *string  `json:"name"`
	Address          *string  `json:"address"`
	Neighborhood     *string  `json:"neighborhood"`
	City             *string  `json:"city"`
	ResponsibleName  *string  `json:"responsibleName"`
	ResponsiblePhone *string  `json:"responsiblePhone"`
	ResponsibleEmail *string  `json:"responsibleEmail"`
	StorageCapacity  *string  `json:"storageCapacity"`
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
}

// CitizenStats is the dashboard rollup for a citizen.
type CitizenStats struct {
	TotalLiters   float64 `json:"totalLiters"`
	RewardsEarned int     `json:"rewardsEarned"`
	CO2Saved      float64 `json:"co2Saved"`
	Level         int     `json:"level"`
	NextReward    float64 `json:"nextReward"`
	Progress      float64 `json:"progress"`
}

// SchoolStats is the dashboard rollup for a school.
type SchoolStats struct {
	TotalLiters     float64 `json:"totalLiters"`
	CollectionCount int     `json:"collectionCount"`
	Points          int     `json:"points"`
	Capacity        int     `json:"capacity"`
	NextReward      int     `json:"nextReward"`
	Progress        float64 `json:"progress"`
}

// RankedSchool is one leaderboard row.
type RankedSchool struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Points   int                `json:"points"`
	Position int                `json:"position"`
}

// PublicSchool is the unauthenticated map view of a school.
type PublicSchool struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Address      string             `json:"address,omitempty"`
	Neighborhood string             `json:"neighborhood,omitempty"`
	City         string             `json:"city,omitempty"`
	Lat          *float64           `json:"lat,omitempty"`
	Lng          *float64           `json:"lng,omitempty"`
	Capacity     int                `json:"capacity"`
}
