package stats

import (
	"context"

	"OliaRewards/internal/auth"
	"OliaRewards/internal/rules"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationLedger, SchoolAccounts and CitizenAccounts are the read surfaces
// the aggregate views draw from.
type DonationLedger interface {
	SumConfirmedLiters(ctx context.Context) (float64, error)
}

type SchoolAccounts interface {
	CountActive(ctx context.Context) (int64, error)
	TopByPoints(ctx context.Context, limit int64) ([]*auth.School, error)
	List(ctx context.Context, city string, isActive *bool) ([]*auth.School, error)
}

type CitizenAccounts interface {
	CountBeneficiaries(ctx context.Context) (int64, error)
}

// GlobalStats is the public impact summary.
type GlobalStats struct {
	TotalOilRecycled     float64 `json:"totalOilRecycled"`
	SoapProduced         int     `json:"soapProduced"`
	ParticipatingSchools int64   `json:"participatingSchools"`
	Beneficiaries        int64   `json:"beneficiaries"`
}

// TopSchool is a ranking row for the government dashboard.
type TopSchool struct {
	Position     int                `json:"position"`
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	City         string             `json:"city,omitempty"`
	Neighborhood string             `json:"neighborhood,omitempty"`
	Points       int                `json:"points"`
	TotalLiters  float64            `json:"totalLiters"`
}

type StatsService struct {
	donations DonationLedger
	schools   SchoolAccounts
	citizens  CitizenAccounts
}

func NewStatsService(donations DonationLedger, schools SchoolAccounts, citizens CitizenAccounts) *StatsService {
	return &StatsService{donations: donations, schools: schools, citizens: citizens}
}

// Global computes the platform-wide impact numbers.
func (s *StatsService) Global(ctx context.Context) (*GlobalStats, error) {
	liters, err := s.donations.SumConfirmedLiters(ctx)
	if err != nil {
		return nil, err
	}
	schools, err := s.schools.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	beneficiaries, err := s.citizens.CountBeneficiaries(ctx)
	if err != nil {
		return nil, err
	}
	return &GlobalStats{
		TotalOilRecycled:     liters,
		SoapProduced:         rules.SoapProduced(liters),
		ParticipatingSchools: schools,
		Beneficiaries:        beneficiaries,
	}, nil
}

// TopSchools returns the points leaderboard, positions starting at 1.
func (s *StatsService) TopSchools(ctx context.Context, limit int64) ([]*TopSchool, error) {
	if limit <= 0 {
		limit = 10
	}
	schools, err := s.schools.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*TopSchool, 0, len(schools))
	for i, school := range schools {
		out = append(out, &TopSchool{
			Position:     i + 1,
			ID:           school.ID,
			Name:         school.Name,
			City:         school.City,
			Neighborhood: school.Neighborhood,
			Points:       school.Points,
			TotalLiters:  school.TotalLiters,
		})
	}
	return out, nil
}

// ListSchools is the government school directory with optional filters.
func (s *StatsService) ListSchools(ctx context.Context, city string, isActive *bool) ([]*auth.School, error) {
	schools, err := s.schools.List(ctx, city, isActive)
	if err != nil {
		return nil, err
	}
	if schools == nil {
		schools = []*auth.School{}
	}
	return schools, nil
}
