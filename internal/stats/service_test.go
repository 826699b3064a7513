package stats

import (
	"context"
	"testing"

	"OliaRewards/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubDonationLedger struct {
	liters float64
}

func (s *stubDonationLedger) SumConfirmedLiters(_ context.Context) (float64, error) {
	return s.liters, nil
}

type stubSchoolAccounts struct {
	active  int64
	schools []*auth.School
}

func (s *stubSchoolAccounts) CountActive(_ context.Context) (int64, error) {
	return s.active, nil
}

func (s *stubSchoolAccounts) TopByPoints(_ context.Context, limit int64) ([]*auth.School, error) {
	if int64(len(s.schools)) > limit {
		return s.schools[:limit], nil
	}
	return s.schools, nil
}

func (s *stubSchoolAccounts) List(_ context.Context, city string, isActive *bool) ([]*auth.School, error) {
	var out []*auth.School
	for _, school := range s.schools {
		if city != "" && school.City != city {
			continue
		}
		if isActive != nil && school.IsActive != *isActive {
			continue
		}
		out = append(out, school)
	}
	return out, nil
}

type stubCitizenAccounts struct {
	beneficiaries int64
}

func (s *stubCitizenAccounts) CountBeneficiaries(_ context.Context) (int64, error) {
	return s.beneficiaries, nil
}

func TestGlobalStats(t *testing.T) {
	svc := NewStatsService(
		&stubDonationLedger{liters: 23},
		&stubSchoolAccounts{active: 12},
		&stubCitizenAccounts{beneficiaries: 7},
	)

	out, err := svc.Global(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 23.0, out.TotalOilRecycled)
	assert.Equal(t, 4, out.SoapProduced)
	assert.Equal(t, int64(12), out.ParticipatingSchools)
	assert.Equal(t, int64(7), out.Beneficiaries)
}

func TestTopSchoolsPositions(t *testing.T) {
	schools := &stubSchoolAccounts{schools: []*auth.School{
		{ID: primitive.NewObjectID(), Name: "Primeira", Points: 900},
		{ID: primitive.NewObjectID(), Name: "Segunda", Points: 500},
		{ID: primitive.NewObjectID(), Name: "Terceira", Points: 100},
	}}
	svc := NewStatsService(&stubDonationLedger{}, schools, &stubCitizenAccounts{})

	out, err := svc.TopSchools(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Position)
	assert.Equal(t, "Primeira", out[0].Name)
	assert.Equal(t, 2, out[1].Position)

	// Zero limit falls back to the default of ten.
	out, err = svc.TopSchools(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestListSchoolsFilters(t *testing.T) {
	schools := &stubSchoolAccounts{schools: []*auth.School{
		{ID: primitive.NewObjectID(), Name: "Recife ativa", City: "Recife", IsActive: true},
		{ID: primitive.NewObjectID(), Name: "Recife inativa", City: "Recife", IsActive: false},
		{ID: primitive.NewObjectID(), Name: "Olinda", City: "Olinda", IsActive: true},
	}}
	svc := NewStatsService(&stubDonationLedger{}, schools, &stubCitizenAccounts{})

	active := true
	out, err := svc.ListSchools(context.Background(), "Recife", &active)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Recife ativa", out[0].Name)

	out, err = svc.ListSchools(context.Background(), "Natal", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
