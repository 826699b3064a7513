package donation

import (
	"context"
	"strings"
	"testing"
	"time"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"
	"OliaRewards/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubDonationStore struct {
	donations map[primitive.ObjectID]*Donation
	inserted  []*Donation
	confirmed []primitive.ObjectID
}

func newStubDonationStore() *stubDonationStore {
	return &stubDonationStore{donations: map[primitive.ObjectID]*Donation{}}
}

func (s *stubDonationStore) Insert(_ context.Context, d *Donation) error {
	s.donations[d.ID] = d
	s.inserted = append(s.inserted, d)
	return nil
}

func (s *stubDonationStore) FindByID(_ context.Context, id primitive.ObjectID) (*Donation, error) {
	return s.donations[id], nil
}

func (s *stubDonationStore) ListByCitizen(_ context.Context, citizenID primitive.ObjectID) ([]*Donation, error) {
	var out []*Donation
	for _, d := range s.donations {
		if d.UserID == citizenID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDonationStore) ListBySchool(_ context.Context, schoolID primitive.ObjectID) ([]*Donation, error) {
	var out []*Donation
	for _, d := range s.donations {
		if d.SchoolID == schoolID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDonationStore) Confirm(_ context.Context, id primitive.ObjectID, at time.Time) error {
	d := s.donations[id]
	d.Status = rules.DonationConfirmed
	d.ConfirmedAt = &at
	s.confirmed = append(s.confirmed, id)
	return nil
}

type stubCitizenAccounts struct {
	citizens map[primitive.ObjectID]*auth.Citizen

	creditedLiters float64
	creditedCO2    float64
}

func (s *stubCitizenAccounts) FindByID(_ context.Context, id primitive.ObjectID) (*auth.Citizen, error) {
	return s.citizens[id], nil
}

func (s *stubCitizenAccounts) RecordConfirmedDonation(_ context.Context, _ primitive.ObjectID, liters, co2 float64) error {
	s.creditedLiters += liters
	s.creditedCO2 += co2
	return nil
}

type stubSchoolAccounts struct {
	schools map[primitive.ObjectID]*auth.School

	creditedLiters float64
	capacityGain   int
}

func (s *stubSchoolAccounts) FindByID(_ context.Context, id primitive.ObjectID) (*auth.School, error) {
	return s.schools[id], nil
}

func (s *stubSchoolAccounts) RecordConfirmedDonation(_ context.Context, _ primitive.ObjectID, liters float64, gain int) error {
	s.creditedLiters += liters
	s.capacityGain += gain
	return nil
}

func newService() (*DonationService, *stubDonationStore, *stubCitizenAccounts, *stubSchoolAccounts) {
	store := newStubDonationStore()
	citizens := &stubCitizenAccounts{citizens: map[primitive.ObjectID]*auth.Citizen{}}
	schools := &stubSchoolAccounts{schools: map[primitive.ObjectID]*auth.School{}}
	return NewDonationService(store, citizens, schools), store, citizens, schools
}

func kindOf(t *testing.T, err error) apperr.Kind {
	t.Helper()
	ae, ok := err.(*apperr.Error)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	return ae.Kind
}

func TestCreateDonation(t *testing.T) {
	svc, store, _, schools := newService()
	schoolID := primitive.NewObjectID()
	citizenID := primitive.NewObjectID()
	schools.schools[schoolID] = &auth.School{ID: schoolID, Name: "Escola Verde", Neighborhood: "Centro"}

	out, err := svc.Create(context.Background(), citizenID, CreateDonationRequest{SchoolID: schoolID.Hex(), Liters: 3.5})
	require.NoError(t, err)

	assert.Equal(t, rules.DonationPending, out.Status)
	assert.Equal(t, 3.5, out.Liters)
	assert.Equal(t, "Escola Verde", out.School.Name)
	assert.Regexp(t, `^DOA-\d{4}-\d{4}$`, out.Code)
	assert.True(t, strings.HasPrefix(out.QRCode, "OLIA-DONATION-"))
	assert.Len(t, store.inserted, 1)
}

func TestCreateDonationValidation(t *testing.T) {
	svc, _, _, schools := newService()
	schoolID := primitive.NewObjectID()
	schools.schools[schoolID] = &auth.School{ID: schoolID}
	citizenID := primitive.NewObjectID()

	_, err := svc.Create(context.Background(), citizenID, CreateDonationRequest{Liters: 2})
	assert.Equal(t, apperr.KindInvalid, kindOf(t, err))

	_, err = svc.Create(context.Background(), citizenID, CreateDonationRequest{SchoolID: schoolID.Hex(), Liters: -1})
	assert.Equal(t, apperr.KindInvalid, kindOf(t, err))

	_, err = svc.Create(context.Background(), citizenID, CreateDonationRequest{SchoolID: primitive.NewObjectID().Hex(), Liters: 2})
	assert.Equal(t, apperr.KindNotFound, kindOf(t, err))

	_, err = svc.Create(context.Background(), citizenID, CreateDonationRequest{SchoolID: "not-a-hex", Liters: 2})
	assert.Equal(t, apperr.KindNotFound, kindOf(t, err))
}

func TestConfirmDonationCreditsBothAccounts(t *testing.T) {
	svc, store, citizens, schools := newService()
	schoolID := primitive.NewObjectID()
	citizenID := primitive.NewObjectID()
	schools.schools[schoolID] = &auth.School{ID: schoolID}
	citizens.citizens[citizenID] = &auth.Citizen{ID: citizenID}

	d := &Donation{ID: primitive.NewObjectID(), UserID: citizenID, SchoolID: schoolID, Liters: 3.5, Status: rules.DonationPending}
	require.NoError(t, store.Insert(context.Background(), d))

	out, err := svc.Confirm(context.Background(), schoolID, d.ID)
	require.NoError(t, err)

	assert.Equal(t, rules.DonationConfirmed, out.Status)
	assert.NotNil(t, out.ConfirmedAt)
	assert.Equal(t, 3.5, citizens.creditedLiters)
	assert.Equal(t, 7.0, citizens.creditedCO2)
	assert.Equal(t, 3.5, schools.creditedLiters)
	assert.Equal(t, 4, schools.capacityGain)
}

func TestConfirmDonationTwiceRejected(t *testing.T) {
	svc, store, citizens, schools := newService()
	schoolID := primitive.NewObjectID()
	citizenID := primitive.NewObjectID()
	schools.schools[schoolID] = &auth.School{ID: schoolID}
	citizens.citizens[citizenID] = &auth.Citizen{ID: citizenID}

	d := &Donation{ID: primitive.NewObjectID(), UserID: citizenID, SchoolID: schoolID, Liters: 2, Status: rules.DonationPending}
	require.NoError(t, store.Insert(context.Background(), d))

	_, err := svc.Confirm(context.Background(), schoolID, d.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), schoolID, d.ID)
	assert.Equal(t, apperr.KindConflict, kindOf(t, err))
	assert.Equal(t, 2.0, citizens.creditedLiters, "totals must not be credited twice")
	assert.Len(t, store.confirmed, 1)
}

func TestConfirmDonationWrongSchool(t *testing.T) {
	svc, store, _, schools := newService()
	schoolID := primitive.NewObjectID()
	otherSchool := primitive.NewObjectID()
	schools.schools[schoolID] = &auth.School{ID: schoolID}
	schools.schools[otherSchool] = &auth.School{ID: otherSchool}

	d := &Donation{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(), SchoolID: schoolID, Liters: 2, Status: rules.DonationPending}
	require.NoError(t, store.Insert(context.Background(), d))

	_, err := svc.Confirm(context.Background(), otherSchool, d.ID)
	assert.Equal(t, apperr.KindForbidden, kindOf(t, err))

	_, err = svc.Confirm(context.Background(), schoolID, primitive.NewObjectID())
	assert.Equal(t, apperr.KindNotFound, kindOf(t, err))
}

func TestListForCitizenJoinsSchool(t *testing.T) {
	svc, store, _, schools := newService()
	schoolID := primitive.NewObjectID()
	citizenID := primitive.NewObjectID()
	schools.schools[schoolID] = &auth.School{ID: schoolID, Name: "Escola Azul"}

	d := &Donation{ID: primitive.NewObjectID(), UserID: citizenID, SchoolID: schoolID, Liters: 1, Status: rules.DonationPending}
	require.NoError(t, store.Insert(context.Background(), d))

	out, err := svc.ListForCitizen(context.Background(), citizenID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].School)
	assert.Equal(t, "Escola Azul", out[0].School.Name)
}
