package donation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"
	"OliaRewards/internal/rules"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationStore is the ledger surface the service needs.
// *DonationRepository satisfies it.
type DonationStore interface {
	Insert(ctx context.Context, donation *Donation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Donation, error)
	ListByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*Donation, error)
	ListBySchool(ctx context.Context, schoolID primitive.ObjectID) ([]*Donation, error)
	Confirm(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// CitizenAccounts and SchoolAccounts are the slices of the account
// repositories a confirmation touches.
type CitizenAccounts interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.Citizen, error)
	RecordConfirmedDonation(ctx context.Context, id primitive.ObjectID, liters float64, co2 float64) error
}

type SchoolAccounts interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.School, error)
	RecordConfirmedDonation(ctx context.Context, id primitive.ObjectID, liters float64, capacityGain int) error
}

type DonationService struct {
	store    DonationStore
	citizens CitizenAccounts
	schools  SchoolAccounts
}

func NewDonationService(store DonationStore, citizens CitizenAccounts, schools SchoolAccounts) *DonationService {
	return &DonationService{store: store, citizens: citizens, schools: schools}
}

// generateDonationCode builds the human-readable receipt code. Collisions are
// possible and accepted at municipal volume; the record id stays the real key.
func generateDonationCode() string {
	return fmt.Sprintf("DOA-%d-%04d", time.Now().Year(), rand.Intn(10000))
}

// generateTrackingToken builds the opaque token embedded in the QR code.
func generateTrackingToken(kind, id string) string {
	return fmt.Sprintf("OLIA-%s-%s-%d", kind, id, time.Now().UnixMilli())
}

func (s *DonationService) Create(ctx context.Context, citizenID primitive.ObjectID, req CreateDonationRequest) (*CitizenDonation, error) {
	if req.SchoolID == "" || req.Liters == 0 {
		return nil, apperr.Invalid("School and liters are required")
	}
	if req.Liters <= 0 {
		return nil, apperr.Invalid("Liters must be positive")
	}

	schoolID, err := primitive.ObjectIDFromHex(req.SchoolID)
	if err != nil {
		return nil, apperr.NotFound("School not found")
	}
	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, apperr.NotFound("School not found")
	}

	code := generateDonationCode()
	donation := &Donation{
		ID:        primitive.NewObjectID(),
		UserID:    citizenID,
		SchoolID:  schoolID,
		Liters:    req.Liters,
		Code:      code,
		QRCode:    generateTrackingToken("DONATION", code),
		Status:    rules.DonationPending,
		DonatedAt: time.Now(),
	}
	if err := s.store.Insert(ctx, donation); err != nil {
		return nil, err
	}

	return &CitizenDonation{
		Donation: *donation,
		School: &SchoolRef{
			ID:           school.ID,
			Name:         school.Name,
			Address:      school.Address,
			Neighborhood: school.Neighborhood,
		},
	}, nil
}

// ListForCitizen returns the caller's donations with the school joined in.
func (s *DonationService) ListForCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]CitizenDonation, error) {
	donations, err := s.store.ListByCitizen(ctx, citizenID)
	if err != nil {
		return nil, err
	}

	refs := map[primitive.ObjectID]*SchoolRef{}
	out := make([]CitizenDonation, 0, len(donations))
	for _, d := range donations {
		ref, ok := refs[d.SchoolID]
		if !ok {
			school, err := s.schools.FindByID(ctx, d.SchoolID)
			if err != nil {
				return nil, err
			}
			if school != nil {
				ref = &SchoolRef{ID: school.ID, Name: school.Name, Address: school.Address, Neighborhood: school.Neighborhood}
			}
			refs[d.SchoolID] = ref
		}
		out = append(out, CitizenDonation{Donation: *d, School: ref})
	}
	return out, nil
}

// ListForSchool returns the school's incoming donations with donor joined in.
func (s *DonationService) ListForSchool(ctx context.Context, schoolID primitive.ObjectID) ([]SchoolDonation, error) {
	donations, err := s.store.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	refs := map[primitive.ObjectID]*CitizenRef{}
	out := make([]SchoolDonation, 0, len(donations))
	for _, d := range donations {
		ref, ok := refs[d.UserID]
		if !ok {
			citizen, err := s.citizens.FindByID(ctx, d.UserID)
			if err != nil {
				return nil, err
			}
			if citizen != nil {
				ref = &CitizenRef{ID: citizen.ID, Name: citizen.Name, Email: citizen.Email}
			}
			refs[d.UserID] = ref
		}
		out = append(out, SchoolDonation{Donation: *d, User: ref})
	}
	return out, nil
}

// Confirm moves a pending donation to CONFIRMED and credits the running
// totals on both accounts. Confirming twice is rejected, not absorbed.
func (s *DonationService) Confirm(ctx context.Context, schoolID, donationID primitive.ObjectID) (*Donation, error) {
	donation, err := s.store.FindByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperr.NotFound("Donation not found")
	}
	if donation.SchoolID != schoolID {
		return nil, apperr.Forbidden("You cannot confirm this donation")
	}
	if !rules.CanConfirmDonation(donation.Status) {
		return nil, apperr.Conflict("Donation already confirmed")
	}

	now := time.Now()
	if err := s.store.Confirm(ctx, donationID, now); err != nil {
		return nil, err
	}

	if err := s.citizens.RecordConfirmedDonation(ctx, donation.UserID, donation.Liters, rules.CO2Saved(donation.Liters)); err != nil {
		return nil, err
	}
	if err := s.schools.RecordConfirmedDonation(ctx, schoolID, donation.Liters, rules.CapacityGain(donation.Liters)); err != nil {
		return nil, err
	}

	donation.Status = rules.DonationConfirmed
	donation.ConfirmedAt = &now
	return donation, nil
}
