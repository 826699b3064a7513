package pickup

import (
	"context"
	"fmt"
	"time"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationStore and PickupStore are the persistence surfaces the service
// needs. The mongo repositories satisfy them.
type LocationStore interface {
	ListUpcoming(ctx context.Context, from time.Time) ([]*Location, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Location, error)
}

type PickupStore interface {
	Insert(ctx context.Context, pickup *Pickup) error
	FindUnclaimed(ctx context.Context, citizenID, locationID primitive.ObjectID) (*Pickup, error)
	ListByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*Pickup, error)
	ListAll(ctx context.Context) ([]*Pickup, error)
}

// CitizenAccounts is the slice of the citizen repository needed for the
// benefit-flag check and the government listing join.
type CitizenAccounts interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.Citizen, error)
}

type PickupService struct {
	locations LocationStore
	pickups   PickupStore
	citizens  CitizenAccounts
}

func NewPickupService(locations LocationStore, pickups PickupStore, citizens CitizenAccounts) *PickupService {
	return &PickupService{locations: locations, pickups: pickups, citizens: citizens}
}

func generatePickupToken(citizenID primitive.ObjectID) string {
	return fmt.Sprintf("OLIA-PICKUP-%s-%d", citizenID.Hex(), time.Now().UnixMilli())
}

// ListLocations returns available slots whose date has not passed.
func (s *PickupService) ListLocations(ctx context.Context) ([]*Location, error) {
	locations, err := s.locations.ListUpcoming(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	if locations == nil {
		locations = []*Location{}
	}
	return locations, nil
}

// Request claims a pickup slot for a benefit-card holder.
func (s *PickupService) Request(ctx context.Context, citizenID primitive.ObjectID, req RequestPickupRequest) (*PickupWithLocation, error) {
	if req.PickupLocationID == "" {
		return nil, apperr.Invalid("Pickup location is required")
	}

	citizen, err := s.citizens.FindByID(ctx, citizenID)
	if err != nil {
		return nil, err
	}
	if citizen == nil {
		return nil, apperr.NotFound("User not found")
	}
	if !citizen.HasBenefit {
		return nil, apperr.Forbidden("Soap pickup is reserved for benefit card holders")
	}

	locationID, err := primitive.ObjectIDFromHex(req.PickupLocationID)
	if err != nil {
		return nil, apperr.NotFound("Pickup location not found")
	}
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil || !location.Available {
		return nil, apperr.NotFound("Pickup location not found")
	}

	existing, err := s.pickups.FindUnclaimed(ctx, citizenID, locationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("You already have a pending pickup at this location")
	}

	pickup := &Pickup{
		ID:         primitive.NewObjectID(),
		UserID:     citizenID,
		LocationID: locationID,
		QRCode:     generatePickupToken(citizenID),
		CreatedAt:  time.Now(),
	}
	if err := s.pickups.Insert(ctx, pickup); err != nil {
		return nil, err
	}

	return &PickupWithLocation{Pickup: *pickup, Location: location}, nil
}

// ListForCitizen returns the caller's pickups with their locations joined.
func (s *PickupService) ListForCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*PickupWithLocation, error) {
	pickups, err := s.pickups.ListByCitizen(ctx, citizenID)
	if err != nil {
		return nil, err
	}

	out := make([]*PickupWithLocation, 0, len(pickups))
	cache := map[primitive.ObjectID]*Location{}
	for _, p := range pickups {
		location, ok := cache[p.LocationID]
		if !ok {
			location, err = s.locations.FindByID(ctx, p.LocationID)
			if err != nil {
				return nil, err
			}
			cache[p.LocationID] = location
		}
		out = append(out, &PickupWithLocation{Pickup: *p, Location: location})
	}
	return out, nil
}

// ListAll returns every pickup with claimant and location joined, for the
// government view.
func (s *PickupService) ListAll(ctx context.Context) ([]*PickupWithRefs, error) {
	pickups, err := s.pickups.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*PickupWithRefs, 0, len(pickups))
	locationCache := map[primitive.ObjectID]*Location{}
	citizenCache := map[primitive.ObjectID]*CitizenRef{}
	for _, p := range pickups {
		location, ok := locationCache[p.LocationID]
		if !ok {
			location, err = s.locations.FindByID(ctx, p.LocationID)
			if err != nil {
				return nil, err
			}
			locationCache[p.LocationID] = location
		}
		user, ok := citizenCache[p.UserID]
		if !ok {
			citizen, err := s.citizens.FindByID(ctx, p.UserID)
			if err != nil {
				return nil, err
			}
			if citizen != nil {
				user = &CitizenRef{ID: citizen.ID, Name: citizen.Name, Email: citizen.Email, HasBenefit: citizen.HasBenefit}
			}
			citizenCache[p.UserID] = user
		}
		out = append(out, &PickupWithRefs{Pickup: *p, User: user, Location: location})
	}
	return out, nil
}
