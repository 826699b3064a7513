package reward

import (
	"context"
	"time"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"
	"OliaRewards/internal/rules"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogStore is the catalog surface the service needs.
// *RewardRepository satisfies it.
type CatalogStore interface {
	ListActive(ctx context.Context) ([]*Reward, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Reward, error)
}

// RequestStore is the request-ledger surface. *RequestRepository satisfies it.
type RequestStore interface {
	Insert(ctx context.Context, request *RewardRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*RewardRequest, error)
	FindPending(ctx context.Context, schoolID, rewardID primitive.ObjectID) (*RewardRequest, error)
	ListBySchool(ctx context.Context, schoolID primitive.ObjectID) ([]*RewardRequest, error)
	List(ctx context.Context, status string) ([]*RewardRequest, error)
	Approve(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Deny(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type SchoolAccounts interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.School, error)
	DeductPoints(ctx context.Context, id primitive.ObjectID, points int) error
}

type RewardService struct {
	catalog  CatalogStore
	requests RequestStore
	schools  SchoolAccounts
}

func NewRewardService(catalog CatalogStore, requests RequestStore, schools SchoolAccounts) *RewardService {
	return &RewardService{catalog: catalog, requests: requests, schools: schools}
}

// ListCatalog returns the active catalog, cheapest first.
func (s *RewardService) ListCatalog(ctx context.Context) ([]*Reward, error) {
	return s.catalog.ListActive(ctx)
}

// ListCatalogForSchool overlays the caller school's request state on every
// catalog entry: available (no non-denied request), unlocked (approved),
// requested (pending).
func (s *RewardService) ListCatalogForSchool(ctx context.Context, schoolID primitive.ObjectID) ([]AnnotatedReward, error) {
	rewards, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	type state struct {
		pending  bool
		approved bool
		blocked  bool
	}
	states := map[primitive.ObjectID]*state{}
	for _, request := range requests {
		st := states[request.RewardID]
		if st == nil {
			st = &state{}
			states[request.RewardID] = st
		}
		switch request.Status {
		case rules.RequestPending:
			st.pending = true
			st.blocked = true
		case rules.RequestApproved:
			st.approved = true
			st.blocked = true
		}
	}

	annotated := make([]AnnotatedReward, 0, len(rewards))
	for _, reward := range rewards {
		st := states[reward.ID]
		entry := AnnotatedReward{Reward: *reward, Available: true}
		if st != nil {
			entry.Available = !st.blocked
			entry.Unlocked = st.approved
			entry.Requested = st.pending
		}
		annotated = append(annotated, entry)
	}
	return annotated, nil
}

// Request files a redemption. The point check here is advisory; approval
// re-validates against the balance current at that moment.
func (s *RewardService) Request(ctx context.Context, schoolID primitive.ObjectID, req CreateRequestRequest) (*RequestWithReward, error) {
	if req.RewardID == "" {
		return nil, apperr.Invalid("Reward id is required")
	}
	rewardID, err := primitive.ObjectIDFromHex(req.RewardID)
	if err != nil {
		return nil, apperr.NotFound("Reward not found")
	}

	reward, err := s.catalog.FindByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, apperr.NotFound("Reward not found")
	}

	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if school == nil || school.Points < reward.Points {
		return nil, apperr.Conflict("Insufficient points")
	}

	pending, err := s.requests.FindPending(ctx, schoolID, rewardID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, apperr.Conflict("A pending request already exists for this reward")
	}

	request := &RewardRequest{
		ID:          primitive.NewObjectID(),
		SchoolID:    schoolID,
		RewardID:    rewardID,
		Status:      rules.RequestPending,
		RequestedAt: time.Now(),
	}
	if err := s.requests.Insert(ctx, request); err != nil {
		return nil, err
	}
	return &RequestWithReward{RewardRequest: *request, Reward: reward}, nil
}

func (s *RewardService) ListForSchool(ctx context.Context, schoolID primitive.ObjectID) ([]RequestWithReward, error) {
	requests, err := s.requests.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	out := make([]RequestWithReward, 0, len(requests))
	for _, request := range requests {
		reward, err := s.catalog.FindByID(ctx, request.RewardID)
		if err != nil {
			return nil, err
		}
		out = append(out, RequestWithReward{RewardRequest: *request, Reward: reward})
	}
	return out, nil
}

func (s *RewardService) ListAll(ctx context.Context, status string) ([]RequestWithRefs, error) {
	requests, err := s.requests.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]RequestWithRefs, 0, len(requests))
	for _, request := range requests {
		reward, err := s.catalog.FindByID(ctx, request.RewardID)
		if err != nil {
			return nil, err
		}
		var ref *SchoolRef
		school, err := s.schools.FindByID(ctx, request.SchoolID)
		if err != nil {
			return nil, err
		}
		if school != nil {
			ref = &SchoolRef{ID: school.ID, Name: school.Name, Points: school.Points}
		}
		out = append(out, RequestWithRefs{RewardRequest: *request, Reward: reward, School: ref})
	}
	return out, nil
}

// Approve grants a pending request. The school's balance is re-checked here
// because it may have drifted since the request was filed.
func (s *RewardService) Approve(ctx context.Context, id primitive.ObjectID) (*RewardRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("Reward request not found")
	}
	if !rules.CanResolveRequest(request.Status) {
		return nil, apperr.Conflict("Request already processed")
	}

	reward, err := s.catalog.FindByID(ctx, request.RewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, apperr.NotFound("Reward not found")
	}

	school, err := s.schools.FindByID(ctx, request.SchoolID)
	if err != nil {
		return nil, err
	}
	if school == nil || school.Points < reward.Points {
		return nil, apperr.Conflict("School does not have enough points")
	}

	now := time.Now()
	if err := s.requests.Approve(ctx, id, now); err != nil {
		return nil, err
	}
	if err := s.schools.DeductPoints(ctx, request.SchoolID, reward.Points); err != nil {
		return nil, err
	}

	request.Status = rules.RequestApproved
	request.ApprovedAt = &now
	return request, nil
}

// Deny closes a pending request without touching the balance.
func (s *RewardService) Deny(ctx context.Context, id primitive.ObjectID) (*RewardRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("Reward request not found")
	}
	if !rules.CanResolveRequest(request.Status) {
		return nil, apperr.Conflict("Request already processed")
	}

	now := time.Now()
	if err := s.requests.Deny(ctx, id, now); err != nil {
		return nil, err
	}
	request.Status = rules.RequestDenied
	request.DeniedAt = &now
	return request, nil
}
