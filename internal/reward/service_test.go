package reward

import (
	"context"
	"testing"
	"time"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"
	"OliaRewards/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubCatalog struct {
	rewards map[primitive.ObjectID]*Reward
}

func (s *stubCatalog) ListActive(_ context.Context) ([]*Reward, error) {
	var out []*Reward
	for _, r := range s.rewards {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubCatalog) FindByID(_ context.Context, id primitive.ObjectID) (*Reward, error) {
	return s.rewards[id], nil
}

type stubRequests struct {
	requests map[primitive.ObjectID]*RewardRequest
}

func newStubRequests() *stubRequests {
	return &stubRequests{requests: map[primitive.ObjectID]*RewardRequest{}}
}

func (s *stubRequests) Insert(_ context.Context, r *RewardRequest) error {
	s.requests[r.ID] = r
	return nil
}

func (s *stubRequests) FindByID(_ context.Context, id primitive.ObjectID) (*RewardRequest, error) {
	return s.requests[id], nil
}

func (s *stubRequests) FindPending(_ context.Context, schoolID, rewardID primitive.ObjectID) (*RewardRequest, error) {
	for _, r := range s.requests {
		if r.SchoolID == schoolID && r.RewardID == rewardID && r.Status == rules.RequestPending {
			return r, nil
		}
	}
	return nil, nil
}

func (s *stubRequests) ListBySchool(_ context.Context, schoolID primitive.ObjectID) ([]*RewardRequest, error) {
	var out []*RewardRequest
	for _, r := range s.requests {
		if r.SchoolID == schoolID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRequests) List(_ context.Context, status string) ([]*RewardRequest, error) {
	var out []*RewardRequest
	for _, r := range s.requests {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRequests) Approve(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r := s.requests[id]
	r.Status = rules.RequestApproved
	r.ApprovedAt = &at
	return nil
}

func (s *stubRequests) Deny(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r := s.requests[id]
	r.Status = rules.RequestDenied
	r.DeniedAt = &at
	return nil
}

type stubSchoolAccounts struct {
	schools  map[primitive.ObjectID]*auth.School
	deducted int
}

func (s *stubSchoolAccounts) FindByID(_ context.Context, id primitive.ObjectID) (*auth.School, error) {
	return s.schools[id], nil
}

func (s *stubSchoolAccounts) DeductPoints(_ context.Context, id primitive.ObjectID, points int) error {
	s.schools[id].Points -= points
	s.deducted += points
	return nil
}

func newService() (*RewardService, *stubCatalog, *stubRequests, *stubSchoolAccounts) {
	catalog := &stubCatalog{rewards: map[primitive.ObjectID]*Reward{}}
	requests := newStubRequests()
	schools := &stubSchoolAccounts{schools: map[primitive.ObjectID]*auth.School{}}
	return NewRewardService(catalog, requests, schools), catalog, requests, schools
}

func kindOf(t *testing.T, err error) apperr.Kind {
	t.Helper()
	ae, ok := err.(*apperr.Error)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	return ae.Kind
}

func seedReward(catalog *stubCatalog, points int) *Reward {
	r := &Reward{ID: primitive.NewObjectID(), Name: "Computadores Novos", Points: points, IsActive: true}
	catalog.rewards[r.ID] = r
	return r
}

func seedSchool(schools *stubSchoolAccounts, points int) *auth.School {
	school := &auth.School{ID: primitive.NewObjectID(), Name: "Escola Verde", Points: points}
	schools.schools[school.ID] = school
	return school
}

func TestRequestReward(t *testing.T) {
	svc, catalog, _, schools := newService()
	reward := seedReward(catalog, 5000)
	school := seedSchool(schools, 6000)

	out, err := svc.Request(context.Background(), school.ID, CreateRequestRequest{RewardID: reward.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, rules.RequestPending, out.Status)
	assert.Equal(t, reward.ID, out.RewardID)
	assert.Equal(t, school.Points, 6000, "filing a request must not deduct points")
}

func TestRequestRewardInsufficientPoints(t *testing.T) {
	svc, catalog, _, schools := newService()
	reward := seedReward(catalog, 5000)
	school := seedSchool(schools, 4800)

	_, err := svc.Request(context.Background(), school.ID, CreateRequestRequest{RewardID: reward.ID.Hex()})
	assert.Equal(t, apperr.KindConflict, kindOf(t, err))
}

func TestRequestRewardDuplicatePending(t *testing.T) {
	svc, catalog, _, schools := newService()
	reward := seedReward(catalog, 1000)
	school := seedSchool(schools, 9000)

	_, err := svc.Request(context.Background(), school.ID, CreateRequestRequest{RewardID: reward.ID.Hex()})
	require.NoError(t, err)

	_, err = svc.Request(context.Background(), school.ID, CreateRequestRequest{RewardID: reward.ID.Hex()})
	assert.Equal(t, apperr.KindConflict, kindOf(t, err))
}

func TestApproveDeductsPoints(t *testing.T) {
	svc, catalog, requests, schools := newService()
	reward := seedReward(catalog, 5000)
	school := seedSchool(schools, 6000)

	request := &RewardRequest{ID: primitive.NewObjectID(), SchoolID: school.ID, RewardID: reward.ID, Status: rules.RequestPending}
	require.NoError(t, requests.Insert(context.Background(), request))

	out, err := svc.Approve(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.RequestApproved, out.Status)
	assert.NotNil(t, out.ApprovedAt)
	assert.Equal(t, 1000, school.Points)
}

func TestApproveRechecksBalance(t *testing.T) {
	svc, catalog, requests, schools := newService()
	reward := seedReward(catalog, 5000)
	school := seedSchool(schools, 6000)

	request := &RewardRequest{ID: primitive.NewObjectID(), SchoolID: school.ID, RewardID: reward.ID, Status: rules.RequestPending}
	require.NoError(t, requests.Insert(context.Background(), request))

	// Balance drifted below the price since the request was filed.
	school.Points = 4800

	_, err := svc.Approve(context.Background(), request.ID)
	assert.Equal(t, apperr.KindConflict, kindOf(t, err))
	assert.Equal(t, rules.RequestPending, request.Status, "request stays pending on failed approval")
	assert.Zero(t, schools.deducted)
}

func TestApproveProcessedRequestRejected(t *testing.T) {
	svc, catalog, requests, schools := newService()
	reward := seedReward(catalog, 100)
	school := seedSchool(schools, 500)

	request := &RewardRequest{ID: primitive.NewObjectID(), SchoolID: school.ID, RewardID: reward.ID, Status: rules.RequestDenied}
	require.NoError(t, requests.Insert(context.Background(), request))

	_, err := svc.Approve(context.Background(), request.ID)
	assert.Equal(t, apperr.KindConflict, kindOf(t, err))

	_, err = svc.Deny(context.Background(), request.ID)
	assert.Equal(t, apperr.KindConflict, kindOf(t, err))
}

func TestDenyKeepsBalance(t *testing.T) {
	svc, catalog, requests, schools := newService()
	reward := seedReward(catalog, 5000)
	school := seedSchool(schools, 6000)

	request := &RewardRequest{ID: primitive.NewObjectID(), SchoolID: school.ID, RewardID: reward.ID, Status: rules.RequestPending}
	require.NoError(t, requests.Insert(context.Background(), request))

	out, err := svc.Deny(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.RequestDenied, out.Status)
	assert.NotNil(t, out.DeniedAt)
	assert.Equal(t, 6000, school.Points)
}

func TestCatalogOverlay(t *testing.T) {
	svc, catalog, requests, schools := newService()
	pending := seedReward(catalog, 100)
	approved := seedReward(catalog, 200)
	denied := seedReward(catalog, 300)
	untouched := seedReward(catalog, 400)
	school := seedSchool(schools, 1000)

	require.NoError(t, requests.Insert(context.Background(), &RewardRequest{ID: primitive.NewObjectID(), SchoolID: school.ID, RewardID: pending.ID, Status: rules.RequestPending}))
	require.NoError(t, requests.Insert(context.Background(), &RewardRequest{ID: primitive.NewObjectID(), SchoolID: school.ID, RewardID: approved.ID, Status: rules.RequestApproved}))
	require.NoError(t, requests.Insert(context.Background(), &RewardRequest{ID: primitive.NewObjectID(), SchoolID: school.ID, RewardID: denied.ID, Status: rules.RequestDenied}))

	annotated, err := svc.ListCatalogForSchool(context.Background(), school.ID)
	require.NoError(t, err)

	byID := map[primitive.ObjectID]AnnotatedReward{}
	for _, entry := range annotated {
		byID[entry.Reward.ID] = entry
	}

	assert.False(t, byID[pending.ID].Available)
	assert.True(t, byID[pending.ID].Requested)
	assert.False(t, byID[approved.ID].Available)
	assert.True(t, byID[approved.ID].Unlocked)
	assert.True(t, byID[denied.ID].Available, "a denied request frees the reward again")
	assert.True(t, byID[untouched.ID].Available)
}
