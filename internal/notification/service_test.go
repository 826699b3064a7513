package notification

import (
	"context"
	"testing"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubStore struct {
	notifications map[primitive.ObjectID]*Notification
}

func newStubStore() *stubStore {
	return &stubStore{notifications: map[primitive.ObjectID]*Notification{}}
}

func (s *stubStore) Insert(_ context.Context, n *Notification) error {
	s.notifications[n.ID] = n
	return nil
}

func (s *stubStore) InsertMany(_ context.Context, batch []*Notification) error {
	for _, n := range batch {
		s.notifications[n.ID] = n
	}
	return nil
}

func (s *stubStore) FindByID(_ context.Context, id primitive.ObjectID) (*Notification, error) {
	return s.notifications[id], nil
}

func (s *stubStore) ListForCitizen(_ context.Context, citizenID primitive.ObjectID, isRead *bool) ([]*Notification, error) {
	var out []*Notification
	for _, n := range s.notifications {
		if n.UserID != nil && *n.UserID == citizenID && (isRead == nil || n.IsRead == *isRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubStore) ListForSchool(_ context.Context, schoolID primitive.ObjectID, isRead *bool) ([]*Notification, error) {
	var out []*Notification
	for _, n := range s.notifications {
		if n.SchoolID != nil && *n.SchoolID == schoolID && (isRead == nil || n.IsRead == *isRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubStore) ListBroadcast(_ context.Context, isRead *bool) ([]*Notification, error) {
	var out []*Notification
	for _, n := range s.notifications {
		if n.UserID == nil && n.SchoolID == nil && (isRead == nil || n.IsRead == *isRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubStore) MarkRead(_ context.Context, id primitive.ObjectID) error {
	s.notifications[id].IsRead = true
	return nil
}

type stubRecipients struct {
	ids []primitive.ObjectID
}

func (s *stubRecipients) ListIDs(_ context.Context) ([]primitive.ObjectID, error) {
	return s.ids, nil
}

func newService(citizenCount, schoolCount int) (*NotificationService, *stubStore) {
	store := newStubStore()
	citizens := &stubRecipients{}
	schools := &stubRecipients{}
	for i := 0; i < citizenCount; i++ {
		citizens.ids = append(citizens.ids, primitive.NewObjectID())
	}
	for i := 0; i < schoolCount; i++ {
		schools.ids = append(schools.ids, primitive.NewObjectID())
	}
	return NewNotificationService(store, citizens, schools), store
}

func kindOf(t *testing.T, err error) apperr.Kind {
	t.Helper()
	ae, ok := err.(*apperr.Error)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	return ae.Kind
}

func TestBroadcastFansOutToEveryAccount(t *testing.T) {
	svc, store := newService(3, 2)

	delivered, err := svc.Create(context.Background(), CreateNotificationRequest{
		Type: "ANNOUNCEMENT", Title: "Mutirão de coleta", Message: "Sábado na praça", Broadcast: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, delivered)
	assert.Len(t, store.notifications, 5)
}

func TestCreateTargetedNotification(t *testing.T) {
	svc, store := newService(0, 0)
	citizenID := primitive.NewObjectID()

	delivered, err := svc.Create(context.Background(), CreateNotificationRequest{
		Type: "DONATION_CONFIRMED", Title: "Doação confirmada", Message: "Sua doação foi confirmada", UserID: citizenID.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	claims := &auth.JWTClaims{ID: citizenID.Hex(), Role: auth.RoleCitizen}
	feed, err := svc.ListForCaller(context.Background(), claims, nil)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "DONATION_CONFIRMED", feed[0].Type)
	assert.Len(t, store.notifications, 1)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService(0, 0)

	_, err := svc.Create(context.Background(), CreateNotificationRequest{Message: "sem tipo", Broadcast: true})
	assert.Equal(t, apperr.KindInvalid, kindOf(t, err))

	_, err = svc.Create(context.Background(), CreateNotificationRequest{Type: "ALERT"})
	assert.Equal(t, apperr.KindInvalid, kindOf(t, err))

	// Title is optional; type plus message is the canonical announcement.
	delivered, err := svc.Create(context.Background(), CreateNotificationRequest{Type: "ALERT", Message: "sem título", Broadcast: true})
	require.NoError(t, err)
	assert.Zero(t, delivered)
}

func TestCreateWithoutTargetBroadcasts(t *testing.T) {
	svc, store := newService(2, 1)

	delivered, err := svc.Create(context.Background(), CreateNotificationRequest{Type: "ANNOUNCEMENT", Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, 3, delivered)
	assert.Len(t, store.notifications, 3)
}

func TestMarkReadOwnership(t *testing.T) {
	svc, store := newService(0, 0)
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	n := &Notification{ID: primitive.NewObjectID(), UserID: &owner, Title: "t", Message: "m"}
	require.NoError(t, store.Insert(context.Background(), n))

	err := svc.MarkRead(context.Background(), &auth.JWTClaims{ID: stranger.Hex(), Role: auth.RoleCitizen}, n.ID)
	assert.Equal(t, apperr.KindForbidden, kindOf(t, err))
	assert.False(t, n.IsRead)

	err = svc.MarkRead(context.Background(), &auth.JWTClaims{ID: owner.Hex(), Role: auth.RoleCitizen}, n.ID)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	svc, _ := newService(0, 0)

	err := svc.MarkRead(context.Background(), &auth.JWTClaims{ID: primitive.NewObjectID().Hex(), Role: auth.RoleCitizen}, primitive.NewObjectID())
	assert.Equal(t, apperr.KindNotFound, kindOf(t, err))
}

func TestListForCallerIsReadFilter(t *testing.T) {
	svc, store := newService(0, 0)
	citizenID := primitive.NewObjectID()

	require.NoError(t, store.Insert(context.Background(), &Notification{ID: primitive.NewObjectID(), UserID: &citizenID, Title: "lida", Message: "m", IsRead: true}))
	require.NoError(t, store.Insert(context.Background(), &Notification{ID: primitive.NewObjectID(), UserID: &citizenID, Title: "nova", Message: "m"}))

	claims := &auth.JWTClaims{ID: citizenID.Hex(), Role: auth.RoleCitizen}

	read := true
	feed, err := svc.ListForCaller(context.Background(), claims, &read)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "lida", feed[0].Title)

	read = false
	feed, err = svc.ListForCaller(context.Background(), claims, &read)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "nova", feed[0].Title)

	feed, err = svc.ListForCaller(context.Background(), claims, nil)
	require.NoError(t, err)
	assert.Len(t, feed, 2)
}

func TestGovernmentSeesBroadcastFeed(t *testing.T) {
	svc, store := newService(0, 0)
	citizenID := primitive.NewObjectID()

	require.NoError(t, store.Insert(context.Background(), &Notification{ID: primitive.NewObjectID(), UserID: &citizenID, Title: "t", Message: "m"}))
	require.NoError(t, store.Insert(context.Background(), &Notification{ID: primitive.NewObjectID(), Title: "edital", Message: "m"}))

	feed, err := svc.ListForCaller(context.Background(), &auth.JWTClaims{ID: primitive.NewObjectID().Hex(), Role: auth.RoleGovernment}, nil)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "edital", feed[0].Title)
}
