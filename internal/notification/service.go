package notification

import (
	"context"
	"time"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationStore interface {
	Insert(ctx context.Context, notification *Notification) error
	InsertMany(ctx context.Context, notifications []*Notification) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Notification, error)
	ListForCitizen(ctx context.Context, citizenID primitive.ObjectID, isRead *bool) ([]*Notification, error)
	ListForSchool(ctx context.Context, schoolID primitive.ObjectID, isRead *bool) ([]*Notification, error)
	ListBroadcast(ctx context.Context, isRead *bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
}

// Recipients enumerates account ids for broadcast fan-out.
type Recipients interface {
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type NotificationService struct {
	store    NotificationStore
	citizens Recipients
	schools  Recipients
}

func NewNotificationService(store NotificationStore, citizens Recipients, schools Recipients) *NotificationService {
	return &NotificationService{store: store, citizens: citizens, schools: schools}
}

// Notify inserts a single targeted notification.
func (s *NotificationService) Notify(ctx context.Context, userID, schoolID *primitive.ObjectID, kind, title, message string) error {
	return s.store.Insert(ctx, &Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		SchoolID:  schoolID,
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// Create handles the government announcement endpoint. A broadcast fans out a
// copy to every citizen and school and returns the number delivered.
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (int, error) {
	if req.Type == "" || req.Message == "" {
		return 0, apperr.Invalid("Type and message are required")
	}

	// No target means a broadcast, with or without the explicit flag.
	if req.Broadcast || (req.UserID == "" && req.SchoolID == "") {
		return s.broadcast(ctx, req.Type, req.Title, req.Message)
	}

	var userID, schoolID *primitive.ObjectID
	switch {
	case req.UserID != "":
		id, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			return 0, apperr.NotFound("User not found")
		}
		userID = &id
	case req.SchoolID != "":
		id, err := primitive.ObjectIDFromHex(req.SchoolID)
		if err != nil {
			return 0, apperr.NotFound("School not found")
		}
		schoolID = &id
	}

	if err := s.Notify(ctx, userID, schoolID, req.Type, req.Title, req.Message); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *NotificationService) broadcast(ctx context.Context, kind, title, message string) (int, error) {
	now := time.Now()
	var batch []*Notification

	citizenIDs, err := s.citizens.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range citizenIDs {
		id := id
		batch = append(batch, &Notification{ID: primitive.NewObjectID(), UserID: &id, Type: kind, Title: title, Message: message, CreatedAt: now})
	}

	schoolIDs, err := s.schools.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range schoolIDs {
		id := id
		batch = append(batch, &Notification{ID: primitive.NewObjectID(), SchoolID: &id, Type: kind, Title: title, Message: message, CreatedAt: now})
	}

	if err := s.store.InsertMany(ctx, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// ListForCaller returns the feed matching the caller's role, optionally
// restricted to read or unread entries.
func (s *NotificationService) ListForCaller(ctx context.Context, claims *auth.JWTClaims, isRead *bool) ([]*Notification, error) {
	switch claims.Role {
	case auth.RoleCitizen:
		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			return nil, apperr.Unauthenticated("Invalid token subject")
		}
		return s.emptyIfNil(s.store.ListForCitizen(ctx, id, isRead))
	case auth.RoleSchool:
		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			return nil, apperr.Unauthenticated("Invalid token subject")
		}
		return s.emptyIfNil(s.store.ListForSchool(ctx, id, isRead))
	case auth.RoleGovernment:
		return s.emptyIfNil(s.store.ListBroadcast(ctx, isRead))
	default:
		return nil, apperr.Forbidden("Unknown role")
	}
}

func (s *NotificationService) emptyIfNil(notifications []*Notification, err error) ([]*Notification, error) {
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*Notification{}
	}
	return notifications, nil
}

// MarkRead flips the read flag after checking the caller owns the entry.
func (s *NotificationService) MarkRead(ctx context.Context, claims *auth.JWTClaims, id primitive.ObjectID) error {
	notification, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return apperr.NotFound("Notification not found")
	}

	callerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return apperr.Unauthenticated("Invalid token subject")
	}
	owned := false
	switch claims.Role {
	case auth.RoleCitizen:
		owned = notification.UserID != nil && *notification.UserID == callerID
	case auth.RoleSchool:
		owned = notification.SchoolID != nil && *notification.SchoolID == callerID
	case auth.RoleGovernment:
		owned = notification.UserID == nil && notification.SchoolID == nil
	}
	if !owned {
		return apperr.Forbidden("Not your notification")
	}

	return s.store.MarkRead(ctx, id)
}
