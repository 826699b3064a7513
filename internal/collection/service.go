package collection

import (
	"context"
	"time"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"
	"OliaRewards/internal/rules"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionStore is the ledger surface the service needs.
// *CollectionRepository satisfies it.
type CollectionStore interface {
	Insert(ctx context.Context, record *Collection) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Collection, error)
	ListBySchool(ctx context.Context, schoolID primitive.ObjectID) ([]*Collection, error)
	List(ctx context.Context, status string) ([]*Collection, error)
	Schedule(ctx context.Context, id primitive.ObjectID, date time.Time) error
	Complete(ctx context.Context, id primitive.ObjectID, liters float64, points int, at time.Time) error
}

type SchoolAccounts interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.School, error)
	RecordCompletedCollection(ctx context.Context, id primitive.ObjectID, liters float64, points int) error
}

type CollectionService struct {
	store   CollectionStore
	schools SchoolAccounts

	// allowReschedule permits re-scheduling a SCHEDULED collection. Off by
	// default; completed collections are always final.
	allowReschedule bool
}

func NewCollectionService(store CollectionStore, schools SchoolAccounts, allowReschedule bool) *CollectionService {
	return &CollectionService{store: store, schools: schools, allowReschedule: allowReschedule}
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *CollectionService) Request(ctx context.Context, schoolID primitive.ObjectID, req RequestCollectionRequest) (*Collection, error) {
	if req.RequestedLiters == 0 || req.PreferredDate == "" {
		return nil, apperr.Invalid("Requested liters and preferred date are required")
	}
	if req.RequestedLiters <= 0 {
		return nil, apperr.Invalid("Requested liters must be positive")
	}
	preferred, ok := parseDate(req.PreferredDate)
	if !ok {
		return nil, apperr.Invalid("Invalid preferred date")
	}

	record := &Collection{
		ID:              primitive.NewObjectID(),
		SchoolID:        schoolID,
		RequestedLiters: req.RequestedLiters,
		PreferredDate:   preferred,
		Status:          rules.CollectionPending,
		CreatedAt:       time.Now(),
	}
	if err := s.store.Insert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *CollectionService) ListForSchool(ctx context.Context, schoolID primitive.ObjectID) ([]*Collection, error) {
	return s.store.ListBySchool(ctx, schoolID)
}

// ListAll is the government view, optionally filtered by status and by the
// requesting school's city.
func (s *CollectionService) ListAll(ctx context.Context, status, city string) ([]CollectionWithSchool, error) {
	records, err := s.store.List(ctx, status)
	if err != nil {
		return nil, err
	}

	refs := map[primitive.ObjectID]*SchoolRef{}
	out := make([]CollectionWithSchool, 0, len(records))
	for _, record := range records {
		ref, ok := refs[record.SchoolID]
		if !ok {
			school, err := s.schools.FindByID(ctx, record.SchoolID)
			if err != nil {
				return nil, err
			}
			if school != nil {
				ref = &SchoolRef{ID: school.ID, Name: school.Name, Address: school.Address, Neighborhood: school.Neighborhood, City: school.City}
			}
			refs[record.SchoolID] = ref
		}
		if city != "" && (ref == nil || ref.City != city) {
			continue
		}
		out = append(out, CollectionWithSchool{Collection: *record, School: ref})
	}
	return out, nil
}

// Schedule moves a pending request to SCHEDULED on the given date.
func (s *CollectionService) Schedule(ctx context.Context, id primitive.ObjectID, req ScheduleCollectionRequest) (*Collection, error) {
	if req.ScheduledDate == "" {
		return nil, apperr.Invalid("Scheduled date is required")
	}
	date, ok := parseDate(req.ScheduledDate)
	if !ok {
		return nil, apperr.Invalid("Invalid scheduled date")
	}

	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.NotFound("Collection not found")
	}
	if !rules.CanScheduleCollection(record.Status, s.allowReschedule) {
		return nil, apperr.Conflict("Collection cannot be scheduled in its current state")
	}

	if err := s.store.Schedule(ctx, id, date); err != nil {
		return nil, err
	}
	record.Status = rules.CollectionScheduled
	record.ScheduledDate = &date
	return record, nil
}

// Complete closes the collection, fixes the awarded points and credits the
// school. Points and collected liters are immutable afterwards.
func (s *CollectionService) Complete(ctx context.Context, id primitive.ObjectID, req CompleteCollectionRequest) (*Collection, error) {
	if req.CollectedLiters == 0 {
		return nil, apperr.Invalid("Collected liters are required")
	}
	if req.CollectedLiters < 0 {
		return nil, apperr.Invalid("Collected liters must be positive")
	}

	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.NotFound("Collection not found")
	}
	if !rules.CanCompleteCollection(record.Status) {
		return nil, apperr.Conflict("Collection already completed")
	}

	points := rules.CollectionPoints(req.CollectedLiters)
	now := time.Now()
	if err := s.store.Complete(ctx, id, req.CollectedLiters, points, now); err != nil {
		return nil, err
	}
	if err := s.schools.RecordCompletedCollection(ctx, record.SchoolID, req.CollectedLiters, points); err != nil {
		return nil, err
	}

	record.Status = rules.CollectionCompleted
	record.CollectedLiters = &req.CollectedLiters
	record.CompletedDate = &now
	record.Points = points
	return record, nil
}
