package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/repository/memory"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// exclusionRepo behaves like the database when the bookings exclusion
// constraint fires on insert.
type exclusionRepo struct {
	*memory.Repository
}

func (r exclusionRepo) WithinCourtLock(ctx context.Context, courtID uint, fn func(tx domain.Repository) error) error {
	return r.Repository.WithinCourtLock(ctx, courtID, func(domain.Repository) error {
		return fn(r)
	})
}

func (r exclusionRepo) CreateBooking(context.Context, *models.Booking) error {
	return &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}
}

type auditRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *auditRecorder) Log(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestCreateBooking_ExclusionViolationIsConflict(t *testing.T) {
	f := newFixture(t)
	sink := &auditRecorder{}
	d := audit.NewDispatcher(sink)

	uc := NewCreateBooking(exclusionRepo{f.repo}, d, nil, f.policy)
	_, err := uc.Execute(t.Context(), CreateBookingInput{
		Actor:     f.customerActor(),
		CourtID:   f.court.ID,
		StartTime: monday("10:00"),
		EndTime:   monday("11:00"),
	})

	var ce httperr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Code != ReasonSlotJustTaken {
		t.Fatalf("code = %s, want %s", ce.Code, ReasonSlotJustTaken)
	}

	d.Close()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != 1 || sink.events[0].Action != "booking_conflict" {
		t.Fatalf("audit events = %+v", sink.events)
	}
	if sink.events[0].ComplexID != f.cx.ID {
		t.Fatalf("audit complex = %d, want %d", sink.events[0].ComplexID, f.cx.ID)
	}
}
