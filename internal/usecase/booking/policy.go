package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
)

// Policy holds the booking rules shared by every use case in this package.
type Policy struct {
	MinDuration time.Duration
	PendingHold time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func DefaultPolicy() Policy {
	return Policy{
		MinDuration: 30 * time.Minute,
		PendingHold: 15 * time.Minute,
	}
}

func (p Policy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// staleBefore is the creation cutoff for unpaid holds. The zero time keeps
// every hold alive.
func (p Policy) staleBefore(now time.Time) time.Time {
	if p.PendingHold <= 0 {
		return time.Time{}
	}
	return now.Add(-p.PendingHold)
}

// ======================================================
// Conflict codes
// ======================================================

const (
	ReasonStartInPast   = "start_in_past"
	ReasonTooShort      = "duration_too_short"
	ReasonOutsideHours  = "outside_operating_hours"
	ReasonSlotTaken     = "slot_taken"
	ReasonSlotJustTaken = "slot_just_taken"
	ReasonInvalidHours  = "invalid_operating_hours"
)

type assessment struct {
	Code   string
	Reason string
}

func (a assessment) ok() bool {
	return a.Code == ""
}

// assess runs the availability rules in order: past start, minimum
// duration, operating hours, overlap.
func (p Policy) assess(
	ctx context.Context,
	repo domain.Repository,
	court *models.Court,
	start time.Time,
	end time.Time,
	now time.Time,
) (assessment, error) {

	if start.Before(now) {
		return assessment{ReasonStartInPast, "Start time is in the past."}, nil
	}

	if end.Sub(start) < p.MinDuration {
		return assessment{ReasonTooShort, fmt.Sprintf("Bookings must last at least %d minutes.", int(p.MinDuration.Minutes()))}, nil
	}

	ok, err := domain.WithinOperatingHours(court.Complex, start, end)
	if err != nil {
		return assessment{ReasonInvalidHours, "The complex has no valid operating hours."}, nil
	}
	if !ok {
		return assessment{
			ReasonOutsideHours,
			fmt.Sprintf("The complex is open from %s to %s.", court.Complex.OpenTime, court.Complex.CloseTime),
		}, nil
	}

	existing, err := repo.ListActiveOverlapping(ctx, court.ID, start, end, p.staleBefore(now))
	if err != nil {
		return assessment{}, err
	}
	if len(existing) > 0 {
		b := existing[0]
		loc := start.Location()
		return assessment{
			ReasonSlotTaken,
			fmt.Sprintf(
				"Court is already booked from %s to %s.",
				b.StartTime.In(loc).Format("15:04"),
				b.EndTime.In(loc).Format("15:04"),
			),
		}, nil
	}

	return assessment{}, nil
}

// ======================================================
// Helpers
// ======================================================

// loadBookableCourt treats inactive courts and complexes as missing.
func loadBookableCourt(ctx context.Context, repo domain.Repository, courtID uint) (*models.Court, error) {
	court, err := repo.GetCourt(ctx, courtID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("court")
		}
		return nil, err
	}

	if !court.IsActive() || court.Complex == nil || !court.Complex.IsActive() {
		return nil, httperr.ErrNotFound("court")
	}
	return court, nil
}

func loadBooking(ctx context.Context, repo domain.Repository, id uint) (*models.Booking, error) {
	b, err := repo.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("booking")
		}
		return nil, err
	}
	return b, nil
}

// parseRange reads both ends in the complex's timezone.
func parseRange(cx *models.Complex, startRaw, endRaw string) (time.Time, time.Time, error) {
	loc := timezone.Location(cx.Timezone)

	start, err := timezone.ParseDateTime(startRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrValidation("invalid_start_time", "Start time is not a valid date-time.")
	}
	end, err := timezone.ParseDateTime(endRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrValidation("invalid_end_time", "End time is not a valid date-time.")
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, httperr.ErrValidation("invalid_time_range", "Start time must be before end time.")
	}
	return start, end, nil
}
