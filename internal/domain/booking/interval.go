package booking

import (
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
)

// Overlaps uses half-open [start, end) ranges, so back-to-back bookings
// do not conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ValidateRange is the structural check done before any lookup.
func ValidateRange(start, end time.Time, minDuration time.Duration) error {
	if !start.Before(end) {
		return httperr.ErrValidation("invalid_time_range", "Start time must be before end time.")
	}
	if end.Sub(start) < minDuration {
		return httperr.ErrValidation("duration_too_short", "Booking is shorter than the minimum duration.")
	}
	return nil
}
