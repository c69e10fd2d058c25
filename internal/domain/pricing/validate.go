package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// NormalizeDay returns the canonical spelling of a weekday name or "All".
func NormalizeDay(day string) (string, bool) {
	day = strings.TrimSpace(day)
	if strings.EqualFold(day, DayAll) {
		return DayAll, true
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(day, wd.String()) {
			return wd.String(), true
		}
	}
	return "", false
}

// Validate checks a rule set before it replaces a court's rules. Overlapping
// rules are allowed; QuotePrice settles them by precedence.
func Validate(rules []models.PricingRule) error {
	for i := range rules {
		r := &rules[i]

		day, ok := NormalizeDay(r.DayOfWeek)
		if !ok {
			return httperr.ErrValidation("invalid_day_of_week", fmt.Sprintf("Rule %d: unknown day %q.", i+1, r.DayOfWeek))
		}
		r.DayOfWeek = day

		s, err := booking.ParseClock(r.StartTime)
		if err != nil {
			return httperr.ErrValidation("invalid_rule_time", fmt.Sprintf("Rule %d: start time must be HH:MM.", i+1))
		}
		e, err := booking.ParseClock(r.EndTime)
		if err != nil {
			return httperr.ErrValidation("invalid_rule_time", fmt.Sprintf("Rule %d: end time must be HH:MM.", i+1))
		}
		if s >= e {
			return httperr.ErrValidation("invalid_rule_window", fmt.Sprintf("Rule %d: start time must be before end time.", i+1))
		}
		if r.Price <= 0 {
			return httperr.ErrValidation("invalid_rule_price", fmt.Sprintf("Rule %d: price must be positive.", i+1))
		}
	}
	return nil
}

// PriceRange returns the lowest and highest hourly rate across rules.
func PriceRange(rules []models.PricingRule) (lo, hi float64) {
	for i, r := range rules {
		if i == 0 || r.Price < lo {
			lo = r.Price
		}
		if r.Price > hi {
			hi = r.Price
		}
	}
	return lo, hi
}
