package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

var hcm = mustLoad("Asia/Ho_Chi_Minh")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("ICT", 7*3600)
	}
	return loc
}

// 2026-10-19 is a Monday.
func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 19, hour, minute, 0, 0, hcm)
}

func TestQuotePrice_SingleRule(t *testing.T) {
	rules := []models.PricingRule{
		{ID: 1, DayOfWeek: "Monday", StartTime: "06:00", EndTime: "22:00", Price: 100000},
	}

	q, err := QuotePrice(rules, at(7, 0), at(8, 0))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if q.Price != 100000 {
		t.Fatalf("price = %v, want 100000", q.Price)
	}
	if q.RuleID != 1 {
		t.Fatalf("rule = %d, want 1", q.RuleID)
	}
}

func TestQuotePrice_FractionalHours(t *testing.T) {
	rules := []models.PricingRule{
		{ID: 1, DayOfWeek: "All", StartTime: "06:00", EndTime: "22:00", Price: 80000},
	}

	q, err := QuotePrice(rules, at(7, 0), at(8, 30))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if q.Price != 120000 {
		t.Fatalf("price = %v, want 120000", q.Price)
	}
	if q.Hours != 1.5 {
		t.Fatalf("hours = %v, want 1.5", q.Hours)
	}
}

func TestQuotePrice_RoundsToWholeDong(t *testing.T) {
	rules := []models.PricingRule{
		{ID: 1, DayOfWeek: "All", StartTime: "06:00", EndTime: "22:00", Price: 82301},
	}

	// 45 minutes: 61725.75
	q, err := QuotePrice(rules, at(7, 0), at(7, 45))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if q.Price != 61726 {
		t.Fatalf("price = %v, want 61726", q.Price)
	}
}

func TestQuotePrice_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		rules  []models.PricingRule
		wantID uint
	}{
		{
			name: "explicit weekday beats All",
			rules: []models.PricingRule{
				{ID: 1, DayOfWeek: "All", StartTime: "06:00", EndTime: "10:00", Price: 50000},
				{ID: 2, DayOfWeek: "monday", StartTime: "06:00", EndTime: "22:00", Price: 90000},
			},
			wantID: 2,
		},
		{
			name: "narrower window wins on the same day",
			rules: []models.PricingRule{
				{ID: 1, DayOfWeek: "Monday", StartTime: "06:00", EndTime: "22:00", Price: 90000},
				{ID: 2, DayOfWeek: "Monday", StartTime: "07:00", EndTime: "09:00", Price: 150000},
			},
			wantID: 2,
		},
		{
			name: "other weekdays are ignored",
			rules: []models.PricingRule{
				{ID: 1, DayOfWeek: "Tuesday", StartTime: "07:00", EndTime: "08:00", Price: 1},
				{ID: 2, DayOfWeek: "All", StartTime: "00:00", EndTime: "24:00", Price: 70000},
			},
			wantID: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := QuotePrice(tt.rules, at(7, 0), at(8, 0))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if q.RuleID != tt.wantID {
				t.Fatalf("rule = %d, want %d", q.RuleID, tt.wantID)
			}
		})
	}
}

func TestQuotePrice_NoCoveringRule(t *testing.T) {
	rules := []models.PricingRule{
		{ID: 1, DayOfWeek: "Monday", StartTime: "06:00", EndTime: "17:00", Price: 80000},
		{ID: 2, DayOfWeek: "Monday", StartTime: "17:00", EndTime: "22:00", Price: 120000},
	}

	// spans both rules; never split
	_, err := QuotePrice(rules, at(16, 0), at(18, 0))
	if !httperr.IsNoRule(err) {
		t.Fatalf("expected NoRuleError, got %v", err)
	}
}

func TestQuotePrice_TieIsAmbiguous(t *testing.T) {
	rules := []models.PricingRule{
		{ID: 1, DayOfWeek: "Monday", StartTime: "06:00", EndTime: "12:00", Price: 80000},
		{ID: 2, DayOfWeek: "Monday", StartTime: "07:00", EndTime: "13:00", Price: 90000},
	}

	_, err := QuotePrice(rules, at(8, 0), at(9, 0))
	var nr httperr.NoRuleError
	if !errors.As(err, &nr) || !nr.Ambiguous {
		t.Fatalf("expected ambiguous NoRuleError, got %v", err)
	}
}

func TestQuotePrice_Deterministic(t *testing.T) {
	rules := []models.PricingRule{
		{ID: 1, DayOfWeek: "All", StartTime: "06:00", EndTime: "22:00", Price: 60000},
		{ID: 2, DayOfWeek: "Monday", StartTime: "17:00", EndTime: "22:00", Price: 110000},
	}

	first, err := QuotePrice(rules, at(18, 0), at(19, 30))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i := 0; i < 20; i++ {
		q, _ := QuotePrice(rules, at(18, 0), at(19, 30))
		if q != first {
			t.Fatalf("quote changed between calls: %+v vs %+v", q, first)
		}
	}
}

func TestQuotePrice_EmptyRules(t *testing.T) {
	if _, err := QuotePrice(nil, at(7, 0), at(8, 0)); !httperr.IsNoRule(err) {
		t.Fatalf("expected NoRuleError, got %v", err)
	}
}
