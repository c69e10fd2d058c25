package pricing

import (
	"errors"
	"testing"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		rule     models.PricingRule
		wantCode string
	}{
		{"ok", models.PricingRule{DayOfWeek: "saturday", StartTime: "06:00", EndTime: "22:00", Price: 1}, ""},
		{"bad day", models.PricingRule{DayOfWeek: "Someday", StartTime: "06:00", EndTime: "22:00", Price: 1}, "invalid_day_of_week"},
		{"bad clock", models.PricingRule{DayOfWeek: "All", StartTime: "6am", EndTime: "22:00", Price: 1}, "invalid_rule_time"},
		{"reversed", models.PricingRule{DayOfWeek: "All", StartTime: "22:00", EndTime: "06:00", Price: 1}, "invalid_rule_window"},
		{"zero price", models.PricingRule{DayOfWeek: "All", StartTime: "06:00", EndTime: "22:00", Price: 0}, "invalid_rule_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := []models.PricingRule{tt.rule}
			err := Validate(rules)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var ve httperr.ValidationError
			if !errors.As(err, &ve) || ve.Code != tt.wantCode {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestValidate_NormalizesDay(t *testing.T) {
	rules := []models.PricingRule{{DayOfWeek: "ALL", StartTime: "06:00", EndTime: "07:00", Price: 1}}
	if err := Validate(rules); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rules[0].DayOfWeek != DayAll {
		t.Fatalf("day = %q, want %q", rules[0].DayOfWeek, DayAll)
	}
}

func TestPriceRange(t *testing.T) {
	lo, hi := PriceRange([]models.PricingRule{{Price: 90}, {Price: 40}, {Price: 120}})
	if lo != 40 || hi != 120 {
		t.Fatalf("range = %v-%v, want 40-120", lo, hi)
	}
}
