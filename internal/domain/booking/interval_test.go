package booking

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

func clock(h, m int) time.Time {
	return time.Date(2026, 10, 19, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"partial", clock(8, 0), clock(9, 0), clock(8, 30), clock(9, 30), true},
		{"contained", clock(8, 0), clock(11, 0), clock(9, 0), clock(10, 0), true},
		{"identical", clock(8, 0), clock(9, 0), clock(8, 0), clock(9, 0), true},
		{"back to back", clock(8, 0), clock(9, 0), clock(9, 0), clock(10, 0), false},
		{"back to back reversed", clock(9, 0), clock(10, 0), clock(8, 0), clock(9, 0), false},
		{"disjoint", clock(6, 0), clock(7, 0), clock(9, 0), clock(10, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	minDur := 30 * time.Minute

	if err := ValidateRange(clock(8, 0), clock(8, 30), minDur); err != nil {
		t.Fatalf("30 minutes should pass, got %v", err)
	}
	if err := ValidateRange(clock(8, 0), clock(8, 29), minDur); err == nil {
		t.Fatalf("29 minutes should fail")
	}
	if err := ValidateRange(clock(9, 0), clock(8, 0), minDur); err == nil {
		t.Fatalf("reversed range should fail")
	}
	if err := ValidateRange(clock(9, 0), clock(9, 0), minDur); err == nil {
		t.Fatalf("empty range should fail")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"06:00", 360, false},
		{"6:30", 390, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"1200", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseClock(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWithinOperatingHours(t *testing.T) {
	cx := &models.Complex{OpenTime: "06:00", CloseTime: "22:00"}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", clock(7, 0), clock(8, 0), true},
		{"at open", clock(6, 0), clock(7, 0), true},
		{"until close", clock(21, 0), clock(22, 0), true},
		{"before open", clock(5, 0), clock(6, 0), false},
		{"past close", clock(21, 30), clock(22, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithinOperatingHours(cx, tt.start, tt.end)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("WithinOperatingHours = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateHours(t *testing.T) {
	if err := ValidateHours("06:00", "22:00"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateHours("22:00", "06:00"); err == nil {
		t.Fatalf("expected error for reversed hours")
	}
	if err := ValidateHours("x", "06:00"); err == nil {
		t.Fatalf("expected error for bad clock")
	}
}
