package handlers

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDayRange(t *testing.T) {
	loc := locationOf(&models.Complex{Timezone: "UTC"})

	from, to := dayRange("2026-10-01", "2026-10-02", loc)
	if from == nil || to == nil {
		t.Fatal("expected both bounds")
	}
	if !from.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from = %v", from)
	}
	if !to.Equal(time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("to = %v, want the day after the inclusive end", to)
	}

	from, to = dayRange("garbage", "", loc)
	if from != nil || to != nil {
		t.Fatal("unparseable bounds must be ignored")
	}
}
