package cache

import (
	"testing"

	"github.com/BruksfildServices01/court-scheduler/internal/events"
)

func TestGridKey(t *testing.T) {
	if got := gridKey(12, "2026-10-19"); got != "grid:12:2026-10-19" {
		t.Fatalf("key = %s", got)
	}
}

func TestHandle_IgnoresEventsWithoutComplex(t *testing.T) {
	c := NewGridCache(nil, 0)
	if err := c.Handle(t.Context(), events.Event{Type: events.BookingCreated}); err != nil {
		t.Fatalf("handle: %v", err)
	}
}
