package booking

import (
	"testing"
	"time"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
)

func TestExpirePending_CancelsStaleHolds(t *testing.T) {
	f := newFixture(t)
	stale := f.book(t, monday("07:00"), monday("08:00"))

	f.clock.Advance(10 * time.Minute)
	fresh := f.book(t, monday("09:00"), monday("10:00"))

	f.clock.Advance(6 * time.Minute)

	n, err := f.sweeper().Execute(t.Context())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired = %d, want 1", n)
	}

	got, _ := f.repo.GetBooking(t.Context(), stale.ID)
	if got.Status != string(domain.StatusCancelled) || got.Reason != domain.ReasonPaymentExpired {
		t.Fatalf("stale = %s/%q", got.Status, got.Reason)
	}
	if got.StatusChangedAt == nil || !got.StatusChangedAt.Equal(f.clock.Now()) {
		t.Fatalf("statusChangedAt = %v", got.StatusChangedAt)
	}

	got, _ = f.repo.GetBooking(t.Context(), fresh.ID)
	if got.Status != string(domain.StatusPending) {
		t.Fatalf("fresh hold = %s, want Pending", got.Status)
	}

	// a second pass finds nothing new
	n, err = f.sweeper().Execute(t.Context())
	if err != nil || n != 0 {
		t.Fatalf("second sweep = %d, %v", n, err)
	}
}

func TestExpirePending_SkipsConfirmed(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, monday("07:00"), monday("08:00"))

	if _, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionApprove,
	}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	f.clock.Advance(time.Hour)
	n, err := f.sweeper().Execute(t.Context())
	if err != nil || n != 0 {
		t.Fatalf("sweep = %d, %v", n, err)
	}
}

func TestExpirePending_ReadsIgnoreStaleHolds(t *testing.T) {
	f := newFixture(t)
	f.book(t, monday("07:00"), monday("08:00"))

	f.clock.Advance(16 * time.Minute)

	res, err := f.checker().Execute(t.Context(), CheckAvailabilityInput{
		CourtID: f.court.ID, StartTime: monday("07:00"), EndTime: monday("08:00"),
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.Available {
		t.Fatalf("stale hold should not block, got %q", res.ConflictCode)
	}

	// the check itself does not write
	if got := f.repo.Bookings()[0].Status; got != string(domain.StatusPending) {
		t.Fatalf("check changed status to %s", got)
	}
}

func TestExpirePending_DisabledHold(t *testing.T) {
	f := newFixture(t)
	f.book(t, monday("07:00"), monday("08:00"))
	f.clock.Advance(time.Hour)

	p := f.policy
	p.PendingHold = 0
	n, err := NewExpirePendingBookings(f.repo, nil, nil, p).Execute(t.Context())
	if err != nil || n != 0 {
		t.Fatalf("sweep = %d, %v", n, err)
	}
}
