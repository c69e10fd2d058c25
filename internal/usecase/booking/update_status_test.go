package booking

import (
	"testing"
	"time"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
)

func TestUpdateStatus_ApproveThenCancel(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, monday("07:00"), monday("08:00"))

	got, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionApprove,
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) || got.StatusChangedAt == nil {
		t.Fatalf("after approve: %s %v", got.Status, got.StatusChangedAt)
	}

	got, err = f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionCancel, Reason: "rain",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) || got.Reason != "rain" {
		t.Fatalf("after cancel: %s %q", got.Status, got.Reason)
	}

	// slot is free again
	f.book(t, monday("07:00"), monday("08:00"))
}

func TestUpdateStatus_RejectKeepsReason(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, monday("07:00"), monday("08:00"))

	got, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionReject, Reason: "  maintenance ",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != string(domain.StatusRejected) || got.Reason != "maintenance" {
		t.Fatalf("after reject: %s %q", got.Status, got.Reason)
	}
}

func TestUpdateStatus_InvalidTransitions(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, monday("07:00"), monday("08:00"))

	// Pending bookings are rejected, not cancelled
	_, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionCancel,
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}

	_, err = f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionComplete,
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}

	_, err = f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: "archive",
	})
	if !httperr.IsValidation(err) {
		t.Fatalf("expected invalid_action, got %v", err)
	}
}

func TestUpdateStatus_CompleteAfterEnd(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, monday("07:00"), monday("08:00"))

	if _, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionApprove,
	}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionComplete,
	})
	if !httperr.IsBusiness(err, "booking_not_finished") {
		t.Fatalf("expected booking_not_finished, got %v", err)
	}

	// Monday 08:30
	f.clock.Advance(20*time.Hour + 30*time.Minute)

	got, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionComplete,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != string(domain.StatusCompleted) {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestUpdateStatus_Forbidden(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, monday("07:00"), monday("08:00"))

	for _, actor := range []domain.Actor{f.otherOwnerActor(), f.customerActor()} {
		_, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
			Actor: actor, BookingID: b.ID, Action: domain.ActionApprove,
		})
		if !httperr.IsForbidden(err) {
			t.Fatalf("actor %+v: expected forbidden, got %v", actor, err)
		}
	}

	_, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: 9999, Action: domain.ActionApprove,
	})
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatus_ExpiredHoldCannotBeApproved(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, monday("07:00"), monday("08:00"))

	f.clock.Advance(20 * time.Minute)
	if _, err := f.sweeper().Execute(t.Context()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	_, err := f.lifecycle().Execute(t.Context(), UpdateStatusInput{
		Actor: f.ownerActor(), BookingID: b.ID, Action: domain.ActionApprove,
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}
