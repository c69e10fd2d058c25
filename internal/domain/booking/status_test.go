package booking

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

func TestApply_Transitions(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	tests := []struct {
		name    string
		from    Status
		action  Action
		wantErr string
		want    Status
	}{
		{"approve pending", StatusPending, ActionApprove, "", StatusConfirmed},
		{"reject pending", StatusPending, ActionReject, "", StatusRejected},
		{"cancel confirmed", StatusConfirmed, ActionCancel, "", StatusCancelled},
		{"complete confirmed", StatusConfirmed, ActionComplete, "", StatusCompleted},
		{"approve confirmed", StatusConfirmed, ActionApprove, "invalid_state", StatusConfirmed},
		{"cancel pending", StatusPending, ActionCancel, "invalid_state", StatusPending},
		{"complete pending", StatusPending, ActionComplete, "invalid_state", StatusPending},
		{"reject rejected", StatusRejected, ActionReject, "invalid_state", StatusRejected},
		{"approve cancelled", StatusCancelled, ActionApprove, "invalid_state", StatusCancelled},
		{"cancel completed", StatusCompleted, ActionCancel, "invalid_state", StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &models.Booking{Status: string(tt.from), EndTime: past}
			err := Apply(b, tt.action, "", now)

			if tt.wantErr != "" {
				if !httperr.IsBusiness(err, tt.wantErr) {
					t.Fatalf("expected %s, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if Status(b.Status) != tt.want {
				t.Fatalf("status = %s, want %s", b.Status, tt.want)
			}
		})
	}
}

func TestComplete_BeforeEnd(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: string(StatusConfirmed), EndTime: now.Add(time.Minute)}

	if err := Complete(b, now); !httperr.IsBusiness(err, "booking_not_finished") {
		t.Fatalf("expected booking_not_finished, got %v", err)
	}
	if b.Status != string(StatusConfirmed) {
		t.Fatalf("status changed to %s", b.Status)
	}
}

func TestReject_StoresReason(t *testing.T) {
	now := time.Now()
	b := &models.Booking{Status: string(StatusPending)}

	if err := Reject(b, "  court under maintenance ", now); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.Reason != "court under maintenance" {
		t.Fatalf("reason = %q", b.Reason)
	}
	if b.StatusChangedAt == nil || !b.StatusChangedAt.Equal(now) {
		t.Fatalf("status change time not stamped")
	}
}

func TestApply_UnknownAction(t *testing.T) {
	b := &models.Booking{Status: string(StatusPending)}
	if err := Apply(b, Action("delete"), "", time.Now()); !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIsStaleHold(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	hold := 15 * time.Minute

	tests := []struct {
		name string
		b    models.Booking
		want bool
	}{
		{"fresh online", models.Booking{Status: "Pending", BookingType: models.BookingTypeOnline, CreatedAt: now.Add(-5 * time.Minute)}, false},
		{"stale online", models.Booking{Status: "Pending", BookingType: models.BookingTypeOnline, CreatedAt: now.Add(-15 * time.Minute)}, true},
		{"stale walk-in", models.Booking{Status: "Pending", BookingType: models.BookingTypeWalkIn, CreatedAt: now.Add(-time.Hour)}, false},
		{"confirmed", models.Booking{Status: "Confirmed", BookingType: models.BookingTypeOnline, CreatedAt: now.Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStaleHold(&tt.b, hold, now); got != tt.want {
				t.Fatalf("IsStaleHold = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpire(t *testing.T) {
	now := time.Now()
	b := &models.Booking{Status: string(StatusPending)}
	if err := Expire(b, now); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.Status != string(StatusCancelled) || b.Reason != ReasonPaymentExpired {
		t.Fatalf("got %s/%s", b.Status, b.Reason)
	}

	if err := Expire(b, now); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state on second expire, got %v", err)
	}
}

func TestReject_LongMultibyteReasonStaysValidUTF8(t *testing.T) {
	b := &models.Booking{Status: string(StatusPending)}
	reason := "a" + strings.Repeat("đ", 300)

	if err := Reject(b, reason, time.Now()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !utf8.ValidString(b.Reason) {
		t.Fatalf("reason is not valid UTF-8")
	}
	if len(b.Reason) > maxReasonLen {
		t.Fatalf("reason length = %d, max %d", len(b.Reason), maxReasonLen)
	}
	if !strings.HasPrefix(reason, b.Reason) || len(b.Reason) < maxReasonLen-1 {
		t.Fatalf("reason cut too short: %d bytes", len(b.Reason))
	}
}
