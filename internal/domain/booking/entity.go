package booking

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// ReasonPaymentExpired is stored on bookings cancelled by the expiry sweep.
const ReasonPaymentExpired = "payment_expired"

const maxReasonLen = 500

// Action names an owner-driven transition.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

func (a Action) Target() Status {
	switch a {
	case ActionApprove:
		return StatusConfirmed
	case ActionReject:
		return StatusRejected
	case ActionCancel:
		return StatusCancelled
	case ActionComplete:
		return StatusCompleted
	}
	return ""
}

// ===============================
// Domain Actions
// ===============================

// Apply runs the transition for action against b, stamping now.
func Apply(b *models.Booking, action Action, reason string, now time.Time) error {
	switch action {
	case ActionApprove:
		return Approve(b, now)
	case ActionReject:
		return Reject(b, reason, now)
	case ActionCancel:
		return Cancel(b, reason, now)
	case ActionComplete:
		return Complete(b, now)
	}
	return httperr.ErrValidation("invalid_action", "Unknown booking action.")
}

func Approve(b *models.Booking, now time.Time) error {
	if err := CanApprove(Status(b.Status)); err != nil {
		return err
	}
	setStatus(b, StatusConfirmed, "", now)
	return nil
}

func Reject(b *models.Booking, reason string, now time.Time) error {
	if err := CanReject(Status(b.Status)); err != nil {
		return err
	}
	setStatus(b, StatusRejected, reason, now)
	return nil
}

func Cancel(b *models.Booking, reason string, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}
	setStatus(b, StatusCancelled, reason, now)
	return nil
}

// Complete also refuses bookings whose end time has not passed yet.
func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}
	if now.Before(b.EndTime) {
		return httperr.ErrBusiness("booking_not_finished")
	}
	setStatus(b, StatusCompleted, "", now)
	return nil
}

func Expire(b *models.Booking, now time.Time) error {
	if Status(b.Status) != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	setStatus(b, StatusCancelled, ReasonPaymentExpired, now)
	return nil
}

// IsStaleHold reports whether an unpaid online Pending booking has outlived
// the hold window.
func IsStaleHold(b *models.Booking, hold time.Duration, now time.Time) bool {
	if Status(b.Status) != StatusPending || b.IsWalkIn() || hold <= 0 {
		return false
	}
	return !b.CreatedAt.Add(hold).After(now)
}

func HoldExpiresAt(b *models.Booking, hold time.Duration) *time.Time {
	if Status(b.Status) != StatusPending || b.IsWalkIn() || hold <= 0 {
		return nil
	}
	t := b.CreatedAt.Add(hold)
	return &t
}

func setStatus(b *models.Booking, to Status, reason string, now time.Time) {
	reason = truncateReason(strings.TrimSpace(reason))
	b.Status = string(to)
	if reason != "" {
		b.Reason = reason
	}
	b.StatusChangedAt = &now
}

// truncateReason keeps at most maxReasonLen bytes without splitting a
// multibyte character.
func truncateReason(s string) string {
	if len(s) <= maxReasonLen {
		return s
	}
	cut := maxReasonLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
