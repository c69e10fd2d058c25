package booking

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/obs"
)

type UpdateStatusInput struct {
	Actor     domain.Actor
	BookingID uint
	Action    domain.Action
	Reason    string
}

// UpdateBookingStatus applies owner-driven lifecycle transitions
// (approve, reject, cancel, complete) to bookings in the owner's complexes.
type UpdateBookingStatus struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	bus    *events.Bus
	policy Policy
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	bus *events.Bus,
	policy Policy,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:   repo,
		audit:  audit,
		bus:    bus,
		policy: policy,
	}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	ctx, span := obs.Tracer().Start(ctx, "booking.UpdateStatus")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("booking.id", int64(in.BookingID)),
		attribute.String("booking.action", string(in.Action)),
	)

	if in.Action.Target() == "" {
		return nil, httperr.ErrValidation("invalid_action", "Unknown booking action.")
	}

	b, err := loadBooking(ctx, uc.repo, in.BookingID)
	if err != nil {
		return nil, err
	}

	if b.Court == nil || !in.Actor.OwnsComplex(b.Court.Complex) {
		return nil, httperr.ErrForbidden("not_complex_owner")
	}

	now := uc.policy.now()
	from := domain.Status(b.Status)

	if err := domain.Apply(b, in.Action, in.Reason, now); err != nil {
		return nil, err
	}

	ok, err := uc.repo.TransitionStatus(ctx, b, from)
	if err != nil {
		return nil, err
	}
	if !ok {
		// sweeper or payment confirmation got there first
		return nil, httperr.ErrConflict("status_changed", "The booking status changed, reload and try again.")
	}

	uc.audit.Dispatch(audit.Event{
		ComplexID: b.Court.ComplexID,
		UserID:    in.Actor.UserIDPtr(),
		Action:    "booking_" + string(in.Action),
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata: map[string]any{
			"from":   from,
			"to":     b.Status,
			"reason": b.Reason,
		},
	})
	uc.bus.Publish(ctx, events.FromBooking(events.ForStatus(b.Status), b, now))

	log.Ctx(ctx).Info().
		Uint("booking_id", b.ID).
		Str("from", string(from)).
		Str("to", b.Status).
		Msg("booking status changed")

	return b, nil
}
