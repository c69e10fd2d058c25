package booking

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/domain/pricing"
	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/obs"
	"github.com/BruksfildServices01/court-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	Actor domain.Actor

	CourtID   uint
	StartTime string
	EndTime   string

	// Walk-in only
	CustomerName  string
	CustomerPhone string
}

// ======================================================
// USE CASE
// ======================================================

// CreateBooking commits bookings. Online and walk-in requests share the
// same locked check, quote and insert.
type CreateBooking struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	bus    *events.Bus
	policy Policy
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	bus *events.Bus,
	policy Policy,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		audit:  audit,
		bus:    bus,
		policy: policy,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute creates a customer's online booking.
func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	if in.Actor.UserID == 0 {
		return nil, httperr.ErrForbidden("customer_required")
	}

	customerID := in.Actor.UserID
	draft := &models.Booking{
		CustomerID:  &customerID,
		BookingType: models.BookingTypeOnline,
		CreatedBy:   in.Actor.UserID,
	}

	return uc.commit(ctx, in, draft)
}

// ExecuteWalkIn creates an owner-entered booking for a customer without an account.
func (uc *CreateBooking) ExecuteWalkIn(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.CustomerPhone)

	if name == "" {
		return nil, httperr.ErrValidation("customer_name_required", "Customer name is required.")
	}
	if phone == "" {
		return nil, httperr.ErrValidation("customer_phone_required", "Customer phone is required.")
	}
	if !validators.IsPhoneValid(phone) {
		return nil, httperr.ErrValidation("invalid_customer_phone", "Customer phone is not a valid phone number.")
	}

	draft := &models.Booking{
		WalkInName:  name,
		WalkInPhone: phone,
		BookingType: models.BookingTypeWalkIn,
		CreatedBy:   in.Actor.UserID,
	}

	return uc.commit(ctx, in, draft)
}

func (uc *CreateBooking) commit(
	ctx context.Context,
	in CreateBookingInput,
	b *models.Booking,
) (*models.Booking, error) {

	ctx, span := obs.Tracer().Start(ctx, "booking.Create")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("court.id", int64(in.CourtID)),
		attribute.String("booking.type", b.BookingType),
	)

	// --------------------------------------------------
	// 1️⃣ Court + complex
	// --------------------------------------------------
	court, err := loadBookableCourt(ctx, uc.repo, in.CourtID)
	if err != nil {
		return nil, err
	}

	if b.IsWalkIn() && !in.Actor.OwnsComplex(court.Complex) {
		return nil, httperr.ErrForbidden("not_complex_owner")
	}

	// --------------------------------------------------
	// 2️⃣ Range in the complex's timezone
	// --------------------------------------------------
	start, end, err := parseRange(court.Complex, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateRange(start, end, uc.policy.MinDuration); err != nil {
		return nil, err
	}

	now := uc.policy.now()
	if start.Before(now) {
		return nil, httperr.ErrValidation(ReasonStartInPast, "Start time is in the past.")
	}

	b.CourtID = court.ID
	b.StartTime = start
	b.EndTime = end
	b.Status = string(domain.InitialStatus())

	// --------------------------------------------------
	// 3️⃣ Locked re-check, quote and insert
	// --------------------------------------------------
	var expired []models.Booking

	err = uc.repo.WithinCourtLock(ctx, court.ID, func(tx domain.Repository) error {
		if cutoff := uc.policy.staleBefore(now); !cutoff.IsZero() {
			stale, err := tx.ExpireStalePending(ctx, court.ID, cutoff, now)
			if err != nil {
				return err
			}
			expired = stale
		}

		verdict, err := uc.policy.assess(ctx, tx, court, start, end, now)
		if err != nil {
			return err
		}
		if !verdict.ok() {
			return httperr.ErrConflict(verdict.Code, verdict.Reason)
		}

		rules, err := tx.ListPricingRules(ctx, court.ID)
		if err != nil {
			return err
		}

		quote, err := pricing.QuotePrice(rules, start, end)
		if err != nil {
			return err
		}
		b.TotalPrice = quote.Price
		b.CreatedAt = now

		return tx.CreateBooking(ctx, b)
	})

	if err != nil {
		if httperr.IsExclusionConflict(err) {
			err = httperr.ErrConflict(ReasonSlotJustTaken, "This slot was just taken.")
		}
		if httperr.IsConflict(err) {
			span.RecordError(err)
			uc.audit.Dispatch(audit.Event{
				ComplexID: court.ComplexID,
				UserID:    in.Actor.UserIDPtr(),
				Action:    "booking_conflict",
				Entity:    "court",
				EntityID:  &court.ID,
				Metadata: map[string]any{
					"start": start,
					"end":   end,
					"error": err.Error(),
				},
			})
		}
		return nil, err
	}

	// expiries roll back with a failed insert, so only announce them now
	for i := range expired {
		announceExpiry(ctx, uc.audit, uc.bus, &expired[i], now)
	}

	b.Court = court

	// --------------------------------------------------
	// 4️⃣ Audit + events
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ComplexID: court.ComplexID,
		UserID:    in.Actor.UserIDPtr(),
		Action:    "booking_created",
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata: map[string]any{
			"type":       b.BookingType,
			"totalPrice": b.TotalPrice,
		},
	})
	uc.bus.Publish(ctx, events.FromBooking(events.BookingCreated, b, now))

	log.Ctx(ctx).Info().
		Uint("booking_id", b.ID).
		Uint("court_id", court.ID).
		Str("type", b.BookingType).
		Float64("total_price", b.TotalPrice).
		Msg("booking created")

	return b, nil
}
