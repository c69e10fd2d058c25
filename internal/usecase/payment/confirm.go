package payment

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/obs"
)

const (
	ProviderApproved = "approved"
	referencePrefix  = "booking-"
)

// ProviderPayment is what the payment provider reports for one payment.
type ProviderPayment struct {
	ID                string
	Status            string
	ExternalReference string
	Amount            float64
}

// Gateway looks payments up at the provider.
type Gateway interface {
	Lookup(ctx context.Context, paymentID string) (*ProviderPayment, error)
}

// Reference is the external reference attached to a booking's checkout.
func Reference(bookingID uint) string {
	return referencePrefix + strconv.FormatUint(uint64(bookingID), 10)
}

func ParseReference(ref string) (uint, bool) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(ref), referencePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// OUTPUT
// ======================================================

const (
	OutcomeConfirmed    = "confirmed"
	OutcomeDuplicate    = "duplicate"
	OutcomeNotApproved  = "not_approved"
	OutcomeUnderpaid    = "underpaid"
	OutcomeNotConfirmed = "not_pending"
)

type ConfirmResult struct {
	PaymentID string `json:"paymentId"`
	BookingID uint   `json:"bookingId,omitempty"`
	Outcome   string `json:"outcome"`
	Status    string `json:"status,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

// ConfirmPayment applies Pending -> Confirmed for a provider payment that is
// approved and covers the booking. Each provider payment id is processed at
// most once.
type ConfirmPayment struct {
	repo     domain.Repository
	gateway  Gateway
	audit    *audit.Dispatcher
	bus      *events.Bus
	settings Settings
}

func NewConfirmPayment(
	repo domain.Repository,
	gateway Gateway,
	audit *audit.Dispatcher,
	bus *events.Bus,
	settings Settings,
) *ConfirmPayment {
	return &ConfirmPayment{
		repo:     repo,
		gateway:  gateway,
		audit:    audit,
		bus:      bus,
		settings: settings,
	}
}

func (uc *ConfirmPayment) Execute(ctx context.Context, paymentID string) (*ConfirmResult, error) {
	ctx, span := obs.Tracer().Start(ctx, "payment.Confirm")
	defer span.End()

	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, httperr.ErrValidation("payment_id_required", "Payment id is required.")
	}

	// --------------------------------------------------
	// 1️⃣ Provider lookup
	// --------------------------------------------------
	p, err := uc.gateway.Lookup(ctx, paymentID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res := &ConfirmResult{PaymentID: paymentID}
	if p.Status != ProviderApproved {
		res.Outcome = OutcomeNotApproved
		return res, nil
	}

	bookingID, ok := ParseReference(p.ExternalReference)
	if !ok {
		return nil, httperr.ErrValidation("invalid_reference", "Payment does not reference a booking.")
	}
	res.BookingID = bookingID

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("booking")
		}
		return nil, err
	}

	if p.Amount < float64(AmountDue(b)) {
		res.Outcome = OutcomeUnderpaid
		res.Status = b.Status
		log.Ctx(ctx).Warn().
			Uint("booking_id", b.ID).
			Str("payment_id", paymentID).
			Float64("amount", p.Amount).
			Float64("total_price", b.TotalPrice).
			Msg("payment does not cover booking")
		return res, nil
	}

	// --------------------------------------------------
	// 2️⃣ Record + transition under the court lock
	// --------------------------------------------------
	now := uc.settings.now()
	var confirmed bool

	err = uc.repo.WithinCourtLock(ctx, b.CourtID, func(tx domain.Repository) error {
		fresh, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		b = fresh

		created, err := tx.RecordPayment(ctx, &models.PaymentRecord{
			ProviderPaymentID: paymentID,
			BookingID:         b.ID,
			Amount:            p.Amount,
			Status:            p.Status,
		})
		if err != nil {
			return err
		}
		if !created {
			res.Outcome = OutcomeDuplicate
			return nil
		}

		if err := domain.Approve(b, now); err != nil {
			// paid after expiry or owner rejection; kept on record for refund
			res.Outcome = OutcomeNotConfirmed
			return nil
		}

		ok, err := tx.TransitionStatus(ctx, b, domain.StatusPending)
		if err != nil {
			return err
		}
		if !ok {
			res.Outcome = OutcomeNotConfirmed
			return nil
		}

		confirmed = true
		res.Outcome = OutcomeConfirmed
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res.Status = b.Status
	if !confirmed {
		if res.Outcome == OutcomeNotConfirmed {
			log.Ctx(ctx).Warn().
				Uint("booking_id", b.ID).
				Str("payment_id", paymentID).
				Str("status", b.Status).
				Msg("payment received for booking that is no longer pending")
		}
		return res, nil
	}

	// --------------------------------------------------
	// 3️⃣ Audit + events
	// --------------------------------------------------
	var complexID uint
	if b.Court != nil {
		complexID = b.Court.ComplexID
	}
	uc.audit.Dispatch(audit.Event{
		ComplexID: complexID,
		Action:    "booking_payment_confirmed",
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata: map[string]any{
			"paymentId": paymentID,
			"amount":    p.Amount,
		},
	})
	uc.bus.Publish(ctx, events.FromBooking(events.BookingConfirmed, b, now))

	log.Ctx(ctx).Info().
		Uint("booking_id", b.ID).
		Str("payment_id", paymentID).
		Msg("booking confirmed by payment")

	return res, nil
}
