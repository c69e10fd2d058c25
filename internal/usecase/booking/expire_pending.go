package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/obs"
)

// ExpirePendingBookings cancels unpaid online holds older than the hold
// window. Walk-in bookings never expire.
type ExpirePendingBookings struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	bus    *events.Bus
	policy Policy
}

func NewExpirePendingBookings(
	repo domain.Repository,
	audit *audit.Dispatcher,
	bus *events.Bus,
	policy Policy,
) *ExpirePendingBookings {
	return &ExpirePendingBookings{
		repo:   repo,
		audit:  audit,
		bus:    bus,
		policy: policy,
	}
}

func (uc *ExpirePendingBookings) Execute(ctx context.Context) (int, error) {
	now := uc.policy.now()
	cutoff := uc.policy.staleBefore(now)
	if cutoff.IsZero() {
		return 0, nil
	}

	ctx, span := obs.Tracer().Start(ctx, "booking.ExpirePending")
	defer span.End()

	expired, err := uc.repo.ExpireStalePending(ctx, 0, cutoff, now)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	for i := range expired {
		announceExpiry(ctx, uc.audit, uc.bus, &expired[i], now)
	}
	return len(expired), nil
}

// Run sweeps every interval until ctx is done.
func (uc *ExpirePendingBookings) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger := log.Ctx(ctx).With().Str("component", "expiry_sweeper").Logger()
	logger.Info().Dur("interval", interval).Dur("hold", uc.policy.PendingHold).Msg("expiry sweeper started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("expiry sweeper stopped")
			return
		case <-ticker.C:
			n, err := uc.Execute(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("expiry sweep failed")
				continue
			}
			if n > 0 {
				logger.Info().Int("expired", n).Msg("expired unpaid bookings")
			}
		}
	}
}

func announceExpiry(
	ctx context.Context,
	dispatcher *audit.Dispatcher,
	bus *events.Bus,
	b *models.Booking,
	now time.Time,
) {
	var complexID uint
	if b.Court != nil {
		complexID = b.Court.ComplexID
	}

	dispatcher.Dispatch(audit.Event{
		ComplexID: complexID,
		Action:    "booking_expired",
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata: map[string]any{
			"reason":    b.Reason,
			"createdAt": b.CreatedAt,
		},
	})
	bus.Publish(ctx, events.FromBooking(events.BookingExpired, b, now))
}
