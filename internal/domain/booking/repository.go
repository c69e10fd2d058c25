package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// ListFilter scopes booking listings. Zero values mean "any".
type ListFilter struct {
	CustomerID *uint
	OwnerID    *uint
	ComplexID  uint
	CourtID    uint
	Statuses   []string
	Search     string
	From       *time.Time
	To         *time.Time

	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type Repository interface {
	// -------- Catalog --------
	GetCourt(
		ctx context.Context,
		courtID uint,
	) (*models.Court, error)

	GetComplex(
		ctx context.Context,
		complexID uint,
	) (*models.Complex, error)

	ListPricingRules(
		ctx context.Context,
		courtID uint,
	) ([]models.PricingRule, error)

	// -------- Booking (create / conflict) --------

	// WithinCourtLock runs fn in a transaction holding an exclusive lock
	// on the court. fn must use the repository it receives.
	WithinCourtLock(
		ctx context.Context,
		courtID uint,
		fn func(tx Repository) error,
	) error

	// ListActiveOverlapping returns Pending/Confirmed bookings on the court
	// intersecting [start, end), skipping online Pending holds created
	// before staleBefore.
	ListActiveOverlapping(
		ctx context.Context,
		courtID uint,
		start time.Time,
		end time.Time,
		staleBefore time.Time,
	) ([]models.Booking, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (state change) --------
	GetBooking(
		ctx context.Context,
		bookingID uint,
	) (*models.Booking, error)

	// TransitionStatus moves a booking from one status to another and
	// reports false when it was no longer in from.
	TransitionStatus(
		ctx context.Context,
		b *models.Booking,
		from Status,
	) (bool, error)

	// ExpireStalePending cancels online Pending bookings created before
	// cutoff (optionally on one court) and returns them.
	ExpireStalePending(
		ctx context.Context,
		courtID uint,
		cutoff time.Time,
		now time.Time,
	) ([]models.Booking, error)

	// -------- Payments --------

	// RecordPayment reports false when the provider payment was already processed.
	RecordPayment(
		ctx context.Context,
		rec *models.PaymentRecord,
	) (bool, error)

	// -------- Listings --------
	ListBookings(
		ctx context.Context,
		f ListFilter,
	) ([]models.Booking, int64, error)

	ListComplexBookingsForPeriod(
		ctx context.Context,
		complexID uint,
		start time.Time,
		end time.Time,
		staleBefore time.Time,
	) ([]models.Booking, error)
}
