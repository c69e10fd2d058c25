package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetCourt(
	ctx context.Context,
	courtID uint,
) (*models.Court, error) {

	var court models.Court
	if err := r.db.WithContext(ctx).
		Preload("Complex").
		First(&court, courtID).Error; err != nil {
		return nil, err
	}
	return &court, nil
}

func (r *BookingGormRepository) GetComplex(
	ctx context.Context,
	complexID uint,
) (*models.Complex, error) {

	var cx models.Complex
	if err := r.db.WithContext(ctx).
		Preload("Courts", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&cx, complexID).Error; err != nil {
		return nil, err
	}
	return &cx, nil
}

func (r *BookingGormRepository) ListPricingRules(
	ctx context.Context,
	courtID uint,
) ([]models.PricingRule, error) {

	var rules []models.PricingRule
	if err := r.db.WithContext(ctx).
		Where("court_id = ?", courtID).
		Order("id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

// WithinCourtLock serializes writers per court with SELECT ... FOR UPDATE
// on the court row. The exclusion constraint on bookings backs it up.
func (r *BookingGormRepository) WithinCourtLock(
	ctx context.Context,
	courtID uint,
	fn func(tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var court models.Court
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&court, courtID).Error; err != nil {
			return err
		}

		return fn(&BookingGormRepository{db: tx})
	})
}

func (r *BookingGormRepository) ListActiveOverlapping(
	ctx context.Context,
	courtID uint,
	start time.Time,
	end time.Time,
	staleBefore time.Time,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Where(
			"court_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			courtID, domain.ActiveStatuses, end, start,
		)
	q = excludeStaleHolds(q, "", staleBefore)

	var out []models.Booking
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Court.Complex").
		Preload("Customer").
		First(&b, bookingID).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) TransitionStatus(
	ctx context.Context,
	b *models.Booking,
	from domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(from)).
		Updates(map[string]any{
			"status":            b.Status,
			"reason":            b.Reason,
			"status_changed_at": b.StatusChangedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingGormRepository) ExpireStalePending(
	ctx context.Context,
	courtID uint,
	cutoff time.Time,
	now time.Time,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"status = ? AND booking_type = ? AND created_at < ?",
			string(domain.StatusPending), models.BookingTypeOnline, cutoff,
		)
	if courtID != 0 {
		q = q.Where("court_id = ?", courtID)
	}

	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	// status re-checked so a concurrent approve wins
	var expired []models.Booking
	if err := r.db.WithContext(ctx).
		Model(&expired).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("id IN ? AND status = ?", ids, string(domain.StatusPending)).
		Updates(map[string]any{
			"status":            string(domain.StatusCancelled),
			"reason":            domain.ReasonPaymentExpired,
			"status_changed_at": now,
		}).Error; err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	done := make([]uint, 0, len(expired))
	for _, b := range expired {
		done = append(done, b.ID)
	}

	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Court.Complex").
		Preload("Customer").
		Where("id IN ?", done).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *BookingGormRepository) RecordPayment(
	ctx context.Context,
	rec *models.PaymentRecord,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_payment_id"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Joins("JOIN courts ON courts.id = bookings.court_id").
		Joins("JOIN court_complexes ON court_complexes.id = courts.complex_id")

	if f.CustomerID != nil {
		q = q.Where("bookings.customer_id = ?", *f.CustomerID)
	}
	if f.OwnerID != nil {
		q = q.Where("court_complexes.owner_id = ?", *f.OwnerID)
	}
	if f.ComplexID != 0 {
		q = q.Where("courts.complex_id = ?", f.ComplexID)
	}
	if f.CourtID != 0 {
		q = q.Where("bookings.court_id = ?", f.CourtID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("bookings.status IN ?", f.Statuses)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"(courts.name ILIKE ? OR court_complexes.name ILIKE ? OR bookings.walk_in_name ILIKE ?)",
			like, like, like,
		)
	}
	if f.From != nil {
		q = q.Where("bookings.start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("bookings.start_time < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Booking
	if err := q.
		Preload("Court.Complex").
		Preload("Customer").
		Order(clause.OrderByColumn{
			Column: clause.Column{Table: "bookings", Name: f.SortBy},
			Desc:   f.SortOrder == "desc",
		}).
		Order("bookings.id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *BookingGormRepository) ListComplexBookingsForPeriod(
	ctx context.Context,
	complexID uint,
	start time.Time,
	end time.Time,
	staleBefore time.Time,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Joins("JOIN courts ON courts.id = bookings.court_id").
		Where(
			"courts.complex_id = ? AND bookings.status IN ? AND bookings.start_time < ? AND bookings.end_time > ?",
			complexID, domain.ActiveStatuses, end, start,
		)
	q = excludeStaleHolds(q, "bookings.", staleBefore)

	var out []models.Booking
	if err := q.
		Preload("Customer").
		Order("bookings.start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// excludeStaleHolds hides online Pending bookings created before cutoff.
func excludeStaleHolds(q *gorm.DB, prefix string, cutoff time.Time) *gorm.DB {
	if cutoff.IsZero() {
		return q
	}
	return q.Where(
		"NOT ("+prefix+"status = ? AND "+prefix+"booking_type = ? AND "+prefix+"created_at < ?)",
		string(domain.StatusPending), models.BookingTypeOnline, cutoff,
	)
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
