// Package memory is an in-process booking.Repository for tests and local
// runs without postgres. Writes under WithinCourtLock are serialized per
// court but are not rolled back when fn fails.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

type Repository struct {
	mu sync.RWMutex

	users     map[uint]models.User
	complexes map[uint]models.Complex
	courts    map[uint]models.Court
	rules     map[uint][]models.PricingRule
	bookings  map[uint]models.Booking
	payments  map[string]models.PaymentRecord
	nextID    uint

	locksMu    sync.Mutex
	courtLocks map[uint]*sync.Mutex
}

func New() *Repository {
	return &Repository{
		users:      make(map[uint]models.User),
		complexes:  make(map[uint]models.Complex),
		courts:     make(map[uint]models.Court),
		rules:      make(map[uint][]models.PricingRule),
		bookings:   make(map[uint]models.Booking),
		payments:   make(map[string]models.PaymentRecord),
		courtLocks: make(map[uint]*sync.Mutex),
	}
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *Repository) id() uint {
	r.nextID++
	return r.nextID
}

func (r *Repository) AddUser(u models.User) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.id()
	}
	if u.AccountStatus == models.AccountLocked {
		u.AccountStatus = models.AccountActive
	}
	r.users[u.ID] = u
	return u
}

// UpdateUser replaces a stored user as is, so it can lock accounts.
func (r *Repository) UpdateUser(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *Repository) GetUser(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *Repository) AddComplex(cx models.Complex) models.Complex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cx.ID == 0 {
		cx.ID = r.id()
	}
	cx.Courts = nil
	r.complexes[cx.ID] = cx
	return cx
}

func (r *Repository) AddCourt(c models.Court) models.Court {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.id()
	}
	c.Complex = nil
	r.courts[c.ID] = c
	return c
}

func (r *Repository) AddPricingRule(rule models.PricingRule) models.PricingRule {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rule.ID == 0 {
		rule.ID = r.id()
	}
	r.rules[rule.CourtID] = append(r.rules[rule.CourtID], rule)
	return rule
}

// AddBooking stores b as is, bypassing every rule.
func (r *Repository) AddBooking(b models.Booking) models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.id()
	}
	b.Court, b.Customer = nil, nil
	r.bookings[b.ID] = b
	return b
}

// Bookings returns every stored booking ordered by id.
func (r *Repository) Bookings() []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *Repository) GetCourt(_ context.Context, courtID uint) (*models.Court, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courts[courtID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if cx, ok := r.complexes[c.ComplexID]; ok {
		c.Complex = &cx
	}
	return &c, nil
}

func (r *Repository) GetComplex(_ context.Context, complexID uint) (*models.Complex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cx, ok := r.complexes[complexID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cx.Courts = nil
	for _, c := range r.courts {
		if c.ComplexID == complexID {
			cx.Courts = append(cx.Courts, c)
		}
	}
	sort.Slice(cx.Courts, func(i, j int) bool { return cx.Courts[i].ID < cx.Courts[j].ID })
	return &cx, nil
}

func (r *Repository) ListPricingRules(_ context.Context, courtID uint) ([]models.PricingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.PricingRule(nil), r.rules[courtID]...), nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

func (r *Repository) courtLock(courtID uint) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	l, ok := r.courtLocks[courtID]
	if !ok {
		l = &sync.Mutex{}
		r.courtLocks[courtID] = l
	}
	return l
}

func (r *Repository) WithinCourtLock(ctx context.Context, courtID uint, fn func(tx domain.Repository) error) error {
	if _, err := r.GetCourt(ctx, courtID); err != nil {
		return err
	}

	l := r.courtLock(courtID)
	l.Lock()
	defer l.Unlock()

	return fn(r)
}

func (r *Repository) ListActiveOverlapping(
	_ context.Context,
	courtID uint,
	start, end, staleBefore time.Time,
) ([]models.Booking, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.CourtID != courtID || !domain.Status(b.Status).IsActive() || isStale(b, staleBefore) {
			continue
		}
		if domain.Overlaps(start, end, b.StartTime, b.EndTime) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *Repository) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = r.id()
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	stored := *b
	stored.Court, stored.Customer = nil, nil
	r.bookings[b.ID] = stored
	return nil
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *Repository) GetBooking(_ context.Context, bookingID uint) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.hydrate(&b)
	return &b, nil
}

func (r *Repository) TransitionStatus(_ context.Context, b *models.Booking, from domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.bookings[b.ID]
	if !ok || cur.Status != string(from) {
		return false, nil
	}

	cur.Status = b.Status
	cur.Reason = b.Reason
	cur.StatusChangedAt = b.StatusChangedAt
	cur.UpdatedAt = time.Now()
	r.bookings[b.ID] = cur
	return true, nil
}

func (r *Repository) ExpireStalePending(_ context.Context, courtID uint, cutoff, now time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for id, b := range r.bookings {
		if courtID != 0 && b.CourtID != courtID {
			continue
		}
		if !isStale(b, cutoff) {
			continue
		}
		if err := domain.Expire(&b, now); err != nil {
			continue
		}
		r.bookings[id] = b

		r.hydrate(&b)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *Repository) RecordPayment(_ context.Context, rec *models.PaymentRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.payments[rec.ProviderPaymentID]; seen {
		return false, nil
	}
	rec.ID = r.id()
	rec.CreatedAt = time.Now()
	r.payments[rec.ProviderPaymentID] = *rec
	return true, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *Repository) ListBookings(_ context.Context, f domain.ListFilter) ([]models.Booking, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(f.Search)

	var matched []models.Booking
	for _, b := range r.bookings {
		r.hydrate(&b)
		if !matches(b, f, search) {
			continue
		}
		matched = append(matched, b)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		less := compare(matched[i], matched[j], f.SortBy)
		if less == 0 {
			return matched[i].ID > matched[j].ID
		}
		if f.SortOrder == "desc" {
			return less > 0
		}
		return less < 0
	})

	total := int64(len(matched))
	page, limit := f.Page, f.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = len(matched)
	}

	from := (page - 1) * limit
	if from >= len(matched) {
		return []models.Booking{}, total, nil
	}
	to := from + limit
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], total, nil
}

func (r *Repository) ListComplexBookingsForPeriod(
	_ context.Context,
	complexID uint,
	start, end, staleBefore time.Time,
) ([]models.Booking, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Booking
	for _, b := range r.bookings {
		c, ok := r.courts[b.CourtID]
		if !ok || c.ComplexID != complexID {
			continue
		}
		if !domain.Status(b.Status).IsActive() || isStale(b, staleBefore) {
			continue
		}
		if domain.Overlaps(start, end, b.StartTime, b.EndTime) {
			r.hydrate(&b)
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// --------------------------------------------------
// helpers (callers hold r.mu)
// --------------------------------------------------

func (r *Repository) hydrate(b *models.Booking) {
	if c, ok := r.courts[b.CourtID]; ok {
		if cx, ok := r.complexes[c.ComplexID]; ok {
			cx.Courts = nil
			c.Complex = &cx
		}
		b.Court = &c
	}
	if b.CustomerID != nil {
		if u, ok := r.users[*b.CustomerID]; ok {
			b.Customer = &u
		}
	}
}

func isStale(b models.Booking, cutoff time.Time) bool {
	if cutoff.IsZero() {
		return false
	}
	return b.Status == string(domain.StatusPending) &&
		b.BookingType == models.BookingTypeOnline &&
		b.CreatedAt.Before(cutoff)
}

func matches(b models.Booking, f domain.ListFilter, search string) bool {
	if f.CustomerID != nil && (b.CustomerID == nil || *b.CustomerID != *f.CustomerID) {
		return false
	}
	if f.CourtID != 0 && b.CourtID != f.CourtID {
		return false
	}

	var cx *models.Complex
	if b.Court != nil {
		cx = b.Court.Complex
	}
	if f.ComplexID != 0 && (cx == nil || cx.ID != f.ComplexID) {
		return false
	}
	if f.OwnerID != nil && (cx == nil || cx.OwnerID != *f.OwnerID) {
		return false
	}

	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if s == b.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.From != nil && b.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !b.StartTime.Before(*f.To) {
		return false
	}

	if search != "" {
		hay := strings.ToLower(b.WalkInName)
		if b.Court != nil {
			hay += " " + strings.ToLower(b.Court.Name)
		}
		if cx != nil {
			hay += " " + strings.ToLower(cx.Name)
		}
		if !strings.Contains(hay, search) {
			return false
		}
	}
	return true
}

func compare(a, b models.Booking, column string) int {
	switch column {
	case "start_time":
		return a.StartTime.Compare(b.StartTime)
	case "total_price":
		switch {
		case a.TotalPrice < b.TotalPrice:
			return -1
		case a.TotalPrice > b.TotalPrice:
			return 1
		}
		return 0
	case "status":
		return strings.Compare(a.Status, b.Status)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

var _ domain.Repository = (*Repository)(nil)
