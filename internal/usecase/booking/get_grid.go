package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/obs"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
)

const slotLength = time.Hour

type Grid struct {
	ComplexID uint         `json:"complexId"`
	Date      string       `json:"date"`
	Timezone  string       `json:"timezone"`
	OpenTime  string       `json:"openTime"`
	CloseTime string       `json:"closeTime"`
	Courts    []CourtSlots `json:"courts"`
}

type CourtSlots struct {
	CourtID   uint   `json:"courtId"`
	CourtName string `json:"courtName"`

	// keyed by slot start "HH:MM"
	Slots map[string]Slot `json:"slots"`
}

type Slot struct {
	EndTime   string       `json:"endTime"`
	Available bool         `json:"available"`
	IsPast    bool         `json:"isPast"`
	Booking   *SlotBooking `json:"booking,omitempty"`
}

type SlotBooking struct {
	ID           uint      `json:"id"`
	Status       string    `json:"status"`
	BookingType  string    `json:"bookingType"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	CustomerName string    `json:"customerName,omitempty"`
}

// GridCache stores public grids. Implementations may drop entries at will.
type GridCache interface {
	GetGrid(ctx context.Context, complexID uint, date string) (*Grid, bool)
	SetGrid(ctx context.Context, g *Grid)
}

type GridInput struct {
	ComplexID uint
	Date      string

	// Owner view: names customers and bypasses the cache.
	Actor         domain.Actor
	IncludeClient bool
}

// GetAvailabilityGrid renders hourly slots for every active court of a
// complex on one local date.
type GetAvailabilityGrid struct {
	repo   domain.Repository
	cache  GridCache
	policy Policy
}

func NewGetAvailabilityGrid(repo domain.Repository, cache GridCache, policy Policy) *GetAvailabilityGrid {
	return &GetAvailabilityGrid{repo: repo, cache: cache, policy: policy}
}

func (uc *GetAvailabilityGrid) Execute(ctx context.Context, in GridInput) (*Grid, error) {
	ctx, span := obs.Tracer().Start(ctx, "booking.AvailabilityGrid")
	defer span.End()

	cx, err := uc.repo.GetComplex(ctx, in.ComplexID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("complex")
		}
		return nil, err
	}

	if in.IncludeClient {
		if !in.Actor.OwnsComplex(cx) {
			return nil, httperr.ErrForbidden("not_complex_owner")
		}
	} else if !cx.IsActive() {
		return nil, httperr.ErrNotFound("complex")
	}

	loc := timezone.Location(cx.Timezone)
	day, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "Date must be YYYY-MM-DD.")
	}
	date := day.Format("2006-01-02")

	useCache := uc.cache != nil && !in.IncludeClient
	if useCache {
		if g, ok := uc.cache.GetGrid(ctx, cx.ID, date); ok {
			return g, nil
		}
	}

	opens, closes, err := domain.OperatingWindow(cx, day)
	if err != nil {
		return nil, httperr.ErrValidation(ReasonInvalidHours, "The complex has no valid operating hours.")
	}

	now := uc.policy.now()
	bookings, err := uc.repo.ListComplexBookingsForPeriod(ctx, cx.ID, opens, closes, uc.policy.staleBefore(now))
	if err != nil {
		return nil, err
	}

	byCourt := make(map[uint][]models.Booking)
	for _, b := range bookings {
		byCourt[b.CourtID] = append(byCourt[b.CourtID], b)
	}

	grid := &Grid{
		ComplexID: cx.ID,
		Date:      date,
		Timezone:  loc.String(),
		OpenTime:  cx.OpenTime,
		CloseTime: cx.CloseTime,
		Courts:    []CourtSlots{},
	}

	courts := append([]models.Court(nil), cx.Courts...)
	sort.Slice(courts, func(i, j int) bool { return courts[i].ID < courts[j].ID })

	for _, court := range courts {
		if !court.IsActive() {
			continue
		}

		cs := CourtSlots{
			CourtID:   court.ID,
			CourtName: court.Name,
			Slots:     make(map[string]Slot),
		}

		for cur := opens; cur.Before(closes); cur = cur.Add(slotLength) {
			slotEnd := cur.Add(slotLength)
			if slotEnd.After(closes) {
				slotEnd = closes
			}

			slot := Slot{
				EndTime: slotEnd.In(loc).Format("15:04"),
				IsPast:  cur.Before(now),
			}

			for i := range byCourt[court.ID] {
				b := &byCourt[court.ID][i]
				if domain.Overlaps(cur, slotEnd, b.StartTime, b.EndTime) {
					slot.Booking = &SlotBooking{
						ID:          b.ID,
						Status:      b.Status,
						BookingType: b.BookingType,
						StartTime:   b.StartTime.In(loc),
						EndTime:     b.EndTime.In(loc),
					}
					if in.IncludeClient {
						slot.Booking.CustomerName = b.CustomerName()
					}
					break
				}
			}

			slot.Available = slot.Booking == nil && !slot.IsPast
			cs.Slots[cur.In(loc).Format("15:04")] = slot
		}

		grid.Courts = append(grid.Courts, cs)
	}

	if useCache {
		uc.cache.SetGrid(ctx, grid)
	}
	return grid, nil
}
