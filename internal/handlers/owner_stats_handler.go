package handlers

import (
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

type OwnerStatsHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOwnerStatsHandler(db *gorm.DB) *OwnerStatsHandler {
	return &OwnerStatsHandler{db: db, now: time.Now}
}

type OwnerOverview struct {
	TotalComplexes  int64   `json:"totalComplexes"`
	TotalCourts     int64   `json:"totalCourts"`
	MonthlyBookings int64   `json:"monthlyBookings"`
	MonthlyRevenue  float64 `json:"monthlyRevenue"`
	PendingBookings int64   `json:"pendingBookings"`
	OccupancyRate   float64 `json:"occupancyRate"`
}

type courtCount struct {
	ComplexID uint
	Courts    int64
}

type monthAggregate struct {
	Bookings int64
	Revenue  float64
	Hours    float64
}

// Statistics summarises the current calendar month across the owner's
// complexes. Bookings count by the month they are played in.
func (h *OwnerStatsHandler) Statistics(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	ownerID := middleware.Actor(c).UserID
	now := h.now()

	var complexes []models.Complex
	if err := db.Select("id", "open_time", "close_time").
		Where("owner_id = ?", ownerID).
		Find(&complexes).Error; err != nil {
		httperr.Internal(c, "failed_to_get_statistics", "Failed to compute statistics.")
		return
	}

	ov := OwnerOverview{TotalComplexes: int64(len(complexes))}
	if len(complexes) == 0 {
		httpresp.OK(c, gin.H{"overview": ov})
		return
	}

	ids := make([]uint, len(complexes))
	for i, cx := range complexes {
		ids[i] = cx.ID
	}

	var counts []courtCount
	if err := db.Model(&models.Court{}).
		Select("complex_id, COUNT(*) AS courts").
		Where("complex_id IN ?", ids).
		Group("complex_id").
		Scan(&counts).Error; err != nil {
		httperr.Internal(c, "failed_to_get_statistics", "Failed to compute statistics.")
		return
	}
	courts := make(map[uint]int64, len(counts))
	for _, cc := range counts {
		courts[cc.ComplexID] = cc.Courts
		ov.TotalCourts += cc.Courts
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	ownerBookings := func() *gorm.DB {
		return db.Model(&models.Booking{}).
			Joins("JOIN courts ON courts.id = bookings.court_id").
			Where("courts.complex_id IN ?", ids)
	}

	var agg monthAggregate
	if err := ownerBookings().
		Select(`COUNT(*) AS bookings,
			COALESCE(SUM(bookings.total_price), 0) AS revenue,
			COALESCE(SUM(EXTRACT(EPOCH FROM (bookings.end_time - bookings.start_time))), 0) / 3600 AS hours`).
		Where("bookings.status IN ? AND bookings.start_time >= ? AND bookings.start_time < ?",
			revenueStatuses, monthStart, monthEnd).
		Scan(&agg).Error; err != nil {
		httperr.Internal(c, "failed_to_get_statistics", "Failed to compute statistics.")
		return
	}

	if err := ownerBookings().
		Where("bookings.status = ?", string(domain.StatusPending)).
		Count(&ov.PendingBookings).Error; err != nil {
		httperr.Internal(c, "failed_to_get_statistics", "Failed to compute statistics.")
		return
	}

	days := int(monthEnd.Sub(monthStart).Hours()+12) / 24
	ov.MonthlyBookings = agg.Bookings
	ov.MonthlyRevenue = agg.Revenue
	ov.OccupancyRate = occupancyRate(agg.Hours, availableHours(complexes, courts, days))

	httpresp.OK(c, gin.H{"overview": ov})
}

// availableHours is the bookable court time of the month: every court
// open for its complex's daily hours on each day.
func availableHours(complexes []models.Complex, courts map[uint]int64, days int) float64 {
	var total float64
	for _, cx := range complexes {
		open, err := domain.ParseClock(cx.OpenTime)
		if err != nil {
			continue
		}
		closing, err := domain.ParseClock(cx.CloseTime)
		if err != nil || closing <= open {
			continue
		}
		total += float64(courts[cx.ID]) * float64(closing-open) / 60 * float64(days)
	}
	return total
}

// occupancyRate is a percentage capped at 100 with one decimal.
func occupancyRate(booked, available float64) float64 {
	if available <= 0 || booked <= 0 {
		return 0
	}
	rate := math.Min(booked/available*100, 100)
	return math.Round(rate*10) / 10
}
