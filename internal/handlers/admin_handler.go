package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// AdminHandler administers accounts and reports platform aggregates.
type AdminHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db, now: time.Now}
}

type SetAccountStatusRequest struct {
	AccountStatus *int `json:"accountStatus" binding:"required"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := httpresp.PageParams(c, 20, 100)

	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone_number LIKE ?", like, like, like)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		if !models.IsValidRole(role) {
			httperr.BadRequest(c, "invalid_role", "Unknown role.")
			return
		}
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Failed to list users.")
		return
	}

	var users []models.User
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Failed to list users.")
		return
	}

	httpresp.Paged(c, "users", users, httpresp.NewPagination(page, limit, total))
}

func (h *AdminHandler) SetStatus(c *gin.Context) {
	user, ok := h.loadMutableUser(c)
	if !ok {
		return
	}

	var req SetAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "accountStatus is required.")
		return
	}
	if *req.AccountStatus != models.AccountLocked && *req.AccountStatus != models.AccountActive {
		httperr.BadRequest(c, "invalid_account_status", "accountStatus must be 0 (locked) or 1 (active).")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("account_status", *req.AccountStatus).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Failed to update user.")
		return
	}

	httpresp.OK(c, user)
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	user, ok := h.loadMutableUser(c)
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.IsValidRole(req.Role) {
		httperr.BadRequest(c, "invalid_role", "role must be Customer, Owner or Admin.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("role", req.Role).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Failed to update user.")
		return
	}

	httpresp.OK(c, user)
}

// loadMutableUser refuses admins, including the caller.
func (h *AdminHandler) loadMutableUser(c *gin.Context) (*models.User, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	if id == middleware.Actor(c).UserID {
		httperr.Forbidden(c, "cannot_modify_self", "You cannot change your own account.")
		return nil, false
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_user", "Failed to load user.")
		return nil, false
	}

	if user.Role == models.RoleAdmin {
		httperr.Forbidden(c, "admin_immutable", "Admin accounts cannot be changed.")
		return nil, false
	}
	return &user, true
}

// ======================================================
// STATISTICS
// ======================================================

type PlatformOverview struct {
	TotalUsers      int64   `json:"totalUsers"`
	TotalCustomers  int64   `json:"totalCustomers"`
	TotalOwners     int64   `json:"totalOwners"`
	TotalComplexes  int64   `json:"totalComplexes"`
	TotalCourts     int64   `json:"totalCourts"`
	TotalBookings   int64   `json:"totalBookings"`
	PendingBookings int64   `json:"pendingBookings"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

type MonthlyStat struct {
	Month    string  `json:"month"`
	Bookings int64   `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type DailyStat struct {
	Date     string `json:"date"`
	Bookings int64  `json:"bookings"`
}

// revenueStatuses count as earned money.
var revenueStatuses = []string{"Confirmed", "Completed"}

func (h *AdminHandler) Statistics(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	now := h.now()

	var ov PlatformOverview
	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&ov.TotalUsers, &models.User{}, "", nil},
		{&ov.TotalCustomers, &models.User{}, "role = ?", []any{models.RoleCustomer}},
		{&ov.TotalOwners, &models.User{}, "role = ?", []any{models.RoleOwner}},
		{&ov.TotalComplexes, &models.Complex{}, "", nil},
		{&ov.TotalCourts, &models.Court{}, "", nil},
		{&ov.TotalBookings, &models.Booking{}, "", nil},
		{&ov.PendingBookings, &models.Booking{}, "status = ?", []any{"Pending"}},
	}
	for _, q := range counts {
		tx := db.Model(q.model)
		if q.where != "" {
			tx = tx.Where(q.where, q.args...)
		}
		if err := tx.Count(q.dst).Error; err != nil {
			httperr.Internal(c, "failed_to_get_statistics", "Failed to compute statistics.")
			return
		}
	}

	if err := db.Model(&models.Booking{}).
		Where("status IN ?", revenueStatuses).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&ov.TotalRevenue).Error; err != nil {
		httperr.Internal(c, "failed_to_get_statistics", "Failed to compute statistics.")
		return
	}

	// --------------------------------------------------
	// Last 12 months
	// --------------------------------------------------

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	var monthly []MonthlyStat
	if err := db.Model(&models.Booking{}).
		Select(`to_char(date_trunc('month', start_time), 'YYYY-MM') AS month,
			COUNT(*) AS bookings,
			COALESCE(SUM(CASE WHEN status IN ? THEN total_price ELSE 0 END), 0) AS revenue`, revenueStatuses).
		Where("start_time >= ?", monthStart).
		Group("month").
		Order("month ASC").
		Scan(&monthly).Error; err != nil {
		httperr.Internal(c, "failed_to_get_statistics", "Failed to compute statistics.")
		return
	}

	// --------------------------------------------------
	// Last 30 days
	// --------------------------------------------------

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -29)

	var daily []DailyStat
	if err := db.Model(&models.Booking{}).
		Select(`to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS date, COUNT(*) AS bookings`).
		Where("created_at >= ?", dayStart).
		Group("date").
		Order("date ASC").
		Scan(&daily).Error; err != nil {
		httperr.Internal(c, "failed_to_get_statistics", "Failed to compute statistics.")
		return
	}

	httpresp.OK(c, gin.H{
		"overview":             ov,
		"monthlyPlatformStats": fillMonths(monthly, monthStart, 12),
		"dailyBookingsTrend":   fillDays(daily, dayStart, 30),
	})
}

// fillMonths returns n consecutive months from start, zero-filled.
func fillMonths(rows []MonthlyStat, start time.Time, n int) []MonthlyStat {
	byMonth := make(map[string]MonthlyStat, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}

	out := make([]MonthlyStat, 0, n)
	for i := 0; i < n; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		row, ok := byMonth[key]
		if !ok {
			row = MonthlyStat{Month: key}
		}
		out = append(out, row)
	}
	return out
}

func fillDays(rows []DailyStat, start time.Time, n int) []DailyStat {
	byDay := make(map[string]DailyStat, len(rows))
	for _, r := range rows {
		byDay[r.Date] = r
	}

	out := make([]DailyStat, 0, n)
	for i := 0; i < n; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		row, ok := byDay[key]
		if !ok {
			row = DailyStat{Date: key}
		}
		out = append(out, row)
	}
	return out
}
