package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/dto"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/court-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

// OwnerBookingHandler covers the owner's side of bookings: walk-ins, the
// booking queue, lifecycle transitions and the named availability grid.
type OwnerBookingHandler struct {
	create      *ucBooking.CreateBooking
	list        *ucBooking.ListBookings
	lifecycle   *ucBooking.UpdateBookingStatus
	grid        *ucBooking.GetAvailabilityGrid
	pendingHold time.Duration
}

func NewOwnerBookingHandler(
	create *ucBooking.CreateBooking,
	list *ucBooking.ListBookings,
	lifecycle *ucBooking.UpdateBookingStatus,
	grid *ucBooking.GetAvailabilityGrid,
	pendingHold time.Duration,
) *OwnerBookingHandler {
	return &OwnerBookingHandler{
		create:      create,
		list:        list,
		lifecycle:   lifecycle,
		grid:        grid,
		pendingHold: pendingHold,
	}
}

type WalkInRequest struct {
	CourtID       uint   `json:"courtId" binding:"required"`
	StartTime     string `json:"startTime" binding:"required"`
	EndTime       string `json:"endTime" binding:"required"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
}

type StatusChangeRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// WALK-IN
// ======================================================

func (h *OwnerBookingHandler) WalkIn(c *gin.Context) {
	var req WalkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "courtId, startTime and endTime are required.")
		return
	}

	b, err := h.create.ExecuteWalkIn(c.Request.Context(), ucBooking.CreateBookingInput{
		Actor:         middleware.Actor(c),
		CourtID:       req.CourtID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"bookingId":  b.ID,
		"status":     b.Status,
		"totalPrice": b.TotalPrice,
	})
}

// ======================================================
// LISTINGS
// ======================================================

func (h *OwnerBookingHandler) List(c *gin.Context) {
	h.listWith(c, c.Query("status"))
}

func (h *OwnerBookingHandler) Pending(c *gin.Context) {
	h.listWith(c, string(domain.StatusPending))
}

func (h *OwnerBookingHandler) listWith(c *gin.Context, status string) {
	page, limit := httpresp.PageParams(c, 20, 100)

	var complexID uint
	if raw := c.Query("complexId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_complex_id", "Invalid complexId.")
			return
		}
		complexID = uint(id)
	}

	res, err := h.list.Execute(c.Request.Context(), ucBooking.ListBookingsInput{
		Actor:     middleware.Actor(c),
		Scope:     ucBooking.ScopeOwner,
		ComplexID: complexID,
		Status:    status,
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	items := make([]dto.BookingDTO, 0, len(res.Items))
	for i := range res.Items {
		b := &res.Items[i]
		items = append(items, dto.FromBooking(b, domain.HoldExpiresAt(b, h.pendingHold)))
	}

	httpresp.Paged(c, "bookings", items, res.Pagination)
}

// ======================================================
// LIFECYCLE
// ======================================================

// Transition returns a handler for one lifecycle action.
func (h *OwnerBookingHandler) Transition(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		var req StatusChangeRequest
		// body is optional
		_ = c.ShouldBindJSON(&req)

		b, err := h.lifecycle.Execute(c.Request.Context(), ucBooking.UpdateStatusInput{
			Actor:     middleware.Actor(c),
			BookingID: id,
			Action:    action,
			Reason:    req.Reason,
		})
		if err != nil {
			httperr.FromError(c, err)
			return
		}

		httpresp.OK(c, dto.FromBooking(b, nil))
	}
}

// ======================================================
// GRID
// ======================================================

func (h *OwnerBookingHandler) Grid(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().In(locationOf(nil)).Format("2006-01-02")
	}

	grid, err := h.grid.Execute(c.Request.Context(), ucBooking.GridInput{
		ComplexID:     id,
		Date:          date,
		Actor:         middleware.Actor(c),
		IncludeClient: true,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, grid)
}
