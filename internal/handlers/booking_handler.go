package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/dto"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/receipt"
	ucBooking "github.com/BruksfildServices01/court-scheduler/internal/usecase/booking"
	ucPayment "github.com/BruksfildServices01/court-scheduler/internal/usecase/payment"
)

// ======================================================
// HANDLER
// ======================================================

// BookingHandler serves the customer side of booking: quotes, creation,
// history, payment details and receipts.
type BookingHandler struct {
	check         *ucBooking.CheckAvailability
	create        *ucBooking.CreateBooking
	list          *ucBooking.ListBookings
	get           *ucBooking.GetBooking
	paymentInfo   *ucPayment.GetPaymentInfo
	paymentStatus *ucPayment.GetPaymentStatus

	payments    ucPayment.Settings
	pendingHold time.Duration
}

func NewBookingHandler(
	check *ucBooking.CheckAvailability,
	create *ucBooking.CreateBooking,
	list *ucBooking.ListBookings,
	get *ucBooking.GetBooking,
	paymentInfo *ucPayment.GetPaymentInfo,
	paymentStatus *ucPayment.GetPaymentStatus,
	payments ucPayment.Settings,
) *BookingHandler {
	return &BookingHandler{
		check:         check,
		create:        create,
		list:          list,
		get:           get,
		paymentInfo:   paymentInfo,
		paymentStatus: paymentStatus,
		payments:      payments,
		pendingHold:   payments.PendingHold,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookingRangeRequest struct {
	CourtID   uint   `json:"courtId" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// ======================================================
// QUOTE / CREATE
// ======================================================

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req BookingRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "courtId, startTime and endTime are required.")
		return
	}

	res, err := h.check.Execute(c.Request.Context(), ucBooking.CheckAvailabilityInput{
		CourtID:   req.CourtID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req BookingRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "courtId, startTime and endTime are required.")
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		Actor:     middleware.Actor(c),
		CourtID:   req.CourtID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	// reload for the customer name used in the transfer description
	full, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), b.ID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"booking":     dto.FromBooking(full, domain.HoldExpiresAt(full, h.pendingHold)),
		"paymentInfo": ucPayment.BuildInfo(h.payments, full.Court.Complex, full),
	})
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) MyBookings(c *gin.Context) {
	page, limit := httpresp.PageParams(c, 10, 100)

	res, err := h.list.Execute(c.Request.Context(), ucBooking.ListBookingsInput{
		Actor:     middleware.Actor(c),
		Scope:     ucBooking.ScopeCustomer,
		Status:    c.Query("status"),
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

	httpresp.Paged(c, "bookings", h.toDTOs(res), res.Pagination)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromBooking(b, domain.HoldExpiresAt(b, h.pendingHold)))
}

func (h *BookingHandler) PaymentInfo(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res, err := h.paymentInfo.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *BookingHandler) Status(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res, err := h.paymentStatus.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *BookingHandler) Receipt(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	pdf, filename, err := receipt.Build(b, time.Now())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *BookingHandler) toDTOs(page *ucBooking.BookingPage) []dto.BookingDTO {
	out := make([]dto.BookingDTO, 0, len(page.Items))
	for i := range page.Items {
		b := &page.Items[i]
		out = append(out, dto.FromBooking(b, domain.HoldExpiresAt(b, h.pendingHold)))
	}
	return out
}
