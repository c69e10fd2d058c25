package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

type CourtHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCourtHandler(db *gorm.DB, audit *audit.Dispatcher) *CourtHandler {
	return &CourtHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateCourtRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCourtRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// --------- Handlers ---------

func (h *CourtHandler) List(c *gin.Context) {
	cx, ok := loadOwnedComplex(c, h.db, "id")
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("complex_id = ?", cx.ID)

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var courts []models.Court
	if err := q.
		Preload("PricingRules").
		Order("id ASC").
		Find(&courts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_courts", "Failed to list courts.")
		return
	}

	httpresp.List(c, courts)
}

func (h *CourtHandler) Create(c *gin.Context) {
	cx, ok := loadOwnedComplex(c, h.db, "id")
	if !ok {
		return
	}

	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Court name is required.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, "invalid_name", "Court name is required.")
		return
	}

	court := models.Court{
		ComplexID:   cx.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Status:      models.StatusActive,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&court).Error; err != nil {
		httperr.Internal(c, "failed_to_create_court", "Failed to create court.")
		return
	}

	writeAudit(c, h.audit, cx.ID, "court_created", "court", court.ID, gin.H{"name": court.Name})
	httpresp.Created(c, court)
}

func (h *CourtHandler) Update(c *gin.Context) {
	court, ok := loadOwnedCourt(c, h.db, "id")
	if !ok {
		return
	}

	var req UpdateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Court name is required.")
			return
		}
		court.Name = name
	}
	if req.Description != nil {
		court.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if *req.Status != models.StatusActive && *req.Status != models.StatusInactive {
			httperr.BadRequest(c, "invalid_status", "Status must be Active or Inactive.")
			return
		}
		court.Status = *req.Status
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(court).
		Select("name", "description", "status").
		Updates(court).Error; err != nil {
		httperr.Internal(c, "failed_to_update_court", "Failed to update court.")
		return
	}

	writeAudit(c, h.audit, court.ComplexID, "court_updated", "court", court.ID, nil)
	court.Complex = nil
	httpresp.OK(c, court)
}

// Delete refuses courts that have any booking history; deactivate them instead.
func (h *CourtHandler) Delete(c *gin.Context) {
	court, ok := loadOwnedCourt(c, h.db, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var bookings int64
	if err := h.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("court_id = ?", court.ID).
		Count(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_court", "Failed to delete court.")
		return
	}
	if bookings > 0 {
		httperr.BadRequest(c, "court_has_bookings", "Courts with bookings cannot be deleted. Deactivate it instead.")
		return
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("court_id = ?", court.ID).Delete(&models.PricingRule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Court{}, court.ID).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_court", "Failed to delete court.")
		return
	}

	writeAudit(c, h.audit, court.ComplexID, "court_deleted", "court", court.ID, gin.H{"name": court.Name})
	httpresp.OK(c, gin.H{"status": "deleted"})
}
