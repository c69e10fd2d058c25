package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
	"github.com/BruksfildServices01/court-scheduler/internal/validators"
)

// ComplexHandler manages the caller's own court complexes.
type ComplexHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewComplexHandler(db *gorm.DB, audit *audit.Dispatcher) *ComplexHandler {
	return &ComplexHandler{db: db, audit: audit}
}

// --------- Requests ---------

type ComplexRequest struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	PhoneNumber *string  `json:"phoneNumber"`
	SportType   *string  `json:"sportType"`
	Description *string  `json:"description"`
	OpenTime    *string  `json:"openTime"`
	CloseTime   *string  `json:"closeTime"`
	Timezone    *string  `json:"timezone"`
	Amenities   []string `json:"amenities"`

	BankCode      *string `json:"bankCode"`
	AccountNumber *string `json:"accountNumber"`
	AccountName   *string `json:"accountName"`

	Status *string `json:"status"`
}

// apply copies the set fields onto cx and validates the result.
func (r *ComplexRequest) apply(cx *models.Complex) (code, msg string) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	set(&cx.Name, r.Name)
	set(&cx.Address, r.Address)
	set(&cx.City, r.City)
	set(&cx.PhoneNumber, r.PhoneNumber)
	set(&cx.SportType, r.SportType)
	set(&cx.Description, r.Description)
	set(&cx.OpenTime, r.OpenTime)
	set(&cx.CloseTime, r.CloseTime)
	set(&cx.Timezone, r.Timezone)
	set(&cx.BankCode, r.BankCode)
	set(&cx.AccountNumber, r.AccountNumber)
	set(&cx.AccountName, r.AccountName)
	set(&cx.Status, r.Status)

	if r.Amenities != nil {
		cx.Amenities = datatypes.JSONSlice[string](r.Amenities)
	}

	if cx.Name == "" {
		return "invalid_name", "Name is required."
	}
	if err := domain.ValidateHours(cx.OpenTime, cx.CloseTime); err != nil {
		return "invalid_operating_hours", "Opening hours must be HH:MM with open before close."
	}
	if cx.Timezone == "" {
		cx.Timezone = timezone.DefaultTimezone
	}
	if !timezone.IsValid(cx.Timezone) {
		return "invalid_timezone", "Unknown timezone."
	}
	if cx.PhoneNumber != "" && !validators.IsPhoneValid(cx.PhoneNumber) {
		return "invalid_phone", "Invalid phone number."
	}
	if cx.Status != models.StatusActive && cx.Status != models.StatusInactive {
		return "invalid_status", "Status must be Active or Inactive."
	}
	return "", ""
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ComplexHandler) List(c *gin.Context) {
	ownerID := middleware.Actor(c).UserID

	var complexes []models.Complex
	if err := h.db.WithContext(c.Request.Context()).
		Where("owner_id = ?", ownerID).
		Preload("Courts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Order("id ASC").
		Find(&complexes).Error; err != nil {
		httperr.Internal(c, "failed_to_list_complexes", "Failed to list court complexes.")
		return
	}

	httpresp.List(c, complexes)
}

func (h *ComplexHandler) Get(c *gin.Context) {
	cx, ok := loadOwnedComplex(c, h.db, "id")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Preload("Courts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Courts.PricingRules").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(cx, cx.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_get_complex", "Failed to load court complex.")
		return
	}

	httpresp.OK(c, cx)
}

func (h *ComplexHandler) Create(c *gin.Context) {
	var req ComplexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	cx := models.Complex{
		OwnerID: middleware.Actor(c).UserID,
		Status:  models.StatusActive,
	}
	if code, msg := req.apply(&cx); code != "" {
		httperr.BadRequest(c, code, msg)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&cx).Error; err != nil {
		httperr.Internal(c, "failed_to_create_complex", "Failed to create court complex.")
		return
	}

	writeAudit(c, h.audit, cx.ID, "complex_created", "complex", cx.ID, gin.H{"name": cx.Name})
	httpresp.Created(c, cx)
}

func (h *ComplexHandler) Update(c *gin.Context) {
	cx, ok := loadOwnedComplex(c, h.db, "id")
	if !ok {
		return
	}

	var req ComplexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if code, msg := req.apply(cx); code != "" {
		httperr.BadRequest(c, code, msg)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(cx).Error; err != nil {
		httperr.Internal(c, "failed_to_update_complex", "Failed to update court complex.")
		return
	}

	writeAudit(c, h.audit, cx.ID, "complex_updated", "complex", cx.ID, nil)
	httpresp.OK(c, cx)
}
