package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	"github.com/BruksfildServices01/court-scheduler/internal/domain/pricing"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// PricingHandler reads and replaces a court's pricing rules.
type PricingHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPricingHandler(db *gorm.DB, audit *audit.Dispatcher) *PricingHandler {
	return &PricingHandler{db: db, audit: audit}
}

type PricingRuleInput struct {
	DayOfWeek string  `json:"dayOfWeek"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Price     float64 `json:"price"`
}

type PricingRulesUpdateRequest struct {
	Rules []PricingRuleInput `json:"rules"`
}

func (h *PricingHandler) Get(c *gin.Context) {
	court, ok := loadOwnedCourt(c, h.db, "id")
	if !ok {
		return
	}

	var rules []models.PricingRule
	if err := h.db.WithContext(c.Request.Context()).
		Where("court_id = ?", court.ID).
		Order("id ASC").
		Find(&rules).Error; err != nil {
		httperr.Internal(c, "failed_to_get_pricing_rules", "Failed to load pricing rules.")
		return
	}

	httpresp.List(c, rules)
}

// Update replaces the full rule set. Existing bookings keep their price.
func (h *PricingHandler) Update(c *gin.Context) {
	court, ok := loadOwnedCourt(c, h.db, "id")
	if !ok {
		return
	}

	var req PricingRulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	rules := make([]models.PricingRule, 0, len(req.Rules))
	for _, r := range req.Rules {
		rules = append(rules, models.PricingRule{
			CourtID:   court.ID,
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Price:     r.Price,
		})
	}

	if err := pricing.Validate(rules); err != nil {
		httperr.FromError(c, err)
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("court_id = ?", court.ID).Delete(&models.PricingRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_pricing_rules", "Failed to save pricing rules.")
		return
	}

	writeAudit(c, h.audit, court.ComplexID, "pricing_rules_replaced", "court", court.ID, gin.H{"rules": len(rules)})
	httpresp.List(c, rules)
}
