package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// loadOwnedComplex fetches the complex named by the path param and checks
// the caller owns it. On failure the response is already written.
func loadOwnedComplex(c *gin.Context, db *gorm.DB, param string) (*models.Complex, bool) {
	id, ok := idParam(c, param)
	if !ok {
		return nil, false
	}

	var cx models.Complex
	if err := db.WithContext(c.Request.Context()).First(&cx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "complex_not_found", "Court complex not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_complex", "Failed to load court complex.")
		return nil, false
	}

	if !middleware.Actor(c).OwnsComplex(&cx) {
		httperr.Forbidden(c, "complex_not_owned", "You do not manage this court complex.")
		return nil, false
	}
	return &cx, true
}

// loadOwnedCourt fetches a court with its complex and checks ownership.
func loadOwnedCourt(c *gin.Context, db *gorm.DB, param string) (*models.Court, bool) {
	id, ok := idParam(c, param)
	if !ok {
		return nil, false
	}

	var court models.Court
	if err := db.WithContext(c.Request.Context()).
		Preload("Complex").
		First(&court, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "court_not_found", "Court not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_court", "Failed to load court.")
		return nil, false
	}

	if !middleware.Actor(c).OwnsComplex(court.Complex) {
		httperr.Forbidden(c, "court_not_owned", "You do not manage this court.")
		return nil, false
	}
	return &court, true
}
