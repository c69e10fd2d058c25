package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/dto"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	ucBooking "github.com/BruksfildServices01/court-scheduler/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated catalog.
type PublicHandler struct {
	db   *gorm.DB
	grid *ucBooking.GetAvailabilityGrid
}

func NewPublicHandler(db *gorm.DB, grid *ucBooking.GetAvailabilityGrid) *PublicHandler {
	return &PublicHandler{db: db, grid: grid}
}

func activeCourts(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", models.StatusActive).Order("id ASC")
}

func imagesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

////////////////////////////////////////////////////////
// SEARCH
////////////////////////////////////////////////////////

func (h *PublicHandler) Search(c *gin.Context) {
	page, limit := httpresp.PageParams(c, 12, 50)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Complex{}).
		Where("status = ?", models.StatusActive)

	if city := strings.TrimSpace(c.Query("city")); city != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(city))
	}
	if sport := strings.TrimSpace(c.Query("sportType")); sport != "" {
		q = q.Where("LOWER(sport_type) = ?", strings.ToLower(sport))
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_search_complexes", "Failed to search court complexes.")
		return
	}

	var complexes []models.Complex
	if err := q.
		Preload("Courts", activeCourts).
		Preload("Courts.PricingRules").
		Preload("Images", imagesInOrder).
		Order("rating DESC, id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&complexes).Error; err != nil {
		httperr.Internal(c, "failed_to_search_complexes", "Failed to search court complexes.")
		return
	}

	out := make([]dto.ComplexSummary, 0, len(complexes))
	for i := range complexes {
		out = append(out, dto.Summarize(&complexes[i]))
	}

	httpresp.Paged(c, "courtComplexes", out, httpresp.NewPagination(page, limit, total))
}

////////////////////////////////////////////////////////
// DETAIL
////////////////////////////////////////////////////////

func (h *PublicHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var cx models.Complex
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND status = ?", id, models.StatusActive).
		Preload("Courts", activeCourts).
		Preload("Courts.PricingRules").
		Preload("Images", imagesInOrder).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC").Limit(50) }).
		Preload("Reviews.Customer").
		First(&cx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "complex_not_found", "Court complex not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_complex", "Failed to load court complex.")
		return
	}

	httpresp.OK(c, dto.Detail(&cx))
}

////////////////////////////////////////////////////////
// AVAILABILITY GRID
////////////////////////////////////////////////////////

func (h *PublicHandler) Grid(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		var cx models.Complex
		if err := h.db.WithContext(c.Request.Context()).Select("id", "timezone").First(&cx, id).Error; err != nil {
			httperr.NotFound(c, "complex_not_found", "Court complex not found.")
			return
		}
		date = todayIn(&cx)
	}

	grid, err := h.grid.Execute(c.Request.Context(), ucBooking.GridInput{
		ComplexID: id,
		Date:      date,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, grid)
}

////////////////////////////////////////////////////////
// FILTER OPTIONS
////////////////////////////////////////////////////////

func (h *PublicHandler) Cities(c *gin.Context) {
	h.distinctValues(c, "city", "cities")
}

func (h *PublicHandler) SportTypes(c *gin.Context) {
	h.distinctValues(c, "sport_type", "sportTypes")
}

// distinctValues lists the non-empty values of column across active complexes.
func (h *PublicHandler) distinctValues(c *gin.Context, column, key string) {
	values := []string{}
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Complex{}).
		Where("status = ?", models.StatusActive).
		Where(column+" <> ''").
		Distinct(column).
		Order(column+" ASC").
		Pluck(column, &values).Error; err != nil {
		httperr.Internal(c, "failed_to_list_"+key, "Failed to load filter options.")
		return
	}

	httpresp.OK(c, gin.H{key: values})
}
