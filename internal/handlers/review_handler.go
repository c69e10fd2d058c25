package handlers

import (
	"errors"
	"math"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

var errAlreadyReviewed = errors.New("already reviewed")

type ReviewHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewReviewHandler(db *gorm.DB, audit *audit.Dispatcher) *ReviewHandler {
	return &ReviewHandler{db: db, audit: audit}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create lets a customer who played (or holds a confirmed booking) at the
// complex review it once.
func (h *ReviewHandler) Create(c *gin.Context) {
	complexID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httperr.BadRequest(c, "invalid_rating", "Rating must be between 1 and 5.")
		return
	}

	ctx := c.Request.Context()
	customerID := middleware.Actor(c).UserID

	var cx models.Complex
	if err := h.db.WithContext(ctx).First(&cx, complexID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "complex_not_found", "Court complex not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_complex", "Failed to load court complex.")
		return
	}

	var played int64
	if err := h.db.WithContext(ctx).
		Model(&models.Booking{}).
		Joins("JOIN courts ON courts.id = bookings.court_id").
		Where("courts.complex_id = ? AND bookings.customer_id = ? AND bookings.status IN ?",
			cx.ID, customerID, []string{"Confirmed", "Completed"}).
		Count(&played).Error; err != nil {
		httperr.Internal(c, "failed_to_create_review", "Failed to save review.")
		return
	}
	if played == 0 {
		httperr.Forbidden(c, "review_requires_booking", "Only customers with a confirmed booking can review.")
		return
	}

	review := models.Review{
		ComplexID:  cx.ID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("complex_id = ? AND customer_id = ?", cx.ID, customerID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errAlreadyReviewed
		}

		if err := tx.Create(&review).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return errAlreadyReviewed
			}
			return err
		}
		return recomputeRating(tx, cx.ID)
	})
	if err != nil {
		if errors.Is(err, errAlreadyReviewed) {
			httperr.BadRequest(c, "already_reviewed", "You have already reviewed this court complex.")
			return
		}
		httperr.Internal(c, "failed_to_create_review", "Failed to save review.")
		return
	}

	writeAudit(c, h.audit, cx.ID, "review_created", "review", review.ID, gin.H{"rating": review.Rating})
	httpresp.Created(c, review)
}

func (h *ReviewHandler) List(c *gin.Context) {
	complexID, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, limit := httpresp.PageParams(c, 10, 50)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Review{}).
		Where("complex_id = ?", complexID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Failed to list reviews.")
		return
	}

	var reviews []models.Review
	if err := q.
		Preload("Customer", func(db *gorm.DB) *gorm.DB { return db.Select("id", "full_name", "image") }).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Failed to list reviews.")
		return
	}

	httpresp.Paged(c, "reviews", reviews, httpresp.NewPagination(page, limit, total))
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Update lets a customer edit their own review.
func (h *ReviewHandler) Update(c *gin.Context) {
	review, ok := h.loadReview(c)
	if !ok {
		return
	}
	if review.CustomerID != middleware.Actor(c).UserID {
		httperr.Forbidden(c, "forbidden", "You can only edit your own review.")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			httperr.BadRequest(c, "invalid_rating", "Rating must be between 1 and 5.")
			return
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = strings.TrimSpace(*req.Comment)
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(review).Updates(map[string]any{
			"rating":  review.Rating,
			"comment": review.Comment,
		}).Error; err != nil {
			return err
		}
		return recomputeRating(tx, review.ComplexID)
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_review", "Failed to update review.")
		return
	}

	writeAudit(c, h.audit, review.ComplexID, "review_updated", "review", review.ID, gin.H{"rating": review.Rating})
	httpresp.OK(c, review)
}

// Delete removes a review; admins may remove anyone's.
func (h *ReviewHandler) Delete(c *gin.Context) {
	review, ok := h.loadReview(c)
	if !ok {
		return
	}
	actor := middleware.Actor(c)
	if review.CustomerID != actor.UserID && actor.Role != models.RoleAdmin {
		httperr.Forbidden(c, "forbidden", "You can only delete your own review.")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(review).Error; err != nil {
			return err
		}
		return recomputeRating(tx, review.ComplexID)
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_review", "Failed to delete review.")
		return
	}

	writeAudit(c, h.audit, review.ComplexID, "review_deleted", "review", review.ID, nil)
	httpresp.OK(c, gin.H{"status": "deleted"})
}

func (h *ReviewHandler) MyReviews(c *gin.Context) {
	page, limit := httpresp.PageParams(c, 10, 50)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Review{}).
		Where("customer_id = ?", middleware.Actor(c).UserID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Failed to list reviews.")
		return
	}

	var reviews []models.Review
	if err := q.
		Preload("Complex", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "address", "city") }).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Failed to list reviews.")
		return
	}

	httpresp.Paged(c, "reviews", reviews, httpresp.NewPagination(page, limit, total))
}

func (h *ReviewHandler) loadReview(c *gin.Context) (*models.Review, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var review models.Review
	if err := h.db.WithContext(c.Request.Context()).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "review_not_found", "Review not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_review", "Failed to load review.")
		return nil, false
	}
	return &review, true
}

type ratingAggregate struct {
	Avg   float64
	Total int
}

func recomputeRating(tx *gorm.DB, complexID uint) error {
	var agg ratingAggregate
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("complex_id = ?", complexID).
		Scan(&agg).Error; err != nil {
		return err
	}

	return tx.Model(&models.Complex{}).
		Where("id = ?", complexID).
		Updates(map[string]any{
			"rating":        math.Round(agg.Avg*10) / 10,
			"total_reviews": agg.Total,
		}).Error
}
