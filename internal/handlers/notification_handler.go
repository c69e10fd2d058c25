package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// NotificationHandler serves the signed-in user's in-app inbox.
type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

func (h *NotificationHandler) List(c *gin.Context) {
	page, limit := httpresp.PageParams(c, 20, 100)
	userID := middleware.Actor(c).UserID
	db := h.db.WithContext(c.Request.Context())

	q := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if c.Query("unreadOnly") == "true" {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_notifications", "Failed to list notifications.")
		return
	}

	var unread int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		httperr.Internal(c, "failed_to_list_notifications", "Failed to list notifications.")
		return
	}

	items := []models.Notification{}
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_list_notifications", "Failed to list notifications.")
		return
	}

	p := httpresp.NewPagination(page, limit, total)
	c.JSON(http.StatusOK, gin.H{
		"notifications": items,
		"unreadCount":   unread,
		"page":          p.Page,
		"limit":         p.Limit,
		"totalItems":    p.TotalItems,
		"totalPages":    p.TotalPages,
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, ok := h.loadOwn(c)
	if !ok {
		return
	}

	if !n.IsRead {
		if err := h.db.WithContext(c.Request.Context()).
			Model(n).Update("is_read", true).Error; err != nil {
			httperr.Internal(c, "failed_to_update_notification", "Failed to update notification.")
			return
		}
		n.IsRead = true
	}

	httpresp.OK(c, n)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", middleware.Actor(c).UserID, false).
		Update("is_read", true)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_update_notification", "Failed to update notifications.")
		return
	}

	httpresp.OK(c, gin.H{"updated": res.RowsAffected})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	n, ok := h.loadOwn(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(n).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_notification", "Failed to delete notification.")
		return
	}

	httpresp.OK(c, gin.H{"status": "deleted"})
}

func (h *NotificationHandler) loadOwn(c *gin.Context) (*models.Notification, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var n models.Notification
	if err := h.db.WithContext(c.Request.Context()).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "notification_not_found", "Notification not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_notification", "Failed to load notification.")
		return nil, false
	}

	if n.UserID != middleware.Actor(c).UserID {
		httperr.Forbidden(c, "forbidden", "This notification belongs to another user.")
		return nil, false
	}
	return &n, true
}
