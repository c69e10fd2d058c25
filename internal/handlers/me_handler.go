package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/validators"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateMeRequest struct {
	FullName    *string `json:"fullName"`
	PhoneNumber *string `json:"phoneNumber"`
	Image       *string `json:"image"`

	// Owners only; 0 turns Telegram alerts off.
	TelegramChatID *int64 `json:"telegramChatId"`
}

type meResponse struct {
	*models.User
	TelegramChatID int64 `json:"telegramChatId,omitempty"`
}

func (h *MeHandler) load(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		First(&user, middleware.Actor(c).UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_user", "Failed to load user.")
		return nil, false
	}
	return &user, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	httpresp.OK(c, meResponse{User: user, TelegramChatID: user.TelegramChatID})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Name cannot be empty.")
			return
		}
		user.FullName = name
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if phone != "" && !validators.IsPhoneValid(phone) {
			httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
			return
		}
		user.PhoneNumber = phone
	}
	if req.Image != nil {
		user.Image = strings.TrimSpace(*req.Image)
	}
	if req.TelegramChatID != nil {
		if user.Role != models.RoleOwner {
			httperr.Forbidden(c, "telegram_owner_only", "Only owners receive Telegram alerts.")
			return
		}
		user.TelegramChatID = *req.TelegramChatID
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Select("full_name", "phone_number", "image", "telegram_chat_id").
		Updates(user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Failed to update profile.")
		return
	}

	httpresp.OK(c, meResponse{User: user, TelegramChatID: user.TelegramChatID})
}
