package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/config"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/validators"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// overridable in tests
	tokenInfoURL string
	httpClient   *http.Client
	now          func() time.Time
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:           db,
		config:       cfg,
		tokenInfoURL: googleTokenInfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		now:          time.Now,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// --------- Handlers ---------

// Register creates a Customer account. Owners and admins are promoted by
// an admin.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "fullName, email and a password of at least 6 characters are required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailSyntaxValid(email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email address.")
		return
	}

	phone := strings.TrimSpace(req.PhoneNumber)
	if phone != "" && !validators.IsPhoneValid(phone) {
		httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
		return
	}

	ctx := c.Request.Context()

	var count int64
	h.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_registered", "This email is already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Failed to create account.")
		return
	}

	user := models.User{
		FullName:      strings.TrimSpace(req.FullName),
		Email:         email,
		PasswordHash:  string(hashed),
		PhoneNumber:   phone,
		Role:          models.RoleCustomer,
		AccountStatus: models.AccountActive,
	}

	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Failed to create account.")
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	if user.IsLocked() {
		httperr.Forbidden(c, "account_locked", "This account has been locked.")
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

// --------- Google ---------

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Google signs in with a Google ID token, creating a Customer on first use.
func (h *AuthHandler) Google(c *gin.Context) {
	if h.config.GoogleClientID == "" {
		httperr.Unavailable(c, "google_login_disabled", "Google sign-in is not configured.")
		return
	}

	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "credential is required.")
		return
	}

	ctx := c.Request.Context()

	info, err := h.verifyGoogleToken(ctx, req.Credential)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("google token rejected")
		httperr.Unauthorized(c, "invalid_google_token", "Google credential could not be verified.")
		return
	}

	email := strings.ToLower(info.Email)

	var user models.User
	err = h.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			FullName:      info.Name,
			Email:         email,
			Image:         info.Picture,
			GoogleID:      info.Sub,
			Role:          models.RoleCustomer,
			AccountStatus: models.AccountActive,
		}
		if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
			httperr.Internal(c, "failed_to_create_user", "Failed to create account.")
			return
		}
	case err != nil:
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	case user.GoogleID == "":
		h.db.WithContext(ctx).Model(&user).Update("google_id", info.Sub)
	}

	if user.IsLocked() {
		httperr.Forbidden(c, "account_locked", "This account has been locked.")
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

func (h *AuthHandler) verifyGoogleToken(ctx context.Context, credential string) (*googleTokenInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		h.tokenInfoURL+"?id_token="+url.QueryEscape(credential), nil)
	if err != nil {
		return nil, err
	}

	res, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo status %d", res.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode tokeninfo: %w", err)
	}

	if info.Aud != h.config.GoogleClientID {
		return nil, errors.New("audience mismatch")
	}
	if info.Email == "" || info.EmailVerified != "true" {
		return nil, errors.New("email not verified")
	}
	return &info, nil
}

// --------- JWT ---------

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := middleware.IssueToken(h.config.JWTSecret, user, h.config.TokenTTL(), h.now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Failed to sign in.")
		return
	}

	c.JSON(status, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"user":         user,
	})
}
