package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/config"
	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// Claims carries the user id in Subject.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func IssueToken(secret string, user *models.User, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AccountSource reloads the account behind a token, so locks and role
// changes take effect before the token expires.
type AccountSource interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type gormAccounts struct {
	db *gorm.DB
}

func NewGormAccounts(db *gorm.DB) AccountSource {
	return gormAccounts{db: db}
}

func (a gormAccounts) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := a.db.WithContext(ctx).
		Select("id", "role", "account_status").
		First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthMiddleware validates the bearer token. With a non-nil accounts
// source the role comes from the stored account and locked accounts are
// refused.
func AuthMiddleware(cfg *config.Config, accounts AccountSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Authorization header must be a Bearer token.")
			return
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || userID == 0 {
			httperr.Unauthorized(c, "invalid_token_payload", "Token subject is invalid.")
			return
		}

		role := claims.Role
		if accounts != nil {
			u, err := accounts.GetUser(c.Request.Context(), uint(userID))
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					httperr.Unauthorized(c, "account_not_found", "Account no longer exists.")
					return
				}
				log.Ctx(c.Request.Context()).Error().Err(err).Msg("load account")
				httperr.Internal(c, "internal_error", "Something went wrong.")
				return
			}
			if u.IsLocked() {
				httperr.Forbidden(c, "account_locked", "This account has been locked.")
				return
			}
			role = u.Role
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if _, ok := allowed[role]; !ok {
			httperr.Forbidden(c, "insufficient_role", "You are not allowed to perform this action.")
			return
		}
		c.Next()
	}
}

// Actor reads the authenticated caller set by AuthMiddleware.
func Actor(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID: c.GetUint(ContextUserID),
		Role:   c.GetString(ContextUserRole),
	}
}
