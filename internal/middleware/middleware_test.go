package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/config"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	cfg := &config.Config{JWTSecret: secret}

	r := gin.New()
	r.Use(RequestID())
	auth := r.Group("/", AuthMiddleware(cfg, nil))
	auth.GET("/me", func(c *gin.Context) {
		a := Actor(c)
		c.JSON(http.StatusOK, gin.H{"id": a.UserID, "role": a.Role})
	})
	auth.GET("/owner", RequireRole(models.RoleOwner, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func token(t *testing.T, user *models.User, ttl time.Duration) string {
	t.Helper()
	tok, err := IssueToken(secret, user, ttl, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()
	customer := &models.User{ID: 7, Role: models.RoleCustomer, Email: "a@example.com"}

	w := do(r, "/me", "Bearer "+token(t, customer, time.Hour))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if w.Body.String() != `{"id":7,"role":"Customer"}` {
		t.Fatalf("body = %s", w.Body)
	}

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer abc.def.ghi"},
		{"expired", "Bearer " + token(t, customer, -time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, "/me", tt.auth); w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}

type accountStub map[uint]models.User

func (a accountStub) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := a[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func TestAuthMiddleware_ReloadsAccount(t *testing.T) {
	accounts := accountStub{
		7: {ID: 7, Role: models.RoleOwner, AccountStatus: models.AccountActive},
		8: {ID: 8, Role: models.RoleCustomer, AccountStatus: models.AccountLocked},
	}

	r := gin.New()
	r.GET("/me", AuthMiddleware(&config.Config{JWTSecret: secret}, accounts), func(c *gin.Context) {
		c.String(http.StatusOK, Actor(c).Role)
	})

	// role changed after the token was issued
	w := do(r, "/me", "Bearer "+token(t, &models.User{ID: 7, Role: models.RoleCustomer}, time.Hour))
	if w.Code != http.StatusOK || w.Body.String() != models.RoleOwner {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	tests := []struct {
		name string
		id   uint
		want int
	}{
		{"locked", 8, http.StatusForbidden},
		{"deleted", 9, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := token(t, &models.User{ID: tt.id, Role: models.RoleCustomer}, time.Hour)
			if w := do(r, "/me", "Bearer "+tok); w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	tok, err := IssueToken("other", &models.User{ID: 1, Role: models.RoleAdmin}, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := do(newRouter(), "/me", "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter()

	owner := &models.User{ID: 2, Role: models.RoleOwner}
	if w := do(r, "/owner", "Bearer "+token(t, owner, time.Hour)); w.Code != http.StatusNoContent {
		t.Fatalf("owner status = %d", w.Code)
	}

	customer := &models.User{ID: 3, Role: models.RoleCustomer}
	if w := do(r, "/owner", "Bearer "+token(t, customer, time.Hour)); w.Code != http.StatusForbidden {
		t.Fatalf("customer status = %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter()

	w := do(r, "/me", "")
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin status = %d", w.Code)
	}
}
