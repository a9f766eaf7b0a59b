package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	config "github.com/hopeworks/nonprofit-platform-go/config"
	middleware "github.com/hopeworks/nonprofit-platform-go/middleware"
	models "github.com/hopeworks/nonprofit-platform-go/models"
	utils "github.com/hopeworks/nonprofit-platform-go/utils"
)

func newAuthRouter(cfg *config.Config, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{middleware.Auth(cfg)}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpMin: 60}
	token, err := utils.GenerateJWT(cfg, "abc123", models.RoleMember)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := get(newAuthRouter(cfg), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestAuthMissingHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpMin: 60}
	rec := get(newAuthRouter(cfg), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthMalformedHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpMin: 60}
	rec := get(newAuthRouter(cfg), "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthGarbageToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpMin: 60}
	rec := get(newAuthRouter(cfg), "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpMin: 60}

	claims := jwt.MapClaims{
		"sub":  "abc123",
		"role": models.RoleMember,
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := get(newAuthRouter(cfg), "Bearer "+signed)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthWrongSecret(t *testing.T) {
	other := &config.Config{JWTSecret: "other-secret", JWTExpMin: 60}
	token, err := utils.GenerateJWT(other, "abc123", models.RoleMember)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpMin: 60}
	rec := get(newAuthRouter(cfg), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpMin: 60}
	token, err := utils.GenerateJWT(cfg, "abc123", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := get(newAuthRouter(cfg, models.RoleAdmin), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpMin: 60}
	token, err := utils.GenerateJWT(cfg, "abc123", models.RoleMember)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := get(newAuthRouter(cfg, models.RoleAdmin), "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}
