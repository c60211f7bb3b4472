package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"busbook/internal/domain"
	"busbook/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]*service.Claims

func (s stubVerifier) ParseToken(token string) (*service.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, service.ErrInvalidToken
}

func newAuthRouter() *gin.Engine {
	verifier := stubVerifier{
		"admin-token":    {Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "admin-1"}},
		"customer-token": {Role: domain.RoleCustomer, RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}},
	}

	r := gin.New()
	r.GET("/admin", Auth(verifier), RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, "%s", UserID(c))
	})
	r.GET("/public", OptionalAuth(verifier), func(c *gin.Context) {
		c.String(http.StatusOK, "user=%s", UserID(c))
	})
	return r
}

func TestAuth(t *testing.T) {
	t.Parallel()

	router := newAuthRouter()

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"admin allowed", "/admin", "Bearer admin-token", http.StatusOK, "admin-1"},
		{"scheme is case-insensitive", "/admin", "bearer admin-token", http.StatusOK, "admin-1"},
		{"customer forbidden", "/admin", "Bearer customer-token", http.StatusForbidden, ""},
		{"missing token", "/admin", "", http.StatusUnauthorized, ""},
		{"invalid token", "/admin", "Bearer forged", http.StatusUnauthorized, ""},
		{"basic scheme ignored", "/admin", "Basic admin-token", http.StatusUnauthorized, ""},
		{"optional anonymous", "/public", "", http.StatusOK, "user="},
		{"optional invalid token", "/public", "Bearer forged", http.StatusOK, "user="},
		{"optional with token", "/public", "Bearer customer-token", http.StatusOK, "user=user-1"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.status, w.Code)
			continue
		}
		if tt.body != "" && w.Body.String() != tt.body {
			t.Errorf("%s: expected body %q, got %q", tt.name, tt.body, w.Body.String())
		}
	}
}
