package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/infrastructure/auth"
	"github.com/momtazchem/backend/internal/infrastructure/config"
)

func newTestJWTService(accessExpiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-middleware-tests",
		AccessTokenExpiration:  accessExpiration,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "momtaz-test",
		MaxRefreshCount:        5,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role identity.Role) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "finance1",
		Role:     role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func newAuthRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(svc))
	r.GET("/api/v1/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"role":    string(GetJWTRole(c)),
		})
	})
	r.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	r := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, svc, identity.RoleFinancial))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "financial")
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter(newTestJWTService(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	r := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set("Authorization", "Token "+issueToken(t, svc, identity.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	r := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, svc, identity.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuth_SkipsPublicPaths(t *testing.T) {
	r := newAuthRouter(newTestJWTService(time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(role identity.Role, withRole bool) *gin.Engine {
		r := gin.New()
		r.POST("/act", func(c *gin.Context) {
			if withRole {
				c.Set(JWTRoleKey, role)
			}
			c.Next()
		}, RequireRole(identity.RoleFinancial), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	tests := []struct {
		name     string
		role     identity.Role
		withRole bool
		want     int
	}{
		{"matching role", identity.RoleFinancial, true, http.StatusOK},
		{"admin bypasses", identity.RoleAdmin, true, http.StatusOK},
		{"wrong role", identity.RoleWarehouse, true, http.StatusForbidden},
		{"customer", identity.RoleCustomer, true, http.StatusForbidden},
		{"unauthenticated", "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/act", nil)
			newRouter(tt.role, tt.withRole).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
