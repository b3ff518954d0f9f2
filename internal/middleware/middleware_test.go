package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":         c.GetString("user_id"),
			"organization_id": c.GetString("organization_id"),
			"role":            c.GetString("role"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	r := authRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "40100")
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	r := authRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "40102")
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"uid": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	r := authRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthSetsContext(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"uid":  "u1",
		"org":  "o1",
		"role": entity.RoleManager,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	r := authRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, w.Body.String(), `"organization_id":"o1"`)
}

func TestJWTAuthAcceptsQueryToken(t *testing.T) {
	// download links cannot set headers
	token := signToken(t, jwt.MapClaims{
		"uid": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	r := authRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, RoleAllowed(entity.RoleAdmin, "manage_users"))
	assert.False(t, RoleAllowed(entity.RoleManager, "manage_users"))

	assert.True(t, RoleAllowed(entity.RoleManager, "manage_inventory"))
	assert.True(t, RoleAllowed(entity.RoleManager, "view_reports"))
	assert.False(t, RoleAllowed(entity.RoleTechnician, "manage_inventory"))

	assert.True(t, RoleAllowed(entity.RoleReceptionist, "create_sessions"))
	assert.False(t, RoleAllowed(entity.RoleTechnician, "create_sessions"))
	assert.True(t, RoleAllowed(entity.RoleTechnician, "modify_sessions"))
	assert.False(t, RoleAllowed(entity.RoleReceptionist, "modify_sessions"))

	assert.False(t, RoleAllowed(entity.RoleAdmin, "unknown_capability"))
}

func TestCapabilities(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"manage_users", "manage_inventory", "view_reports", "create_sessions", "modify_sessions"},
		Capabilities(entity.RoleAdmin))
	assert.ElementsMatch(t, []string{"modify_sessions"}, Capabilities(entity.RoleTechnician))
	assert.Empty(t, Capabilities("owner"))
}

func TestRequireCapability(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"uid":  "u1",
		"role": entity.RoleTechnician,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	r := authRouter(RequireCapability("manage_inventory"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "40302")
}

func TestRequireRoleAdminAlwaysPasses(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"uid":  "u1",
		"role": entity.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	r := authRouter(RequireRole(entity.RoleManager))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejectsOthers(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"uid":  "u1",
		"role": entity.RoleReceptionist,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	r := authRouter(RequireRole(entity.RoleManager))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "40312")
}
