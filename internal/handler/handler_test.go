package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/middleware"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
	"github.com/husainf4l/gixat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupDB()
	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, nil, testutil.Logger(), testutil.Config())
	h := NewHandlers(services)

	r := gin.New()
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(testutil.TestJWTSecret))
	{
		authorized.GET("/auth/me", h.Auth.Me)
		authorized.DELETE("/organization", middleware.RequireCapability("manage_users"), h.Auth.CloseOrganization)

		clients := authorized.Group("/clients")
		{
			clients.GET("", h.Client.List)
			clients.POST("", h.Client.Create)
			clients.GET("/:id", h.Client.Get)
			clients.PUT("/:id", h.Client.Update)
			clients.DELETE("/:id", middleware.RequireRole(entity.RoleManager), h.Client.Delete)
		}
		authorized.POST("/intake", middleware.RequireCapability("create_sessions"), h.Client.Intake)

		sessions := authorized.Group("/sessions")
		{
			sessions.GET("", h.Session.List)
			sessions.POST("", middleware.RequireCapability("create_sessions"), h.Session.Create)
			sessions.GET("/:id", h.Session.Get)
			sessions.PUT("/:id", middleware.RequireCapability("modify_sessions"), h.Session.Update)
		}

		inventory := authorized.Group("/inventory")
		inventory.Use(middleware.RequireCapability("manage_inventory"))
		{
			inventory.GET("", h.Inventory.List)
			inventory.POST("", h.Inventory.Create)
		}

		authorized.GET("/dashboard", h.Report.Dashboard)
	}
	return db, r
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	_, r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/v1/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClientCRUDOverHTTP(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	token := testutil.Token(admin)

	w := doJSON(r, http.MethodPost, "/api/v1/clients", token, gin.H{
		"first_name": "Omar",
		"last_name":  "Nasser",
		"phone":      "+971500000001",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := envelope(t, w)
	assert.Equal(t, 0, resp.Code)
	created := resp.Data.(map[string]interface{})
	clientID := created["id"].(string)

	w = doJSON(r, http.MethodGet, "/api/v1/clients/"+clientID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/v1/clients/"+clientID, token, gin.H{
		"address": "Dubai Industrial City",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/clients", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = envelope(t, w)
	list := resp.Data.(map[string]interface{})
	assert.NotNil(t, list["pagination"])
	assert.Len(t, list["items"], 1)

	w = doJSON(r, http.MethodDelete, "/api/v1/clients/"+clientID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestClientGetMissingReturns404Envelope(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)

	w := doJSON(r, http.MethodGet, "/api/v1/clients/nope", testutil.Token(admin), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := envelope(t, w)
	assert.Equal(t, 40400, resp.Code)
}

func TestCloseOrganizationOverHTTP(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	manager := testutil.CreateUser(db, org.ID, "mgr@a.test", entity.RoleManager)
	testutil.CreateClient(db, org.ID)

	// closing the tenant is admin-only
	w := doJSON(r, http.MethodDelete, "/api/v1/organization", testutil.Token(manager), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/organization", testutil.Token(admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&entity.Organization{}).Where("id = ?", org.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&entity.Client{}).Where("organization_id = ?", org.ID).Count(&count)
	assert.Zero(t, count)
}

func TestSessionUpdateUnknownTechnicianReturns404(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)
	session := testutil.CreateSession(db, org.ID, car.ID, tech.ID, "SES20260830001", "scheduled")

	// an assignment to a nonexistent technician is a client error, not a 500
	w := doJSON(r, http.MethodPut, "/api/v1/sessions/"+session.ID, testutil.Token(admin), gin.H{
		"technician_id": "00000000-0000-0000-0000-000000000000",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := envelope(t, w)
	assert.Equal(t, 40400, resp.Code)
	assert.Equal(t, "technician not found", resp.Message)
}

func TestClientCreateRejectsMissingFields(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)

	w := doJSON(r, http.MethodPost, "/api/v1/clients", testutil.Token(admin), gin.H{
		"first_name": "Omar",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := envelope(t, w)
	assert.Equal(t, 40000, resp.Code)
}

func TestTechnicianCannotTouchInventory(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	manager := testutil.CreateUser(db, org.ID, "mgr@a.test", entity.RoleManager)

	w := doJSON(r, http.MethodGet, "/api/v1/inventory", testutil.Token(tech), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/inventory", testutil.Token(manager), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTechnicianCannotIntake(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)

	w := doJSON(r, http.MethodPost, "/api/v1/intake", testutil.Token(tech), gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReceptionistIntakeOverHTTP(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	reception := testutil.CreateUser(db, org.ID, "desk@a.test", entity.RoleReceptionist)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)

	w := doJSON(r, http.MethodPost, "/api/v1/intake", testutil.Token(reception), gin.H{
		"client": gin.H{
			"first_name": "Omar",
			"last_name":  "Nasser",
			"phone":      "+971500000001",
		},
		"car": gin.H{
			"make":          "Nissan",
			"model":         "Patrol",
			"year":          2022,
			"license_plate": "D-12345",
		},
		"technician_id": tech.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var count int64
	db.Model(&entity.Session{}).Where("organization_id = ?", org.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTenantsAreIsolatedOverHTTP(t *testing.T) {
	db, r := newTestRouter(t)
	orgA := testutil.CreateOrganization(db, "Garage A")
	orgB := testutil.CreateOrganization(db, "Garage B")
	adminB := testutil.CreateUser(db, orgB.ID, "admin@b.test", entity.RoleAdmin)
	client := testutil.CreateClient(db, orgA.ID)

	w := doJSON(r, http.MethodGet, "/api/v1/clients/"+client.ID, testutil.Token(adminB), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardOverHTTP(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)

	w := doJSON(r, http.MethodGet, "/api/v1/dashboard", testutil.Token(admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := envelope(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Contains(t, data, "cars_in_garage")
	assert.Contains(t, data, "stats")
}

func TestAuthMeOverHTTP(t *testing.T) {
	db, r := newTestRouter(t)
	org := testutil.CreateOrganization(db, "Garage A")
	manager := testutil.CreateUser(db, org.ID, "mgr@a.test", entity.RoleManager)

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", testutil.Token(manager), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := envelope(t, w)
	data := resp.Data.(map[string]interface{})
	perms, ok := data["permissions"].([]interface{})
	require.True(t, ok, "permissions missing in %v", data)
	assert.Contains(t, perms, "manage_inventory")
}
