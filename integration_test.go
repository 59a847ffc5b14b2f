package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tableserve/tableserve/config"
	"github.com/tableserve/tableserve/models"
	"github.com/tableserve/tableserve/router"
	"github.com/tableserve/tableserve/server"
	"github.com/tableserve/tableserve/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func integrationConfig() *config.Config {
	return &config.Config{
		AppEnv:            "development",
		JWTSecret:         "integration-test-secret",
		JWTExpiry:         time.Hour,
		CORSOrigins:       []string{"http://localhost:5173"},
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		QRBaseURL:         "http://localhost:5173",
		QRTableParam:      "table",
	}
}

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Admin{}, &models.MenuItem{}, &models.Order{}))
	return db
}

func request(r *router.Router, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// TestOrderLifecycle drives the whole stack end to end: a guest browses
// the menu and places an order, staff log in and walk the order through
// every kitchen state, then read the analytics that the day produced.
func TestOrderLifecycle(t *testing.T) {
	db := integrationDB(t)
	cfg := integrationConfig()
	r := server.SetupRouter(db, cfg)

	hash, err := bcrypt.GenerateFromPassword([]byte("swordfish"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{
		Email:        "owner@bar.test",
		PasswordHash: string(hash),
		Name:         "Owner",
		Role:         "admin",
	}).Error)
	require.NoError(t, db.Create(&models.MenuItem{
		Name:            "House Lager",
		Category:        "Drinks",
		Price:           5.00,
		Available:       true,
		PreparationTime: 2,
	}).Error)

	// Health check is open.
	w := request(r, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", parse(t, w)["status"])

	// Guest browses the menu.
	w = request(r, http.MethodGet, "/api/menu", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := parse(t, w)
	assert.Equal(t, true, body["success"])
	menuData := body["data"].(map[string]interface{})
	assert.Len(t, menuData["items"], 1)

	// Guest places an order.
	w = request(r, http.MethodPost, "/api/order", map[string]interface{}{
		"tableNumber": "T05",
		"items": []interface{}{
			map[string]interface{}{
				"menuItemId": "1",
				"name":       "House Lager",
				"price":      5.00,
				"quantity":   2,
			},
		},
		"subtotal": 10.00,
		"tax":      0.80,
		"total":    10.80,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body = parse(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order placed successfully", body["message"])
	orderData := body["data"].(map[string]interface{})
	order := orderData["order"].(map[string]interface{})
	orderID := order["id"].(float64)
	assert.Equal(t, models.StatusPending, order["status"])
	assert.Equal(t, float64(5), orderData["estimatedWaitTime"])

	// Admin endpoints are closed without a token.
	w = request(r, http.MethodGet, "/api/admin/orders", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Staff log in.
	w = request(r, http.MethodPost, "/api/admin/login", map[string]interface{}{
		"email":    "owner@bar.test",
		"password": "swordfish",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := parse(t, w)["data"].(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)

	// The order walks through the kitchen.
	orderPath := fmt.Sprintf("/api/admin/orders/%.0f", orderID)
	for _, status := range []string{
		models.StatusConfirmed,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusDelivered,
	} {
		w = request(r, http.MethodPatch, orderPath, map[string]interface{}{"status": status}, token)
		require.Equal(t, http.StatusOK, w.Code, "transition to %s: %s", status, w.Body.String())
		body = parse(t, w)
		assert.Equal(t, status, body["data"].(map[string]interface{})["status"])
	}

	// Delivered orders leave the queue.
	w = request(r, http.MethodGet, "/api/order/wait-time", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	waitData := parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), waitData["queueDepth"])
	assert.Equal(t, float64(5), waitData["waitTime"])

	// The day's numbers reflect the delivered order.
	w = request(r, http.MethodGet, "/api/admin/analytics", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	dash := parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), dash["pendingOrders"])
	assert.Equal(t, float64(1), dash["completedToday"])
	assert.Equal(t, 10.80, dash["totalRevenue"])

	// Staff identity survives the session.
	w = request(r, http.MethodGet, "/api/admin/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	me := parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "owner@bar.test", me["email"])
}

func TestSecurityAndRateHeadersOnPublicRoutes(t *testing.T) {
	db := integrationDB(t)
	r := server.SetupRouter(db, integrationConfig())

	w := request(r, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "1000", w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestUnknownRouteEnvelope(t *testing.T) {
	db := integrationDB(t)
	r := server.SetupRouter(db, integrationConfig())

	w := request(r, http.MethodGet, "/api/nope", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	body := parse(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])

	// A known path with the wrong verb is a 405, not a 404.
	w = request(r, http.MethodDelete, "/api/menu", nil, "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
