package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pagocadm-web/redimi-loyalty/internal/config"
	"github.com/pagocadm-web/redimi-loyalty/internal/middleware"
	"github.com/pagocadm-web/redimi-loyalty/internal/repository"
	"github.com/pagocadm-web/redimi-loyalty/internal/service"
)

type testApp struct {
	app   *fiber.App
	store *repository.Memory
	token string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
	}

	store := repository.NewMemory()
	vendorSvc := service.NewVendorService(store)
	customerSvc := service.NewCustomerService(store)
	settingsSvc := service.NewSettingsService(store)
	ledgerSvc := service.NewLedgerService(store, settingsSvc, zap.NewNop())

	h := New(cfg, vendorSvc, customerSvc, ledgerSvc, settingsSvc, store, zap.NewNop())

	app := fiber.New()
	app.Get("/health", h.Health)
	app.Post("/api/auth/login", h.Login)

	api := app.Group("/api", middleware.VendorAuth(cfg))
	api.Get("/auth/me", h.Me)
	api.Get("/customers", h.GetCustomers)
	api.Post("/customers", h.CreateCustomer)
	api.Get("/transactions", h.GetTransactions)
	api.Post("/transactions/earn", h.Earn)
	api.Post("/transactions/redeem", h.Redeem)
	api.Get("/stats", h.GetStats)
	api.Get("/settings", h.GetSettings)
	api.Put("/settings", h.UpdateSettings)
	api.Post("/settings/branches", h.AddBranch)
	api.Get("/events", h.GetEvents)

	_, err := vendorSvc.CreateVendor(context.Background(), "cafe", "cafe@example.com", "secret123")
	require.NoError(t, err)

	ta := &testApp{app: app, store: store}
	ta.token = ta.login(t, "cafe", "secret123")
	return ta
}

func (ta *testApp) login(t *testing.T, username, password string) string {
	t.Helper()

	resp := ta.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (ta *testApp) request(t *testing.T, method, path string, payload any, token string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (ta *testApp) createCustomer(t *testing.T, name string) string {
	t.Helper()

	resp := ta.request(t, http.MethodPost, "/api/customers", map[string]any{
		"name":     name,
		"whatsapp": "+549110000",
	}, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var customer struct {
		ID string `json:"id"`
	}
	decode(t, resp, &customer)
	return customer.ID
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "cafe",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutesRequireAuth(t *testing.T) {
	ta := newTestApp(t)

	for _, path := range []string{"/api/customers", "/api/transactions", "/api/settings"} {
		resp := ta.request(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestEarnRedeemFlow(t *testing.T) {
	ta := newTestApp(t)
	customerID := ta.createCustomer(t, "Maria")

	// earn: floor(2000 * 0.05) = 100
	resp := ta.request(t, http.MethodPost, "/api/transactions/earn", map[string]any{
		"customer_id": customerID,
		"amount":      2000,
	}, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var earn struct {
		Type         string `json:"type"`
		Points       int    `json:"points"`
		CustomerName string `json:"customer_name"`
	}
	decode(t, resp, &earn)
	assert.Equal(t, "EARN", earn.Type)
	assert.Equal(t, 100, earn.Points)
	assert.Equal(t, "Maria", earn.CustomerName)

	// redeem within balance
	resp = ta.request(t, http.MethodPost, "/api/transactions/redeem", map[string]any{
		"customer_id": customerID,
		"points":      40,
	}, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// redeem beyond balance
	resp = ta.request(t, http.MethodPost, "/api/transactions/redeem", map[string]any{
		"customer_id": customerID,
		"points":      61,
	}, ta.token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// ledger lists both transactions, newest first
	resp = ta.request(t, http.MethodGet, "/api/transactions", nil, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var transactions []struct {
		Type string `json:"type"`
	}
	decode(t, resp, &transactions)
	require.Len(t, transactions, 2)
	assert.Equal(t, "REDEEM", transactions[0].Type)
	assert.Equal(t, "EARN", transactions[1].Type)

	// stats reconcile
	resp = ta.request(t, http.MethodGet, "/api/stats", nil, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		TotalCustomers      int `json:"total_customers"`
		TotalPointsIssued   int `json:"total_points_issued"`
		TotalPointsRedeemed int `json:"total_points_redeemed"`
	}
	decode(t, resp, &stats)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.Equal(t, 100, stats.TotalPointsIssued)
	assert.Equal(t, 40, stats.TotalPointsRedeemed)
}

func TestEarnRejectsBadInput(t *testing.T) {
	ta := newTestApp(t)
	customerID := ta.createCustomer(t, "Maria")

	resp := ta.request(t, http.MethodPost, "/api/transactions/earn", map[string]any{
		"customer_id": customerID,
		"amount":      0,
	}, ta.token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/transactions/earn", map[string]any{
		"customer_id": "not-a-uuid",
		"amount":      100,
	}, ta.token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEarnUnknownCustomerIs404(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodPost, "/api/transactions/earn", map[string]any{
		"customer_id": "00000000-0000-0000-0000-000000000001",
		"amount":      100,
	}, ta.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSettingsEndpoints(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodGet, "/api/settings", nil, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var settings struct {
		Rate      float64  `json:"rate"`
		Franchise string   `json:"franchise"`
		Branches  []string `json:"branches"`
	}
	decode(t, resp, &settings)
	assert.Equal(t, 0.05, settings.Rate)
	assert.Equal(t, "Main Store", settings.Franchise)

	// add a branch and make it active
	resp = ta.request(t, http.MethodPost, "/api/settings/branches", map[string]any{
		"name": "Downtown",
	}, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodPut, "/api/settings", map[string]any{
		"rate":      0.1,
		"franchise": "Downtown",
	}, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &settings)
	assert.Equal(t, 0.1, settings.Rate)
	assert.Equal(t, "Downtown", settings.Franchise)
	assert.Equal(t, []string{"Main Store", "Downtown"}, settings.Branches)

	// unknown branch names are rejected, not ignored
	resp = ta.request(t, http.MethodPut, "/api/settings", map[string]any{
		"franchise": "Nowhere",
	}, ta.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventsListed(t *testing.T) {
	ta := newTestApp(t)
	customerID := ta.createCustomer(t, "Maria")

	resp := ta.request(t, http.MethodPost, "/api/transactions/earn", map[string]any{
		"customer_id": customerID,
		"amount":      100,
	}, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, "/api/events", nil, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	decode(t, resp, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "WHATSAPP", events[0].Type)
	assert.Contains(t, events[0].Message, "Maria")
}

func TestPasswordChangeThroughSettings(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, http.MethodPut, "/api/settings", map[string]any{
		"password": "newsecret",
	}, ta.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "cafe",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	ta.login(t, "cafe", "newsecret")
}
