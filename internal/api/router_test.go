package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehatsathi/inventory-api/internal/core/service"
	"github.com/sehatsathi/inventory-api/internal/infrastructure/db/redis"
	"github.com/sehatsathi/inventory-api/internal/infrastructure/db/sqlstore"
	"github.com/sehatsathi/inventory-api/internal/infrastructure/http/handlers"
)

type testServer struct {
	e         *echo.Echo
	dashboard *service.DashboardService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:     sqlstore.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlstore.Close(db) })

	mr := miniredis.RunT(t)
	rdb, err := redis.Connect(ctx, redis.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.Nop()
	identities := sqlstore.NewIdentityRepository(db)
	stocks := sqlstore.NewStockRepository(db)
	tokens := service.NewTokenService("router-test-secret", time.Hour)
	dashboard := service.NewDashboardService(identities, stocks, redis.NewSnapshotStore(rdb), service.DashboardOptions{}, log)

	require.NoError(t, service.NewSeeder(identities, stocks, log).EnsureAdmin(ctx, "admin", "admin@sehatsathi.gov.in", "admin123"))

	e := NewRouter(Deps{
		Auth:      service.NewAuthService(identities, tokens, log),
		Tokens:    tokens,
		Approvals: service.NewApprovalService(identities, log),
		Stock:     service.NewStockService(identities, stocks, redis.NewIdempotencyStore(rdb), log),
		Dashboard: dashboard,
		Readiness: map[string]handlers.Pinger{
			"database": sqlstore.NewPinger(db),
			"redis":    redis.NewPinger(rdb),
		},
		Registry: prometheus.NewRegistry(),
		Logger:   log,
	})
	return &testServer{e: e, dashboard: dashboard}
}

func (s *testServer) do(t *testing.T, method, path, token, body string, headers ...string) (int, map[string]any, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	raw := rec.Body.String()
	var obj map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &obj)
	return rec.Code, obj, raw
}

func (s *testServer) login(t *testing.T, path, username, password string) string {
	t.Helper()
	code, body, raw := s.do(t, http.MethodPost, path, "", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	require.Equal(t, http.StatusOK, code, raw)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func stockBody(medicine string, qty int) string {
	expiry := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	return fmt.Sprintf(`{"medicine_name":%q,"quantity":%d,"price":25.5,"expiry_date":%q,"batch_number":"BATCH1001"}`, medicine, qty, expiry)
}

func TestRouter_ApprovalWorkflow(t *testing.T) {
	s := newTestServer(t)

	// A pharmacy registers and is pending.
	code, body, raw := s.do(t, http.MethodPost, "/api/auth/register", "",
		`{"username":"p1","email":"p1@example.com","password":"pass123","user_type":"pharmacy","pharmacy_name":"P One","address":"MG Road"}`)
	require.Equal(t, http.StatusCreated, code, raw)
	assert.Equal(t, true, body["requires_approval"])

	// Strict login refuses, permissive login reports the state.
	code, body, _ = s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"p1","password":"pass123"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NOT_APPROVED", body["code"])

	code, body, raw = s.do(t, http.MethodPost, "/login", "", `{"username":"p1","password":"pass123"}`)
	require.Equal(t, http.StatusOK, code, raw)
	assert.Equal(t, "pharmacy", body["role"])
	user := body["user"].(map[string]any)
	assert.Equal(t, false, user["is_approved"])
	pharmacyToken := body["access_token"].(string)
	pharmacyID := user["id"].(string)

	// The unapproved pharmacy can read but not write.
	code, _, raw = s.do(t, http.MethodGet, "/api/pharmacy/stocks", pharmacyToken, "")
	require.Equal(t, http.StatusOK, code, raw)
	assert.JSONEq(t, `[]`, raw)

	code, body, _ = s.do(t, http.MethodPost, "/api/pharmacy/stocks", pharmacyToken, stockBody("Paracetamol 500mg", 30))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "APPROVAL_REQUIRED", body["code"])

	// The pharmacy may not approve itself.
	code, body, _ = s.do(t, http.MethodPost, "/api/users/"+pharmacyID+"/approve", pharmacyToken, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "ACCESS_DENIED", body["code"])

	// Admin approves; the same token can now write.
	adminToken := s.login(t, "/api/auth/login", "admin", "admin123")

	code, _, raw = s.do(t, http.MethodGet, "/api/users/pending", adminToken, "")
	require.Equal(t, http.StatusOK, code, raw)
	assert.Contains(t, raw, `"username":"p1"`)

	code, _, raw = s.do(t, http.MethodPost, "/api/users/"+pharmacyID+"/approve", adminToken, "")
	require.Equal(t, http.StatusOK, code, raw)

	code, body, raw = s.do(t, http.MethodPost, "/api/pharmacy/stocks", pharmacyToken, stockBody("Paracetamol 500mg", 30))
	require.Equal(t, http.StatusCreated, code, raw)
	assert.NotEmpty(t, body["id"])

	// Once approved, strict login succeeds and reports the role.
	code, body, raw = s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"p1","password":"pass123"}`)
	require.Equal(t, http.StatusOK, code, raw)
	assert.Equal(t, "pharmacy", body["role"])
	assert.NotContains(t, body["user"].(map[string]any), "is_approved")

	code, _, _ = s.do(t, http.MethodPost, "/api/users/"+uuid.NewString()+"/approve", adminToken, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _, raw = s.do(t, http.MethodGet, "/api/admin/all-stocks", adminToken, "")
	require.Equal(t, http.StatusOK, code, raw)
	assert.Contains(t, raw, `"pharmacy_name":"P One"`)
	assert.Contains(t, raw, `"expiry_date":"`)
}

func TestRouter_DashboardAggregates(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "/api/auth/login", "admin", "admin123")

	var tokens []string
	for _, name := range []string{"a", "b"} {
		code, _, raw := s.do(t, http.MethodPost, "/api/auth/register", "",
			fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"pw","user_type":"pharmacy","pharmacy_name":"Pharmacy %s"}`, name, name, name))
		require.Equal(t, http.StatusCreated, code, raw)

		code, body, _ := s.do(t, http.MethodPost, "/login", "", fmt.Sprintf(`{"username":%q,"password":"pw"}`, name))
		require.Equal(t, http.StatusOK, code)
		id := body["user"].(map[string]any)["id"].(string)
		tokens = append(tokens, body["access_token"].(string))

		code, _, _ = s.do(t, http.MethodPost, "/api/users/"+id+"/approve", adminToken, "")
		require.Equal(t, http.StatusOK, code)
	}

	code, _, raw := s.do(t, http.MethodPost, "/api/pharmacy/stocks", tokens[0], stockBody("Paracetamol 500mg", 30))
	require.Equal(t, http.StatusCreated, code, raw)
	code, _, raw = s.do(t, http.MethodPost, "/api/pharmacy/stocks", tokens[1], stockBody("Paracetamol 500mg", 70))
	require.Equal(t, http.StatusCreated, code, raw)

	code, body, raw := s.do(t, http.MethodGet, "/api/government/dashboard", adminToken, "")
	require.Equal(t, http.StatusOK, code, raw)

	stats := body["statistics"].(map[string]any)
	assert.EqualValues(t, 2, stats["total_pharmacies"])
	assert.EqualValues(t, 0, stats["pending_approvals"])
	assert.EqualValues(t, 2, stats["total_medicines"])
	assert.EqualValues(t, 1, stats["low_stock_count"])

	top := body["top_medicines"].([]any)
	require.Len(t, top, 1)
	first := top[0].(map[string]any)
	assert.EqualValues(t, 100, first["total_quantity"])
	assert.EqualValues(t, 2, first["pharmacy_count"])

	code, _, _ = s.do(t, http.MethodGet, "/api/government/dashboard", tokens[0], "")
	assert.Equal(t, http.StatusForbidden, code)

	// The analytics snapshot is empty until the refresher runs.
	code, _, _ = s.do(t, http.MethodGet, "/api/government/analytics", adminToken, "")
	assert.Equal(t, http.StatusNotFound, code)

	_, err := s.dashboard.RefreshSnapshot(context.Background())
	require.NoError(t, err)

	code, body, raw = s.do(t, http.MethodGet, "/api/government/analytics", adminToken, "")
	require.Equal(t, http.StatusOK, code, raw)
	assert.EqualValues(t, 2, body["total_pharmacies"])
	assert.EqualValues(t, 2, body["total_medicines"])
}

func TestRouter_IdempotentStockAdd(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "/api/auth/login", "admin", "admin123")

	code, body, raw := s.do(t, http.MethodPost, "/pharmacy/signup", "", `{"name":"City Pharmacy","email":"city@example.com","license":"DL-1","location":"Pune"}`)
	require.Equal(t, http.StatusOK, code, raw)
	creds := body["credentials"].(map[string]any)
	assert.Equal(t, "city_pharmacy", creds["username"])
	password, _ := creds["password"].(string)
	require.NotEmpty(t, password, "a generated password is echoed")

	code, body, _ = s.do(t, http.MethodPost, "/login", "", fmt.Sprintf(`{"username":"city_pharmacy","password":%q}`, password))
	require.Equal(t, http.StatusOK, code)
	token := body["access_token"].(string)
	id := body["user"].(map[string]any)["id"].(string)

	code, _, _ = s.do(t, http.MethodPost, "/api/users/"+id+"/approve", adminToken, "")
	require.Equal(t, http.StatusOK, code)

	code, first, raw := s.do(t, http.MethodPost, "/api/pharmacy/stocks", token, stockBody("Dolo 650", 12), "Idempotency-Key", "req-1")
	require.Equal(t, http.StatusCreated, code, raw)
	code, second, raw := s.do(t, http.MethodPost, "/api/pharmacy/stocks", token, stockBody("Dolo 650", 12), "Idempotency-Key", "req-1")
	require.Equal(t, http.StatusOK, code, raw)
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, true, second["replayed"])

	code, _, raw = s.do(t, http.MethodGet, "/api/pharmacy/stocks", token, "")
	require.Equal(t, http.StatusOK, code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &rows))
	assert.Len(t, rows, 1)
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     string
		wantCode int
		wantErr  string
	}{
		{"missing token", http.MethodGet, "/api/pharmacy/stocks", "", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", http.MethodGet, "/api/pharmacy/stocks", "not-a-jwt", "", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"bad credentials", http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown user", http.MethodPost, "/login", "", `{"username":"ghost","password":"nope"}`, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"bad role", http.MethodPost, "/api/auth/register", "", `{"username":"x","email":"x@example.com","password":"p","user_type":"superuser"}`, http.StatusUnprocessableEntity, "INVALID_IDENTITY"},
		{"missing email", http.MethodPost, "/api/auth/register", "", `{"username":"x","password":"p","user_type":"pharmacy"}`, http.StatusUnprocessableEntity, "INVALID_IDENTITY"},
		{"duplicate", http.MethodPost, "/api/auth/register", "", `{"username":"admin","email":"other@example.com","password":"p","user_type":"pharmacy"}`, http.StatusConflict, "DUPLICATE_IDENTITY"},
		{"malformed json", http.MethodPost, "/api/auth/register", "", `{`, http.StatusBadRequest, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, raw := s.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantCode, code, raw)
			assert.Equal(t, tt.wantErr, body["code"], raw)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRouter_HealthAndRoot(t *testing.T) {
	s := newTestServer(t)

	code, body, _ := s.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SehatSathi API is running", body["message"])

	code, _, _ = s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, body, raw := s.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, code, raw)
	assert.Equal(t, "ok", body["status"])

	code, _, raw = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, raw, "http_requests_total")
}
