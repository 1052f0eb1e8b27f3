package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/cyberguard/internal/api/health"
	"github.com/good-yellow-bee/cyberguard/internal/catalog"
	"github.com/good-yellow-bee/cyberguard/internal/dashboard"
)

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func testServer(t *testing.T, start bool) (*Server, *dashboard.Session) {
	t.Helper()

	session, err := dashboard.New(dashboard.Config{}, nil, nil, nil, clockwork.NewFakeClock(), zeroRand{})
	require.NoError(t, err)
	if start {
		require.NoError(t, session.Start())
	}
	t.Cleanup(session.Stop)

	srv, err := New(&Config{Address: ":0"}, session, nil)
	require.NoError(t, err)
	return srv, session
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)

	_, err = New(&Config{}, nil, nil)
	assert.Error(t, err)
}

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 30, cfg.AnalysisRateLimit)
	assert.NotZero(t, cfg.ToolTimeout)
	assert.NotZero(t, cfg.StreamHeartbeat)
	assert.NotZero(t, cfg.StreamMaxDuration)
}

func TestReadiness(t *testing.T) {
	srv, session := testServer(t, false)

	rec := do(t, srv, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, session.Start())
	rec = do(t, srv, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp health.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Checks["session"])
	assert.Equal(t, "ok", resp.Checks["threat_feed"])
	assert.Equal(t, "ok", resp.Checks["catalog"])

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health/live", "").Code)
}

func TestAlertsRoundTrip(t *testing.T) {
	srv, _ := testServer(t, true)

	var list struct {
		Data struct {
			Alerts []struct {
				ID int64 `json:"id"`
			} `json:"alerts"`
		} `json:"data"`
	}
	rec := do(t, srv, http.MethodGet, "/api/v1/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Data.Alerts, len(catalog.Default().SeedAlerts))

	first := list.Data.Alerts[0].ID
	rec = do(t, srv, http.MethodDelete, "/api/v1/alerts/"+jsonNumber(first), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/alerts", "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list.Data.Alerts, len(catalog.Default().SeedAlerts)-1)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestThreatTypes(t *testing.T) {
	srv, _ := testServer(t, true)

	rec := do(t, srv, http.MethodGet, "/api/v1/threats/types", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Types []string `json:"types"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Data.Types)
	assert.Equal(t, "All", resp.Data.Types[0])

	rec = do(t, srv, http.MethodGet, "/api/v1/threats?severity=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationPanelClosesOnOutsidePointer(t *testing.T) {
	srv, session := testServer(t, true)

	rec := do(t, srv, http.MethodPost, "/api/v1/notifications/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, session.Notifications.IsOpen())

	rec = do(t, srv, http.MethodPost, "/api/v1/notifications/pointer", `{"target":"`+dashboard.PanelElementID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, session.Notifications.IsOpen())

	rec = do(t, srv, http.MethodPost, "/api/v1/notifications/pointer", `{"target":"main-content"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, session.Notifications.IsOpen())
}

func TestAnalysisAndActions(t *testing.T) {
	srv, _ := testServer(t, true)

	rec := do(t, srv, http.MethodPost, "/api/v1/analysis/url", `{"input":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/analysis/url", `{"input":"https://example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/actions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCharts(t *testing.T) {
	srv, _ := testServer(t, true)

	rec := do(t, srv, http.MethodGet, "/api/v1/dashboard/charts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data catalog.Charts `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, catalog.Default().Charts, resp.Data)
}

func TestAuthStubs(t *testing.T) {
	srv, _ := testServer(t, false)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/auth/login", `{"username":"u","password":"p"}`).Code)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPost, "/api/v1/auth/logout", "").Code)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := testServer(t, false)

	rec := do(t, srv, http.MethodGet, "/api/v1/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Content-Type-Options"))
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t, false)

	rec := do(t, srv, http.MethodPut, "/api/v1/alerts", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
