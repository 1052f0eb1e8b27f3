package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, fn http.HandlerFunc) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestHealthAndLive(t *testing.T) {
	h := NewHandler()

	code, resp := serve(t, h.Health)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Uptime)

	code, resp = serve(t, h.Live)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "live", resp.Status)
}

func TestReady(t *testing.T) {
	running := true
	size := 3

	h := NewHandler()
	h.RegisterChecker(NewRunningChecker("session", func() bool { return running }))
	h.RegisterChecker(NewCatalogChecker(func() int { return size }))

	code, resp := serve(t, h.Ready)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, map[string]string{"session": "ok", "catalog": "ok"}, resp.Checks)

	running = false
	size = 0
	code, resp = serve(t, h.Ready)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "session not running", resp.Checks["session"])
	assert.Equal(t, "catalog is empty", resp.Checks["catalog"])
}

func TestCheckersWithoutSource(t *testing.T) {
	assert.Error(t, NewRunningChecker("feed", nil).Check(t.Context()))
	assert.Error(t, NewCatalogChecker(nil).Check(t.Context()))
}

func TestReadyWithoutCheckers(t *testing.T) {
	code, resp := serve(t, NewHandler().Ready)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", resp.Status)
}
