package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/cyberguard/internal/models"
	"github.com/good-yellow-bee/cyberguard/internal/scanner"
)

type stubAnalyzer struct {
	level   models.RiskLevel
	started chan struct{}
	release chan struct{}
}

func (a *stubAnalyzer) wait() {
	if a.started != nil {
		a.started <- struct{}{}
	}
	if a.release != nil {
		<-a.release
	}
}

func (a *stubAnalyzer) AnalyzeURL(_ context.Context, url string) models.AnalysisResult {
	a.wait()
	return models.AnalysisResult{RiskLevel: a.level, Summary: "url " + url}
}

func (a *stubAnalyzer) AnalyzePassword(_ context.Context, password string) models.PasswordStrengthResult {
	return models.PasswordStrengthResult{Score: 72, Explanation: "ok", Suggestions: []string{}}
}

func (a *stubAnalyzer) AnalyzeFile(_ context.Context, filename string) models.AnalysisResult {
	return models.AnalysisResult{RiskLevel: a.level, Summary: "file " + filename}
}

func (a *stubAnalyzer) AnalyzeFileHash(_ context.Context, hash string) models.AnalysisResult {
	return models.AnalysisResult{RiskLevel: a.level, Summary: "hash " + hash}
}

type fixedRand int

func (r fixedRand) IntN(int) int { return int(r) }

func newRouter(a *stubAnalyzer) http.Handler {
	sc := scanner.New(a, scanner.Config{LeakDelay: time.Millisecond}, nil, fixedRand(1), nil, nil)
	h := NewHandler(sc, time.Second, nil)
	r := chi.NewRouter()
	r.Post("/analysis/url", h.URL)
	r.Post("/analysis/password", h.Password)
	r.Post("/analysis/file", h.File)
	r.Post("/analysis/hash", h.Hash)
	r.Post("/analysis/leak", h.Leak)
	r.Get("/analysis/status", h.Status)
	r.Get("/actions", h.Actions)
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	resp := struct {
		Data any `json:"data"`
	}{Data: v}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error.Code
}

func TestURL(t *testing.T) {
	rec := post(t, newRouter(&stubAnalyzer{level: models.RiskMedium}), "/analysis/url", `{"input":" https://example.com "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.AnalysisResult
	decodeData(t, rec, &result)
	assert.Equal(t, models.RiskMedium, result.RiskLevel)
	assert.Equal(t, "url https://example.com", result.Summary)
}

func TestValidation(t *testing.T) {
	h := newRouter(&stubAnalyzer{level: models.RiskLow})

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode string
	}{
		{name: "empty url", path: "/analysis/url", body: `{"input":"   "}`, wantCode: errCodeValidationFailed},
		{name: "missing input", path: "/analysis/hash", body: `{}`, wantCode: errCodeValidationFailed},
		{name: "empty password", path: "/analysis/password", body: `{"input":""}`, wantCode: errCodeValidationFailed},
		{name: "malformed body", path: "/analysis/file", body: `{"input":`, wantCode: errCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestPasswordIncludesStrength(t *testing.T) {
	rec := post(t, newRouter(&stubAnalyzer{}), "/analysis/password", `{"input":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PasswordResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, 72, resp.Score)
	assert.Equal(t, "Strong", resp.Strength)
	assert.NotNil(t, resp.Suggestions)
}

func TestFileScanRecordsAction(t *testing.T) {
	h := newRouter(&stubAnalyzer{level: models.RiskCritical})

	rec := post(t, h, "/analysis/file", `{"input":"invoice.pdf.exe"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report scanner.ScanReport
	decodeData(t, rec, &report)
	require.NotNil(t, report.Alert)
	require.NotNil(t, report.Action)
	assert.Equal(t, models.RiskCritical, report.Alert.Level)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var actions struct {
		Actions []models.AutomatedAction `json:"actions"`
	}
	decodeData(t, rec, &actions)
	require.Len(t, actions.Actions, 1)
	assert.Equal(t, report.Action.ID, actions.Actions[0].ID)
}

func TestHashLowRiskHasNoAction(t *testing.T) {
	rec := post(t, newRouter(&stubAnalyzer{level: models.RiskLow}), "/analysis/hash", `{"input":"abc123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report scanner.ScanReport
	decodeData(t, rec, &report)
	assert.Nil(t, report.Alert)
	assert.Nil(t, report.Action)
}

func TestLeak(t *testing.T) {
	rec := post(t, newRouter(&stubAnalyzer{}), "/analysis/leak", `{"input":"user@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report scanner.LeakReport
	decodeData(t, rec, &report)
	assert.True(t, report.Found)
	assert.Equal(t, "user@example.com", report.Query)
}

func TestConcurrentRequestConflicts(t *testing.T) {
	a := &stubAnalyzer{level: models.RiskLow, started: make(chan struct{}), release: make(chan struct{})}
	h := newRouter(a)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- post(t, h, "/analysis/url", `{"input":"https://one.example"}`)
	}()
	<-a.started

	rec := post(t, h, "/analysis/url", `{"input":"https://two.example"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errCodeConflict, errorCode(t, rec))

	status := httptest.NewRecorder()
	h.ServeHTTP(status, httptest.NewRequest(http.MethodGet, "/analysis/status", nil))
	var st struct {
		Pending map[string]bool `json:"pending"`
	}
	decodeData(t, status, &st)
	assert.True(t, st.Pending["url"])
	assert.False(t, st.Pending["hash"])

	close(a.release)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
}
