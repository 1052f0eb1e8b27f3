package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/cyberguard/internal/models"
	"github.com/good-yellow-bee/cyberguard/internal/notification"
)

func setup(t *testing.T) (http.Handler, *notification.Center) {
	t.Helper()
	center := notification.NewCenter()
	center.Seed([]models.NotificationEntry{
		{ID: 1, Type: models.NotificationCritical, Message: "a", Timestamp: "now"},
		{ID: 2, Type: models.NotificationSystem, Message: "b", Timestamp: "later", IsRead: true},
	})
	bus := notification.NewInteractionBus()
	center.AttachPanel(bus, notification.NewElements("notification-panel"))
	t.Cleanup(center.Detach)

	h := NewHandler(center, bus, nil)
	r := chi.NewRouter()
	r.Get("/notifications", h.List)
	r.Post("/notifications/read-all", h.ReadAll)
	r.Post("/notifications/toggle", h.Toggle)
	r.Post("/notifications/close", h.Close)
	r.Post("/notifications/pointer", h.Pointer)
	return r, center
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, StateResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var resp struct {
		Data StateResponse `json:"data"`
	}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec.Code, resp.Data
}

func TestListAndReadAll(t *testing.T) {
	h, _ := setup(t)

	code, state := do(t, h, http.MethodGet, "/notifications", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, state.HasUnread)
	assert.Equal(t, 1, state.UnreadCount)
	assert.Len(t, state.Notifications, 2)

	_, state = do(t, h, http.MethodPost, "/notifications/read-all", "")
	assert.False(t, state.HasUnread)
	assert.Zero(t, state.UnreadCount)
}

func TestToggleAndClose(t *testing.T) {
	h, _ := setup(t)

	_, state := do(t, h, http.MethodPost, "/notifications/toggle", "")
	assert.True(t, state.Open)
	_, state = do(t, h, http.MethodPost, "/notifications/close", "")
	assert.False(t, state.Open)
}

func TestPointer(t *testing.T) {
	h, center := setup(t)
	center.ToggleOpen()

	code, state := do(t, h, http.MethodPost, "/notifications/pointer", `{"target":"notification-panel"}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, state.Open)

	_, state = do(t, h, http.MethodPost, "/notifications/pointer", `{"x":900,"y":40,"target":"sidebar"}`)
	assert.False(t, state.Open)

	code, _ = do(t, h, http.MethodPost, "/notifications/pointer", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, h, http.MethodPost, "/notifications/pointer", "{")
	assert.Equal(t, http.StatusBadRequest, code)
}
