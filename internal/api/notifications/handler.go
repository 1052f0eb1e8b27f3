// Package notifications serves the notification list and panel state.
package notifications

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/models"
	"github.com/good-yellow-bee/cyberguard/internal/notification"
)

// Response helpers
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const errCodeBadRequest = "BAD_REQUEST"

const maxBodySize = 4 << 10

// Publisher delivers pointer events to the panel.
type Publisher interface {
	Publish(ev notification.PointerEvent)
}

// Handler handles notification endpoints.
type Handler struct {
	center *notification.Center
	bus    Publisher
	log    *zap.Logger
}

// NewHandler creates a new notifications handler.
func NewHandler(center *notification.Center, bus Publisher, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{center: center, bus: bus, log: log}
}

func (h *Handler) jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}}); err != nil {
		h.log.Warn("json encode error", zap.Error(err))
	}
}

func (h *Handler) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dataResponse{Data: data}); err != nil {
		h.log.Warn("json encode error", zap.Error(err))
	}
}

// StateResponse is the notification list with panel state.
type StateResponse struct {
	Notifications []models.NotificationEntry `json:"notifications"`
	HasUnread     bool                       `json:"has_unread"`
	UnreadCount   int                        `json:"unread_count"`
	Open          bool                       `json:"open"`
}

func (h *Handler) state() StateResponse {
	unread := h.center.UnreadCount()
	return StateResponse{
		Notifications: h.center.Snapshot(),
		HasUnread:     unread > 0,
		UnreadCount:   unread,
		Open:          h.center.IsOpen(),
	}
}

// List handles GET /api/v1/notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, h.state())
}

// ReadAll handles POST /api/v1/notifications/read-all.
func (h *Handler) ReadAll(w http.ResponseWriter, r *http.Request) {
	h.center.MarkAllRead()
	h.jsonOK(w, h.state())
}

// Toggle handles POST /api/v1/notifications/toggle.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.center.ToggleOpen()
	h.jsonOK(w, h.state())
}

// Close handles POST /api/v1/notifications/close.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.center.Close()
	h.jsonOK(w, h.state())
}

// Pointer handles POST /api/v1/notifications/pointer. The event is published
// to the interaction bus; an event outside the panel closes it.
func (h *Handler) Pointer(w http.ResponseWriter, r *http.Request) {
	var ev notification.PointerEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&ev); err != nil {
		if errors.Is(err, io.EOF) {
			h.jsonError(w, http.StatusBadRequest, errCodeBadRequest, "request body is required")
			return
		}
		h.jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	h.bus.Publish(ev)
	h.jsonOK(w, h.state())
}
