// Package alerts serves the active alert list.
package alerts

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/alerting"
	"github.com/good-yellow-bee/cyberguard/internal/models"
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

// Handler handles alert endpoints.
type Handler struct {
	store *alerting.Store
	log   *zap.Logger
}

// NewHandler creates a new alerts handler.
func NewHandler(store *alerting.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, log: log}
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

// ListResponse is the active alert list, newest first.
type ListResponse struct {
	Alerts   []models.AlertEntry `json:"alerts"`
	Capacity int                 `json:"capacity"`
}

// List handles GET /api/v1/alerts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, ListResponse{
		Alerts:   h.store.Snapshot(),
		Capacity: h.store.Capacity(),
	})
}

// Dismiss handles DELETE /api/v1/alerts/{id}.
// Dismissing an unknown alert is not an error.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, errCodeBadRequest, "alert id must be an integer")
		return
	}

	if h.store.Dismiss(id) {
		h.log.Debug("alert dismissed", zap.Int64("id", id))
	}
	w.WriteHeader(http.StatusNoContent)
}
