// Package tools serves the interactive security tools and the automated
// response log.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/models"
	"github.com/good-yellow-bee/cyberguard/internal/scanner"
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

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeConflict         = "CONFLICT"
	errCodeUnavailable      = "UNAVAILABLE"
)

const (
	maxBodySize    = 16 << 10
	DefaultTimeout = 45 * time.Second
)

// Handler handles tool endpoints.
type Handler struct {
	scanner *scanner.Scanner
	timeout time.Duration
	log     *zap.Logger
}

// NewHandler creates a new tools handler. timeout bounds each tool call.
func NewHandler(s *scanner.Scanner, timeout time.Duration, log *zap.Logger) *Handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{scanner: s, timeout: timeout, log: log}
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

// Request is the body accepted by every tool.
type Request struct {
	Input string `json:"input"`
}

// PasswordResponse adds the strength label to a password result.
type PasswordResponse struct {
	models.PasswordStrengthResult
	Strength string `json:"strength"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		h.jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return "", false
	}
	return req.Input, true
}

// writeErr maps scanner errors to API errors.
func (h *Handler) writeErr(w http.ResponseWriter, tool scanner.Tool, err error) {
	switch {
	case errors.Is(err, scanner.ErrEmptyInput):
		h.jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "input is required")
	case errors.Is(err, scanner.ErrPending):
		h.jsonError(w, http.StatusConflict, errCodeConflict, "a "+string(tool)+" request is already in progress")
	case errors.Is(err, scanner.ErrStale):
		h.jsonError(w, http.StatusConflict, errCodeConflict, "request was superseded")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.jsonError(w, http.StatusServiceUnavailable, errCodeUnavailable, "request timed out")
	default:
		h.log.Error("tool failed", zap.String("tool", string(tool)), zap.Error(err))
		h.jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func (h *Handler) context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

// URL handles POST /api/v1/analysis/url.
func (h *Handler) URL(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()

	result, err := h.scanner.CheckURL(ctx, input)
	if err != nil {
		h.writeErr(w, scanner.ToolURL, err)
		return
	}
	h.jsonOK(w, result)
}

// Password handles POST /api/v1/analysis/password.
func (h *Handler) Password(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()

	result, err := h.scanner.CheckPassword(ctx, input)
	if err != nil {
		h.writeErr(w, scanner.ToolPassword, err)
		return
	}
	h.jsonOK(w, PasswordResponse{PasswordStrengthResult: result, Strength: result.Strength()})
}

// File handles POST /api/v1/analysis/file.
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()

	report, err := h.scanner.ScanFile(ctx, input)
	if err != nil {
		h.writeErr(w, scanner.ToolFile, err)
		return
	}
	h.jsonOK(w, report)
}

// Hash handles POST /api/v1/analysis/hash.
func (h *Handler) Hash(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()

	report, err := h.scanner.ScanHash(ctx, input)
	if err != nil {
		h.writeErr(w, scanner.ToolHash, err)
		return
	}
	h.jsonOK(w, report)
}

// Leak handles POST /api/v1/analysis/leak.
func (h *Handler) Leak(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()

	report, err := h.scanner.CheckLeak(ctx, input)
	if err != nil {
		h.writeErr(w, scanner.ToolLeak, err)
		return
	}
	h.jsonOK(w, report)
}

// Actions handles GET /api/v1/actions.
func (h *Handler) Actions(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, map[string]any{"actions": h.scanner.Actions()})
}

// Status handles GET /api/v1/analysis/status: the pending state per tool.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	pending := make(map[string]bool, len(scanner.Tools))
	for _, t := range scanner.Tools {
		pending[string(t)] = h.scanner.Pending(t)
	}
	h.jsonOK(w, map[string]any{"pending": pending})
}
