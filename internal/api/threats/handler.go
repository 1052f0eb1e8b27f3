// Package threats serves the live threat feed, its filter options and an
// SSE stream of new entries.
package threats

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/feed"
	"github.com/good-yellow-bee/cyberguard/internal/metrics"
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

const (
	errCodeBadRequest    = "BAD_REQUEST"
	errCodeInternalError = "INTERNAL_ERROR"
)

// Stream defaults.
const (
	DefaultHeartbeat   = 15 * time.Second
	DefaultMaxDuration = 30 * time.Minute
)

// Handler handles threat feed endpoints.
type Handler struct {
	feed        *feed.Simulator
	types       func() []string
	log         *zap.Logger
	heartbeat   time.Duration
	maxDuration time.Duration
}

// Options configures stream timing.
type Options struct {
	Heartbeat   time.Duration
	MaxDuration time.Duration
}

// NewHandler creates a new threats handler. types supplies the feed type
// filter options.
func NewHandler(sim *feed.Simulator, types func() []string, opts Options, log *zap.Logger) *Handler {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = DefaultMaxDuration
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		feed:        sim,
		types:       types,
		log:         log,
		heartbeat:   opts.Heartbeat,
		maxDuration: opts.MaxDuration,
	}
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

// criteria reads and normalizes the severity and type query parameters.
func criteria(r *http.Request) (severity, threatType string, err error) {
	q := r.URL.Query()
	severity = q.Get("severity")
	threatType = q.Get("type")
	if threatType == "" {
		threatType = feed.All
	}
	if severity == "" || strings.EqualFold(severity, feed.All) {
		return feed.All, threatType, nil
	}
	s, err := models.ParseSeverity(severity)
	if err != nil {
		return "", "", err
	}
	return string(s), threatType, nil
}

// ListResponse is a filtered view of the feed.
type ListResponse struct {
	Threats  []models.ThreatFeedEntry `json:"threats"`
	Severity string                   `json:"severity"`
	Type     string                   `json:"type"`
	Total    int                      `json:"total"`
}

// List handles GET /api/v1/threats?severity=&type=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	severity, threatType, err := criteria(r)
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, errCodeBadRequest, "severity must be All, Low, Medium, High or Critical")
		return
	}

	snapshot := h.feed.Snapshot()
	h.jsonOK(w, ListResponse{
		Threats:  feed.Filter(snapshot, severity, threatType),
		Severity: severity,
		Type:     threatType,
		Total:    len(snapshot),
	})
}

// Types handles GET /api/v1/threats/types.
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, map[string]any{
		"types":      append([]string{feed.All}, h.types()...),
		"severities": []string{feed.All, "Low", "Medium", "High", "Critical"},
	})
}

// Stream handles GET /api/v1/threats/stream as Server-Sent Events. Each new
// feed entry matching the query criteria is sent as a "threat" event.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	severity, threatType, err := criteria(r)
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, errCodeBadRequest, "severity must be All, Low, Medium, High or Critical")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.jsonError(w, http.StatusInternalServerError, errCodeInternalError, "streaming not supported")
		return
	}

	entries, cancel := h.feed.Subscribe()
	defer cancel()

	metrics.FeedStreamsActive.Inc()
	defer metrics.FeedStreamsActive.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sse := NewSSEWriter(w, flusher)
	if err := sse.SendRetry(3000); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()
	deadline := time.NewTimer(h.maxDuration)
	defer deadline.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			_ = sse.SendJSON("end", map[string]string{"reason": "max_duration"})
			return
		case <-heartbeat.C:
			if err := sse.SendComment("heartbeat"); err != nil {
				return
			}
		case e, ok := <-entries:
			if !ok {
				return
			}
			if len(feed.Filter([]models.ThreatFeedEntry{e}, severity, threatType)) == 0 {
				continue
			}
			if err := sse.SendJSON("threat", e); err != nil {
				h.log.Debug("threat stream closed", zap.Error(err))
				return
			}
		}
	}
}
