package scanner

import (
	"sync"

	"github.com/good-yellow-bee/cyberguard/internal/metrics"
	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// DefaultActionCapacity is the number of automated actions kept.
const DefaultActionCapacity = 10

// ActionLog is a bounded newest-first log of automated responses.
type ActionLog struct {
	mu       sync.RWMutex
	entries  []models.AutomatedAction
	capacity int
}

// NewActionLog creates a log. A non-positive capacity uses DefaultActionCapacity.
func NewActionLog(capacity int) *ActionLog {
	if capacity <= 0 {
		capacity = DefaultActionCapacity
	}
	return &ActionLog{capacity: capacity}
}

// Record prepends an action, dropping the oldest beyond capacity.
func (l *ActionLog) Record(a models.AutomatedAction) {
	l.mu.Lock()
	keep := min(len(l.entries), l.capacity-1)
	next := make([]models.AutomatedAction, 0, l.capacity)
	next = append(next, a)
	next = append(next, l.entries[:keep]...)
	l.entries = next
	l.mu.Unlock()

	metrics.AutomatedActionsTotal.WithLabelValues(a.Trigger).Inc()
}

// Snapshot returns a copy of the log, newest first.
func (l *ActionLog) Snapshot() []models.AutomatedAction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.AutomatedAction, len(l.entries))
	copy(out, l.entries)
	return out
}
