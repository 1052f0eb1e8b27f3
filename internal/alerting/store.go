// Package alerting provides the alert lifecycle for the dashboard:
// a bounded newest-first alert store and the injector that feeds it
// synthetic alerts on a timer.
package alerting

import (
	"sync"
	"sync/atomic"

	"github.com/good-yellow-bee/cyberguard/internal/metrics"
	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// DefaultCapacity is the number of alerts kept by the store.
const DefaultCapacity = 5

// Store holds the active alerts, newest first. Inserting past capacity
// silently drops the oldest entries.
type Store struct {
	mu       sync.RWMutex
	entries  []models.AlertEntry
	capacity int

	stats *StoreStats
}

// StoreStats tracks store statistics using atomic operations for lock-free access.
type StoreStats struct {
	Injected  atomic.Int64
	Evicted   atomic.Int64
	Dismissed atomic.Int64
}

// NewStore creates an alert store. A non-positive capacity uses DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries:  make([]models.AlertEntry, 0, capacity),
		capacity: capacity,
		stats:    &StoreStats{},
	}
}

// Seed replaces the store contents. Entries are taken in order, newest
// first, and truncated to capacity.
func (s *Store) Seed(entries []models.AlertEntry) {
	n := min(len(entries), s.capacity)

	s.mu.Lock()
	s.entries = make([]models.AlertEntry, n, s.capacity)
	copy(s.entries, entries[:n])
	s.mu.Unlock()

	metrics.AlertsActive.Set(float64(n))
}

// Inject prepends an alert, dropping the oldest entries beyond capacity.
func (s *Store) Inject(entry models.AlertEntry) {
	s.mu.Lock()
	keep := min(len(s.entries), s.capacity-1)
	evicted := len(s.entries) - keep

	next := make([]models.AlertEntry, 0, s.capacity)
	next = append(next, entry)
	next = append(next, s.entries[:keep]...)
	s.entries = next
	size := len(s.entries)
	s.mu.Unlock()

	s.stats.Injected.Add(1)
	metrics.AlertsInjected.Inc()
	if evicted > 0 {
		s.stats.Evicted.Add(int64(evicted))
		metrics.AlertsEvicted.Add(float64(evicted))
	}
	metrics.AlertsActive.Set(float64(size))
}

// ClearNewFlag marks the alert as no longer new.
// Returns false if no alert has the given id.
func (s *Store) ClearNewFlag(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].IsNew = false
			return true
		}
	}
	return false
}

// Dismiss removes the alert with the given id.
// Returns false if no alert has the given id.
func (s *Store) Dismiss(id int64) bool {
	s.mu.Lock()
	removed := false
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			removed = true
			break
		}
	}
	size := len(s.entries)
	s.mu.Unlock()

	if removed {
		s.stats.Dismissed.Add(1)
		metrics.AlertsDismissed.Inc()
		metrics.AlertsActive.Set(float64(size))
	}
	return removed
}

// Snapshot returns a copy of the alerts, newest first.
func (s *Store) Snapshot() []models.AlertEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AlertEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of alerts held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Capacity returns the maximum number of alerts held.
func (s *Store) Capacity() int {
	return s.capacity
}

// StoreStatsSnapshot is a snapshot of store statistics for reporting.
type StoreStatsSnapshot struct {
	Injected  int64
	Evicted   int64
	Dismissed int64
}

// Stats returns a snapshot of store statistics.
func (s *Store) Stats() StoreStatsSnapshot {
	return StoreStatsSnapshot{
		Injected:  s.stats.Injected.Load(),
		Evicted:   s.stats.Evicted.Load(),
		Dismissed: s.stats.Dismissed.Load(),
	}
}
