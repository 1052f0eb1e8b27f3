package models

import (
	"sync"
	"time"
)

// IDSequence hands out time-based integer IDs (unix milliseconds).
// IDs are strictly increasing even when the clock does not advance.
type IDSequence struct {
	mu   sync.Mutex
	last int64
}

// Next returns the next ID for the given time.
func (s *IDSequence) Next(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
