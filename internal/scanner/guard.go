package scanner

import (
	"errors"
	"sync"
)

var (
	// ErrPending is returned when a tool already has a request in flight.
	ErrPending = errors.New("a request for this tool is already in progress")
	// ErrStale is returned when a result was superseded by a newer request.
	ErrStale = errors.New("result superseded by a newer request")
)

// Ticket identifies one request issued by a Guard.
type Ticket uint64

// Guard serializes requests for a single tool. Only one request may be in
// flight and only the most recently issued ticket may apply its result.
type Guard struct {
	mu      sync.Mutex
	pending bool
	latest  Ticket
}

// Begin issues a ticket, or returns ErrPending while a request is in flight.
func (g *Guard) Begin() (Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending {
		return 0, ErrPending
	}
	g.pending = true
	g.latest++
	return g.latest, nil
}

// Finish completes the request for t. apply runs only if t is still the
// latest ticket. It returns whether apply ran.
func (g *Guard) Finish(t Ticket, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t != g.latest {
		return false
	}
	g.pending = false
	if apply != nil {
		apply()
	}
	return true
}

// Abandon releases the in-flight request. A later Finish for the abandoned
// ticket is rejected.
func (g *Guard) Abandon() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending {
		g.pending = false
		g.latest++
	}
}

// Pending reports whether a request is in flight.
func (g *Guard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}
