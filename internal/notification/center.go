// Package notification holds the system notification list and the state of
// the panel that displays it.
package notification

import (
	"sync"

	"github.com/good-yellow-bee/cyberguard/internal/metrics"
	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// Center stores notifications with read state and tracks whether the
// notification panel is open. While the panel is open and attached to an
// interaction source, a pointer event outside its bounds closes it.
type Center struct {
	mu      sync.Mutex
	entries []models.NotificationEntry
	open    bool

	source      InteractionSource
	bounds      Bounds
	unsubscribe func()
}

// NewCenter creates an empty, closed notification center.
func NewCenter() *Center {
	return &Center{}
}

// Seed replaces all notifications.
func (c *Center) Seed(entries []models.NotificationEntry) {
	c.mu.Lock()
	c.entries = append([]models.NotificationEntry(nil), entries...)
	unread := c.unreadLocked()
	c.mu.Unlock()

	metrics.NotificationsUnread.Set(float64(unread))
}

// MarkAllRead marks every notification as read.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	for i := range c.entries {
		c.entries[i].IsRead = true
	}
	c.mu.Unlock()

	metrics.NotificationsUnread.Set(0)
}

// HasUnread reports whether any notification is unread.
func (c *Center) HasUnread() bool {
	return c.UnreadCount() > 0
}

// UnreadCount returns the number of unread notifications.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unreadLocked()
}

func (c *Center) unreadLocked() int {
	n := 0
	for _, e := range c.entries {
		if !e.IsRead {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the notifications.
func (c *Center) Snapshot() []models.NotificationEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.NotificationEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ToggleOpen flips the panel visibility and returns the new state.
func (c *Center) ToggleOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		c.closeLocked()
	} else {
		c.open = true
		c.listenLocked()
	}
	return c.open
}

// Close hides the panel. Closing a closed panel is a no-op.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// IsOpen reports whether the panel is visible.
func (c *Center) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// AttachPanel sets the interaction source and panel bounds used for
// outside-interaction dismissal. Any previous attachment is released.
func (c *Center) AttachPanel(source InteractionSource, bounds Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked()
	c.source = source
	c.bounds = bounds
	if c.open {
		c.listenLocked()
	}
}

// Detach releases the interaction subscription and forgets the panel.
func (c *Center) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked()
	c.source = nil
	c.bounds = nil
}

// HandlePointer closes the panel when ev falls outside the panel bounds.
// It returns true if the event closed the panel.
func (c *Center) HandlePointer(ev PointerEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || c.bounds == nil || c.bounds.Contains(ev) {
		return false
	}
	c.closeLocked()
	return true
}

func (c *Center) closeLocked() {
	c.open = false
	c.releaseLocked()
}

func (c *Center) listenLocked() {
	if c.source == nil || c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.source.Subscribe(func(ev PointerEvent) {
		c.HandlePointer(ev)
	})
}

func (c *Center) releaseLocked() {
	if c.unsubscribe == nil {
		return
	}
	c.unsubscribe()
	c.unsubscribe = nil
}
