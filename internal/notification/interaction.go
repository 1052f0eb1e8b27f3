package notification

import "sync"

// PointerEvent is a pointer or tap interaction. Target is the id of the
// element that received it, if known.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target string  `json:"target,omitempty"`
}

// Bounds decides whether an interaction happened inside a panel.
type Bounds interface {
	Contains(ev PointerEvent) bool
}

// Rect is a rectangular hit area. Edges are inclusive.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether the event coordinates fall inside the rectangle.
func (r Rect) Contains(ev PointerEvent) bool {
	return ev.X >= r.X && ev.X <= r.X+r.Width &&
		ev.Y >= r.Y && ev.Y <= r.Y+r.Height
}

// Elements matches events whose target is one of the panel's elements.
type Elements map[string]struct{}

// NewElements builds an element set from ids.
func NewElements(ids ...string) Elements {
	e := make(Elements, len(ids))
	for _, id := range ids {
		e[id] = struct{}{}
	}
	return e
}

// Contains reports whether the event target belongs to the panel.
func (e Elements) Contains(ev PointerEvent) bool {
	_, ok := e[ev.Target]
	return ok
}

// InteractionSource delivers pointer events to subscribers.
// Subscribe returns a function that cancels the subscription.
type InteractionSource interface {
	Subscribe(fn func(PointerEvent)) func()
}

// InteractionBus is a synchronous in-process InteractionSource.
type InteractionBus struct {
	mu       sync.Mutex
	handlers map[int]func(PointerEvent)
	next     int
}

// NewInteractionBus creates an empty bus.
func NewInteractionBus() *InteractionBus {
	return &InteractionBus{handlers: make(map[int]func(PointerEvent))}
}

// Subscribe registers fn for every published event.
func (b *InteractionBus) Subscribe(fn func(PointerEvent)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish delivers ev to every current subscriber on the caller's goroutine.
func (b *InteractionBus) Publish(ev PointerEvent) {
	b.mu.Lock()
	handlers := make([]func(PointerEvent), 0, len(b.handlers))
	for _, fn := range b.handlers {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// Subscribers returns the number of active subscriptions.
func (b *InteractionBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
