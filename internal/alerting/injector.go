package alerting

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// Default injector timings.
const (
	DefaultInjectInterval = 10 * time.Second
	DefaultNewFlagTTL     = 3 * time.Second
)

// InjectorConfig configures the synthetic alert injector.
type InjectorConfig struct {
	// Interval between synthetic alerts.
	Interval time.Duration
	// NewFlagTTL is how long an injected alert stays marked as new.
	NewFlagTTL time.Duration
	// Template is the alert injected on every tick.
	Template models.AlertTemplate
}

func (c *InjectorConfig) setDefaults() {
	if c.Interval <= 0 {
		c.Interval = DefaultInjectInterval
	}
	if c.NewFlagTTL <= 0 {
		c.NewFlagTTL = DefaultNewFlagTTL
	}
}

// Injector periodically injects a synthetic alert into a Store and clears
// the alert's new flag after a delay. Every timer it arms is released by Stop.
type Injector struct {
	store *Store
	cfg   InjectorConfig
	clock clockwork.Clock
	ids   *models.IDSequence
	log   *zap.Logger

	mu      sync.Mutex
	running bool
	pending map[int64]clockwork.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewInjector creates an injector for the store. A nil clock uses the real
// clock and a nil id sequence allocates a private one.
func NewInjector(store *Store, cfg InjectorConfig, clock clockwork.Clock, ids *models.IDSequence, log *zap.Logger) *Injector {
	cfg.setDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ids == nil {
		ids = &models.IDSequence{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Injector{
		store:   store,
		cfg:     cfg,
		clock:   clock,
		ids:     ids,
		log:     log,
		pending: make(map[int64]clockwork.Timer),
	}
}

// Start begins periodic injection. Calling Start on a running injector is a no-op.
func (i *Injector) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.running {
		return
	}
	i.running = true
	i.stopCh = make(chan struct{})
	i.doneCh = make(chan struct{})

	ticker := i.clock.NewTicker(i.cfg.Interval)
	go i.loop(ticker, i.stopCh, i.doneCh)

	i.log.Debug("alert injector started",
		zap.Duration("interval", i.cfg.Interval),
		zap.Duration("new_flag_ttl", i.cfg.NewFlagTTL))
}

func (i *Injector) loop(ticker clockwork.Ticker, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			i.inject()
		}
	}
}

func (i *Injector) inject() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return
	}

	entry := i.cfg.Template.NewEntry(i.ids.Next(i.clock.Now()))
	i.store.Inject(entry)

	id := entry.ID
	i.pending[id] = i.clock.AfterFunc(i.cfg.NewFlagTTL, func() {
		i.clearNew(id)
	})

	i.log.Debug("synthetic alert injected",
		zap.Int64("id", id),
		zap.String("severity", string(entry.Severity)))
}

func (i *Injector) clearNew(id int64) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.pending[id]; !ok {
		return
	}
	delete(i.pending, id)
	i.store.ClearNewFlag(id)
}

// Stop cancels the ticker and every pending new-flag timer, then waits for
// the injection loop to exit. Safe to call repeatedly.
func (i *Injector) Stop() {
	i.mu.Lock()
	if !i.running {
		i.mu.Unlock()
		return
	}
	i.running = false
	close(i.stopCh)
	for id, t := range i.pending {
		t.Stop()
		delete(i.pending, id)
	}
	doneCh := i.doneCh
	i.mu.Unlock()

	<-doneCh
	i.log.Debug("alert injector stopped")
}

// SetTemplate replaces the alert injected on subsequent ticks.
func (i *Injector) SetTemplate(tmpl models.AlertTemplate) {
	i.mu.Lock()
	i.cfg.Template = tmpl
	i.mu.Unlock()
}

// Running reports whether the injector is active.
func (i *Injector) Running() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running
}

// Pending returns the number of armed new-flag timers.
func (i *Injector) Pending() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.pending)
}
