// Package feed simulates the live threat intelligence feed and provides
// filtered views of it.
package feed

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/metrics"
	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// Simulator defaults.
const (
	DefaultCapacity   = 20
	DefaultInterval   = 3 * time.Second
	DefaultTimeLayout = "3:04:05 PM"

	subscriberBuffer = 16
)

var (
	ErrEmptyCatalog    = errors.New("threat catalog is empty")
	ErrInvalidInterval = errors.New("feed interval must be positive")
)

// RandomSource picks template indices. IntN returns a value in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Config configures a Simulator.
type Config struct {
	// Capacity is the maximum number of feed entries kept.
	Capacity int
	// TimeLayout formats the observation time of each entry.
	TimeLayout string
}

func (c *Config) setDefaults() {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.TimeLayout == "" {
		c.TimeLayout = DefaultTimeLayout
	}
}

// Simulator produces a newest-first feed of threat events by sampling a
// template catalog on a fixed interval.
type Simulator struct {
	cfg   Config
	clock clockwork.Clock
	rand  RandomSource
	log   *zap.Logger

	mu        sync.Mutex
	templates []models.ThreatTemplate
	entries   []models.ThreatFeedEntry
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}

	subs    map[int]chan models.ThreatFeedEntry
	nextSub int
}

// NewSimulator creates a stopped simulator. A nil clock uses the real clock
// and a nil random source uses math/rand.
func NewSimulator(cfg Config, clock clockwork.Clock, rnd RandomSource, log *zap.Logger) *Simulator {
	cfg.setDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if rnd == nil {
		rnd = globalRand{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{
		cfg:     cfg,
		clock:   clock,
		rand:    rnd,
		log:     log,
		entries: make([]models.ThreatFeedEntry, 0, cfg.Capacity),
		subs:    make(map[int]chan models.ThreatFeedEntry),
	}
}

// Start begins sampling the catalog every interval. Calling Start on a
// running simulator is a no-op.
func (s *Simulator) Start(templates []models.ThreatTemplate, interval time.Duration) error {
	if len(templates) == 0 {
		return ErrEmptyCatalog
	}
	if interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.templates = append([]models.ThreatTemplate(nil), templates...)
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	ticker := s.clock.NewTicker(interval)
	go s.loop(ticker, s.stopCh, s.doneCh)

	s.log.Debug("threat feed started",
		zap.Int("templates", len(templates)),
		zap.Duration("interval", interval))
	return nil
}

func (s *Simulator) loop(ticker clockwork.Ticker, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			s.tick()
		}
	}
}

func (s *Simulator) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || len(s.templates) == 0 {
		return
	}

	tmpl := s.templates[s.rand.IntN(len(s.templates))]
	entry := tmpl.Stamp(s.clock.Now().Format(s.cfg.TimeLayout))

	keep := min(len(s.entries), s.cfg.Capacity-1)
	next := make([]models.ThreatFeedEntry, 0, s.cfg.Capacity)
	next = append(next, entry)
	next = append(next, s.entries[:keep]...)
	s.entries = next

	metrics.FeedTicksTotal.Inc()
	metrics.FeedEntriesBySeverity.WithLabelValues(string(entry.Severity)).Inc()

	for _, ch := range s.subs {
		select {
		case ch <- entry:
		default:
			metrics.FeedSubscriberDrops.Inc()
		}
	}
}

// Stop cancels sampling and waits for the loop to exit. Safe to call repeatedly.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh
	s.log.Debug("threat feed stopped")
}

// Running reports whether the simulator is sampling.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetCatalog replaces the templates sampled from subsequent ticks.
// An empty catalog is rejected and the current templates are kept.
func (s *Simulator) SetCatalog(templates []models.ThreatTemplate) error {
	if len(templates) == 0 {
		return ErrEmptyCatalog
	}
	s.mu.Lock()
	s.templates = append([]models.ThreatTemplate(nil), templates...)
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the feed, newest first.
func (s *Simulator) Snapshot() []models.ThreatFeedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ThreatFeedEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Subscribe returns a channel receiving every new feed entry and a function
// that cancels the subscription. Entries are dropped for subscribers that
// fall behind.
func (s *Simulator) Subscribe() (<-chan models.ThreatFeedEntry, func()) {
	ch := make(chan models.ThreatFeedEntry, subscriberBuffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}
