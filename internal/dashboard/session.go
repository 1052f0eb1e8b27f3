// Package dashboard wires the alert store, threat feed, notification center
// and scanner into one session with a shared lifecycle.
package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/alerting"
	"github.com/good-yellow-bee/cyberguard/internal/analysis"
	"github.com/good-yellow-bee/cyberguard/internal/catalog"
	"github.com/good-yellow-bee/cyberguard/internal/feed"
	"github.com/good-yellow-bee/cyberguard/internal/models"
	"github.com/good-yellow-bee/cyberguard/internal/notification"
	"github.com/good-yellow-bee/cyberguard/internal/scanner"
)

// Element ids that count as inside the notification panel.
const (
	PanelElementID = "notification-panel"
	BellElementID  = "notification-bell"
)

// RandomSource picks feed templates and simulated leak outcomes.
type RandomSource interface {
	IntN(n int) int
}

// Config holds the session timers and capacities.
type Config struct {
	AlertInterval  time.Duration
	NewFlagTTL     time.Duration
	FeedInterval   time.Duration
	AlertCapacity  int
	FeedCapacity   int
	ActionCapacity int
	TimeLayout     string
	LeakDelay      time.Duration

	// CatalogPath enables hot reload of the catalog file when set.
	CatalogPath string
}

func (c *Config) setDefaults() {
	if c.FeedInterval <= 0 {
		c.FeedInterval = feed.DefaultInterval
	}
}

// Session owns one of each store and every timer feeding them.
type Session struct {
	cfg   Config
	log   *zap.Logger
	clock clockwork.Clock
	ids   *models.IDSequence

	Alerts        *alerting.Store
	Feed          *feed.Simulator
	Notifications *notification.Center
	Scanner       *scanner.Scanner
	Bus           *notification.InteractionBus

	injector *alerting.Injector

	mu      sync.Mutex
	catalog *catalog.Catalog
	watcher *catalog.Watcher
	running bool
}

// New creates a stopped session. A nil clock uses the real clock.
func New(cfg Config, cat *catalog.Catalog, analyzer analysis.Analyzer, log *zap.Logger, clock clockwork.Clock, rnd RandomSource) (*Session, error) {
	cfg.setDefaults()
	if cat == nil {
		cat = catalog.Default()
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if analyzer == nil {
		analyzer = analysis.Heuristic{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	var feedRand feed.RandomSource
	var scanRand scanner.RandomSource
	if rnd != nil {
		feedRand, scanRand = rnd, rnd
	}

	ids := &models.IDSequence{}
	alerts := alerting.NewStore(cfg.AlertCapacity)

	return &Session{
		cfg:     cfg,
		log:     log,
		clock:   clock,
		ids:     ids,
		catalog: cat.Clone(),
		Alerts:  alerts,
		injector: alerting.NewInjector(alerts, alerting.InjectorConfig{
			Interval:   cfg.AlertInterval,
			NewFlagTTL: cfg.NewFlagTTL,
			Template:   cat.SyntheticAlert,
		}, clock, ids, log.Named("alerts")),
		Feed: feed.NewSimulator(feed.Config{
			Capacity:   cfg.FeedCapacity,
			TimeLayout: cfg.TimeLayout,
		}, clock, feedRand, log.Named("feed")),
		Notifications: notification.NewCenter(),
		Scanner: scanner.New(analyzer, scanner.Config{
			ActionCapacity: cfg.ActionCapacity,
			LeakDelay:      cfg.LeakDelay,
		}, clock, scanRand, ids, log.Named("scanner")),
		Bus: notification.NewInteractionBus(),
	}, nil
}

// Start seeds the stores and starts every timer. Calling Start on a running
// session is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.Alerts.Seed(s.catalog.SeedAlerts)
	s.Notifications.Seed(s.catalog.SeedNotifications)
	s.Notifications.AttachPanel(s.Bus, notification.NewElements(PanelElementID, BellElementID))

	if err := s.Feed.Start(s.catalog.Threats, s.cfg.FeedInterval); err != nil {
		s.Notifications.Detach()
		return fmt.Errorf("start threat feed: %w", err)
	}
	s.injector.Start()

	if s.cfg.CatalogPath != "" {
		w, err := catalog.NewWatcher(s.cfg.CatalogPath, func(c *catalog.Catalog) {
			if err := s.ApplyCatalog(c); err != nil {
				s.log.Warn("catalog reload rejected", zap.Error(err))
			}
		}, s.log.Named("catalog"))
		if err != nil {
			s.injector.Stop()
			s.Feed.Stop()
			s.Notifications.Detach()
			return fmt.Errorf("watch catalog: %w", err)
		}
		s.watcher = w
	}

	s.running = true
	s.log.Info("dashboard session started",
		zap.Int("threat_templates", len(s.catalog.Threats)),
		zap.Bool("catalog_reload", s.watcher != nil))
	return nil
}

// Stop releases every timer, subscription and watcher owned by the session.
// Safe to call repeatedly.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	// The watcher callback takes s.mu, so close it unlocked.
	if w != nil {
		if err := w.Close(); err != nil {
			s.log.Warn("failed to close catalog watcher", zap.Error(err))
		}
	}
	s.injector.Stop()
	s.Feed.Stop()
	s.Notifications.Detach()

	s.log.Info("dashboard session stopped")
}

// Running reports whether the session timers are active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ApplyCatalog swaps the threat templates, the synthetic alert and the chart
// series. Seed data is only read on Start.
func (s *Session) ApplyCatalog(c *catalog.Catalog) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	if err := s.Feed.SetCatalog(c.Threats); err != nil {
		return err
	}
	s.injector.SetTemplate(c.SyntheticAlert)

	s.mu.Lock()
	s.catalog = c.Clone()
	s.mu.Unlock()

	s.log.Info("catalog applied", zap.Int("threat_templates", len(c.Threats)))
	return nil
}

// Catalog returns a copy of the active catalog.
func (s *Session) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Clone()
}

// ThreatTypes returns the feed type filter options.
func (s *Session) ThreatTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.ThreatTypes()
}

// Charts returns the static dashboard chart series.
func (s *Session) Charts() catalog.Charts {
	return s.Catalog().Charts
}
