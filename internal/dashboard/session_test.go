package dashboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/good-yellow-bee/cyberguard/internal/alerting"
	"github.com/good-yellow-bee/cyberguard/internal/catalog"
	"github.com/good-yellow-bee/cyberguard/internal/models"
	"github.com/good-yellow-bee/cyberguard/internal/notification"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func newTestSession(t *testing.T, cfg Config) (*Session, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	s, err := New(cfg, nil, nil, nil, clock, zeroRand{})
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	return s, clock
}

func TestNewRejectsInvalidCatalog(t *testing.T) {
	_, err := New(Config{}, &catalog.Catalog{}, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestStartSeedsStores(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	assert.True(t, s.Running())

	def := catalog.Default()
	assert.Equal(t, def.SeedAlerts, s.Alerts.Snapshot())
	assert.Equal(t, def.SeedNotifications, s.Notifications.Snapshot())
	assert.True(t, s.Notifications.HasUnread())
	assert.Empty(t, s.Feed.Snapshot())
	assert.Equal(t, def.ThreatTypes(), s.ThreatTypes())
	assert.Equal(t, def.Charts, s.Charts())
}

func TestTimersDriveStores(t *testing.T) {
	s, clock := newTestSession(t, Config{})
	require.NoError(t, s.Start())

	// Feed ticks every 3s and alerts every 10s. Step in 1s increments so
	// each ticker fires once per period.
	for range 10 {
		clock.Advance(time.Second)
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return s.Alerts.Len() == 5 && len(s.Feed.Snapshot()) == 3
	}, time.Second, time.Millisecond)

	first := s.Alerts.Snapshot()[0]
	assert.Equal(t, catalog.Default().SyntheticAlert.Message, first.Message)
	assert.Equal(t, models.SeverityCritical, first.Severity)
	assert.Equal(t, catalog.Default().Threats[0].Type, s.Feed.Snapshot()[0].Type)
}

func TestOutsideClickClosesPanel(t *testing.T) {
	s, _ := newTestSession(t, Config{})
	require.NoError(t, s.Start())

	s.Notifications.ToggleOpen()
	s.Bus.Publish(notification.PointerEvent{Target: PanelElementID})
	assert.True(t, s.Notifications.IsOpen())

	s.Bus.Publish(notification.PointerEvent{Target: "main-content"})
	assert.False(t, s.Notifications.IsOpen())
}

func TestStopReleasesEverything(t *testing.T) {
	s, clock := newTestSession(t, Config{})
	require.NoError(t, s.Start())
	s.Notifications.ToggleOpen()
	require.Equal(t, 1, s.Bus.Subscribers())

	s.Stop()
	s.Stop()
	assert.False(t, s.Running())
	assert.Zero(t, s.Bus.Subscribers())

	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 4, s.Alerts.Len())
	assert.Empty(t, s.Feed.Snapshot())
}

func TestApplyCatalog(t *testing.T) {
	s, clock := newTestSession(t, Config{})
	require.NoError(t, s.Start())

	next := catalog.Default()
	next.Threats = []models.ThreatTemplate{
		{Type: "Cryptojacking", Target: "Build Farm", Region: "Oceania", Severity: models.SeverityLow},
	}
	require.NoError(t, s.ApplyCatalog(next))
	assert.Equal(t, []string{"Cryptojacking"}, s.ThreatTypes())

	assert.Error(t, s.ApplyCatalog(&catalog.Catalog{}))
	assert.Equal(t, []string{"Cryptojacking"}, s.ThreatTypes())

	clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool { return len(s.Feed.Snapshot()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "Cryptojacking", s.Feed.Snapshot()[0].Type)
}

func TestApplyCatalogReplacesSyntheticAlert(t *testing.T) {
	s, clock := newTestSession(t, Config{FeedInterval: time.Hour})
	require.NoError(t, s.Start())

	next := catalog.Default()
	next.SyntheticAlert = models.AlertTemplate{Severity: models.SeverityHigh, Message: "reloaded alert"}
	require.NoError(t, s.ApplyCatalog(next))

	clock.Advance(alerting.DefaultInjectInterval)
	require.Eventually(t, func() bool {
		return s.Alerts.Snapshot()[0].Message == "reloaded alert"
	}, time.Second, time.Millisecond)
	assert.Equal(t, models.SeverityHigh, s.Alerts.Snapshot()[0].Severity)
	assert.Equal(t, next.SyntheticAlert, s.Catalog().SyntheticAlert)
}

func TestCatalogHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threats:\n  - {type: A, target: t, region: r, severity: Low}\n"), 0o600))

	s, _ := newTestSession(t, Config{CatalogPath: path})
	require.NoError(t, s.Start())

	reloaded := func() bool {
		types := s.ThreatTypes()
		return len(types) == 1 && types[0] == "B"
	}

	// The first write can land before the watcher is registered, so retry.
	deadline := time.Now().Add(5 * time.Second)
	for !reloaded() {
		require.True(t, time.Now().Before(deadline), "catalog was not reloaded")
		require.NoError(t, os.WriteFile(path, []byte("threats:\n  - {type: B, target: t, region: r, severity: High}\n"), 0o600))
		time.Sleep(50 * time.Millisecond)
	}
}
