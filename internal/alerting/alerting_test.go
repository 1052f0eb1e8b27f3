package alerting

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/good-yellow-bee/cyberguard/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var syntheticTemplate = models.AlertTemplate{
	Severity: models.SeverityCritical,
	Message:  "Unauthorized access attempt from geo-location: St. Petersburg",
}

func seedEntries(n int) []models.AlertEntry {
	entries := make([]models.AlertEntry, n)
	for i := range entries {
		entries[i] = models.AlertEntry{
			ID:       int64(n - i),
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("seed %d", n-i),
		}
	}
	return entries
}

func ids(entries []models.AlertEntry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestStoreInjectOrderAndCapacity(t *testing.T) {
	s := NewStore(5)
	for i := int64(1); i <= 7; i++ {
		s.Inject(models.AlertEntry{ID: i, Severity: models.SeverityCritical, Message: "m", IsNew: true})
	}

	assert.Equal(t, []int64{7, 6, 5, 4, 3}, ids(s.Snapshot()))
	assert.Equal(t, StoreStatsSnapshot{Injected: 7, Evicted: 2}, s.Stats())
}

func TestStoreDefaultCapacity(t *testing.T) {
	s := NewStore(0)
	assert.Equal(t, DefaultCapacity, s.Capacity())
}

func TestStoreSeed(t *testing.T) {
	tests := []struct {
		name string
		seed int
		want []int64
	}{
		{name: "empty", seed: 0, want: []int64{}},
		{name: "below capacity", seed: 4, want: []int64{4, 3, 2, 1}},
		{name: "above capacity", seed: 7, want: []int64{7, 6, 5, 4, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(5)
			s.Inject(models.AlertEntry{ID: 99})
			s.Seed(seedEntries(tt.seed))
			assert.Equal(t, tt.want, ids(s.Snapshot()))
		})
	}
}

func TestStoreSeedDoesNotAlias(t *testing.T) {
	seed := seedEntries(3)
	s := NewStore(5)
	s.Seed(seed)

	seed[0].Message = "changed"
	assert.Equal(t, "seed 3", s.Snapshot()[0].Message)

	snap := s.Snapshot()
	snap[0].Message = "changed"
	assert.Equal(t, "seed 3", s.Snapshot()[0].Message)
}

func TestStoreClearNewFlag(t *testing.T) {
	s := NewStore(5)
	s.Inject(models.AlertEntry{ID: 1, IsNew: true})
	s.Inject(models.AlertEntry{ID: 2, IsNew: true})

	assert.True(t, s.ClearNewFlag(1))
	assert.False(t, s.ClearNewFlag(42))

	snap := s.Snapshot()
	assert.True(t, snap[0].IsNew)
	assert.False(t, snap[1].IsNew)
}

func TestStoreDismissIdempotent(t *testing.T) {
	s := NewStore(5)
	s.Seed(seedEntries(4))

	assert.True(t, s.Dismiss(2))
	first := s.Snapshot()
	assert.False(t, s.Dismiss(2))

	assert.Equal(t, first, s.Snapshot())
	assert.Equal(t, []int64{4, 3, 1}, ids(first))
	assert.Equal(t, int64(1), s.Stats().Dismissed)
}

func TestStoreDismissMissing(t *testing.T) {
	s := NewStore(5)
	s.Seed(seedEntries(2))
	before := s.Snapshot()

	assert.False(t, s.Dismiss(123))
	assert.Equal(t, before, s.Snapshot())
}

func newTestInjector(t *testing.T, store *Store) (*Injector, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	inj := NewInjector(store, InjectorConfig{Template: syntheticTemplate}, clock, nil, nil)
	t.Cleanup(inj.Stop)
	return inj, clock
}

// tick advances one interval and waits for the resulting injection.
func tick(t *testing.T, clock *clockwork.FakeClock, store *Store) {
	t.Helper()
	want := store.Stats().Injected + 1
	clock.Advance(DefaultInjectInterval)
	require.Eventually(t, func() bool {
		return store.Stats().Injected == want
	}, time.Second, time.Millisecond)
}

func TestInjectorSeedFiveInjectOne(t *testing.T) {
	store := NewStore(5)
	store.Seed(seedEntries(5))
	inj, clock := newTestInjector(t, store)
	inj.Start()

	tick(t, clock, store)

	snap := store.Snapshot()
	require.Len(t, snap, 5)
	assert.Equal(t, syntheticTemplate.Message, snap[0].Message)
	assert.Equal(t, models.SeverityCritical, snap[0].Severity)
	assert.True(t, snap[0].IsNew)
	assert.Equal(t, []int64{5, 4, 3, 2}, ids(snap[1:]))
}

func TestInjectorClearsNewFlag(t *testing.T) {
	store := NewStore(5)
	inj, clock := newTestInjector(t, store)
	inj.Start()

	tick(t, clock, store)
	require.Eventually(t, func() bool { return inj.Pending() == 1 }, time.Second, time.Millisecond)

	clock.Advance(DefaultNewFlagTTL - time.Millisecond)
	assert.True(t, store.Snapshot()[0].IsNew)

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool {
		return !store.Snapshot()[0].IsNew && inj.Pending() == 0
	}, time.Second, time.Millisecond)
}

func TestInjectorSetTemplate(t *testing.T) {
	store := NewStore(5)
	inj, clock := newTestInjector(t, store)
	inj.Start()

	tick(t, clock, store)
	inj.SetTemplate(models.AlertTemplate{Severity: models.SeverityHigh, Message: "replaced template"})
	tick(t, clock, store)

	snap := store.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "replaced template", snap[0].Message)
	assert.Equal(t, models.SeverityHigh, snap[0].Severity)
	assert.Equal(t, syntheticTemplate.Message, snap[1].Message)
}

func TestInjectorEvictsOldest(t *testing.T) {
	store := NewStore(5)
	inj, clock := newTestInjector(t, store)
	inj.Start()

	for range 7 {
		tick(t, clock, store)
	}

	assert.Equal(t, 5, store.Len())
	assert.Equal(t, int64(2), store.Stats().Evicted)

	snap := store.Snapshot()
	for i := 1; i < len(snap); i++ {
		assert.Greater(t, snap[i-1].ID, snap[i].ID)
	}
}

func TestInjectorStartIdempotent(t *testing.T) {
	store := NewStore(5)
	inj, clock := newTestInjector(t, store)
	inj.Start()
	inj.Start()
	assert.True(t, inj.Running())

	tick(t, clock, store)
	// A second loop would inject again on the same tick.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), store.Stats().Injected)
}

func TestInjectorStopReleasesTimers(t *testing.T) {
	store := NewStore(5)
	inj, clock := newTestInjector(t, store)
	inj.Start()

	tick(t, clock, store)
	require.Eventually(t, func() bool { return inj.Pending() == 1 }, time.Second, time.Millisecond)

	inj.Stop()
	inj.Stop()
	assert.False(t, inj.Running())
	assert.Zero(t, inj.Pending())

	clock.Advance(DefaultInjectInterval)
	time.Sleep(20 * time.Millisecond)

	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, snap[0].IsNew)
	assert.Equal(t, int64(1), store.Stats().Injected)
}

func TestInjectorRestart(t *testing.T) {
	store := NewStore(5)
	inj, clock := newTestInjector(t, store)

	inj.Start()
	tick(t, clock, store)
	inj.Stop()

	inj.Start()
	tick(t, clock, store)
	assert.Equal(t, 2, store.Len())
}
