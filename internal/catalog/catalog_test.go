package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/cyberguard/internal/models"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Len(t, c.Threats, 8)
	assert.Len(t, c.SeedAlerts, 4)
	assert.Len(t, c.SeedNotifications, 5)
	assert.Equal(t, models.SeverityCritical, c.SyntheticAlert.Severity)
	assert.Len(t, c.Charts.Events, 7)
	assert.Len(t, c.Charts.Anomalies, 12)
}

func TestThreatTypesSortedUnique(t *testing.T) {
	c := Default()
	c.Threats = append(c.Threats, models.ThreatTemplate{
		Type: "Phishing", Target: "Universities", Region: "Europe", Severity: models.SeverityLow,
	})

	got := c.ThreatTypes()
	want := []string{"Adware", "DDoS", "Insider Threat", "Malware", "Phishing", "Ransomware", "SQL Injection", "Zero-Day"}
	assert.Equal(t, want, got)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	c, err := LoadBytes([]byte(`
threats:
  - type: Botnet
    target: IoT Devices
    region: Asia
    severity: High
`))
	require.NoError(t, err)

	require.Len(t, c.Threats, 1)
	assert.Equal(t, "Botnet", c.Threats[0].Type)
	assert.Equal(t, Default().SyntheticAlert, c.SyntheticAlert)
	assert.Len(t, c.SeedAlerts, 4)
	assert.Len(t, c.SeedNotifications, 5)
}

func TestLoadEmptyDocument(t *testing.T) {
	c, err := LoadBytes(nil)
	require.NoError(t, err)
	assert.Len(t, c.Threats, 8)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{
			name: "bad threat severity",
			yaml: `
threats:
  - {type: Worm, target: Servers, region: Global, severity: Extreme}
`,
			errMsg: "invalid threat at index 0",
		},
		{
			name: "synthetic alert must be critical or high",
			yaml: `
synthetic_alert: {severity: Low, message: "noise"}
`,
			errMsg: "invalid synthetic alert",
		},
		{
			name: "duplicate seed alert ids",
			yaml: `
seed_alerts:
  - {id: 1, severity: High, message: a}
  - {id: 1, severity: High, message: b}
`,
			errMsg: "duplicate seed alert id 1",
		},
		{
			name: "bad notification type",
			yaml: `
seed_notifications:
  - {id: 1, type: Info, message: hello, timestamp: now}
`,
			errMsg: "invalid seed notification",
		},
		{
			name:   "unknown field",
			yaml:   "threat_list: []\n",
			errMsg: "failed to parse catalog YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errMsg), "error %q should contain %q", err, tt.errMsg)
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := Default()
	clone := c.Clone()
	clone.Threats[0].Type = "Changed"
	clone.SeedNotifications[0].IsRead = true

	assert.Equal(t, "Phishing", c.Threats[0].Type)
	assert.False(t, c.SeedNotifications[0].IsRead)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threats:\n  - {type: A, target: T, region: R, severity: Low}\n"), 0o600))

	reloaded := make(chan *Catalog, 4)
	w, err := NewWatcher(path, func(c *Catalog) { reloaded <- c }, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("threats:\n  - {type: B, target: T, region: R, severity: High}\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-reloaded:
			require.Len(t, c.Threats, 1)
			if c.Threats[0].Type == "B" {
				return
			}
		case <-deadline:
			t.Fatal("catalog was not reloaded")
		}
	}
}

func TestWatcherIgnoresInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	reloaded := make(chan *Catalog, 4)
	w, err := NewWatcher(path, func(c *Catalog) { reloaded <- c }, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("threats: [{type: X}]\n"), 0o600))

	select {
	case <-reloaded:
		t.Fatal("invalid catalog should not be delivered")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
