package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/good-yellow-bee/cyberguard/internal/analysis"
	"github.com/good-yellow-bee/cyberguard/internal/api"
	"github.com/good-yellow-bee/cyberguard/internal/dashboard"
)

// APIKeyEnv names the environment variable holding the analysis API key.
const APIKeyEnv = "CYBERGUARD_API_KEY"

// Duration is a time.Duration written as a string such as "10s" or "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Config represents the cyberguard configuration file.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Simulation SimulationConfig `yaml:"simulation"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	HTTPAddress       string   `yaml:"http_address"`        // API listen address (default: :8080)
	MetricsAddress    string   `yaml:"metrics_address"`     // Prometheus listen address (default: :9090)
	AnalysisRateLimit int      `yaml:"analysis_rate_limit"` // analysis requests per minute per IP
	ToolTimeout       Duration `yaml:"tool_timeout"`
	StreamHeartbeat   Duration `yaml:"stream_heartbeat"`
	StreamMaxDuration Duration `yaml:"stream_max_duration"`
}

// SimulationConfig contains the dashboard timers and capacities.
type SimulationConfig struct {
	AlertInterval  Duration `yaml:"alert_interval"`
	NewFlagTTL     Duration `yaml:"new_flag_ttl"`
	FeedInterval   Duration `yaml:"feed_interval"`
	AlertCapacity  int      `yaml:"alert_capacity"`
	FeedCapacity   int      `yaml:"feed_capacity"`
	ActionCapacity int      `yaml:"action_capacity"`
	TimeLayout     string   `yaml:"time_layout"`
	LeakDelay      Duration `yaml:"leak_delay"`
}

// CatalogConfig points at an optional catalog file.
type CatalogConfig struct {
	Path  string `yaml:"path"`  // empty uses the built-in catalog
	Watch bool   `yaml:"watch"` // reload the file when it changes
}

// AnalysisConfig contains the external analysis settings. The API key is
// read from the environment only.
type AnalysisConfig struct {
	Model      string   `yaml:"model"`
	BaseURL    string   `yaml:"base_url"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"` // negative disables retries
	RateLimit  float64  `yaml:"rate_limit"` // requests per second
	CacheTTL   Duration `yaml:"cache_ttl"`

	APIKey string `yaml:"-"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Format  string `yaml:"format"` // console or json
	Verbose bool   `yaml:"-"`      // set via CLI flag
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = ":8080"
	}
	if c.Server.MetricsAddress == "" {
		c.Server.MetricsAddress = ":9090"
	}
	if c.Simulation.AlertInterval.Duration == 0 {
		c.Simulation.AlertInterval.Duration = 10 * time.Second
	}
	if c.Simulation.NewFlagTTL.Duration == 0 {
		c.Simulation.NewFlagTTL.Duration = 3 * time.Second
	}
	if c.Simulation.FeedInterval.Duration == 0 {
		c.Simulation.FeedInterval.Duration = 3 * time.Second
	}
	if c.Simulation.AlertCapacity == 0 {
		c.Simulation.AlertCapacity = 5
	}
	if c.Simulation.FeedCapacity == 0 {
		c.Simulation.FeedCapacity = 20
	}
	if c.Simulation.ActionCapacity == 0 {
		c.Simulation.ActionCapacity = 10
	}
	if c.Simulation.TimeLayout == "" {
		c.Simulation.TimeLayout = "3:04:05 PM"
	}
	if c.Simulation.LeakDelay.Duration == 0 {
		c.Simulation.LeakDelay.Duration = 1500 * time.Millisecond
	}
	if c.Analysis.APIKey == "" {
		c.Analysis.APIKey = os.Getenv(APIKeyEnv)
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Simulation.AlertInterval.Duration < 0 || c.Simulation.NewFlagTTL.Duration < 0 ||
		c.Simulation.FeedInterval.Duration < 0 || c.Simulation.LeakDelay.Duration < 0 {
		return fmt.Errorf("simulation durations must not be negative")
	}
	if c.Simulation.AlertCapacity < 0 || c.Simulation.FeedCapacity < 0 || c.Simulation.ActionCapacity < 0 {
		return fmt.Errorf("simulation capacities must not be negative")
	}
	if c.Server.AnalysisRateLimit < 0 {
		return fmt.Errorf("server.analysis_rate_limit must not be negative")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Catalog.Watch && c.Catalog.Path == "" {
		return fmt.Errorf("catalog.watch requires catalog.path")
	}
	return nil
}

// sessionConfig maps the file settings onto the dashboard session.
func (c *Config) sessionConfig() dashboard.Config {
	cfg := dashboard.Config{
		AlertInterval:  c.Simulation.AlertInterval.Duration,
		NewFlagTTL:     c.Simulation.NewFlagTTL.Duration,
		FeedInterval:   c.Simulation.FeedInterval.Duration,
		AlertCapacity:  c.Simulation.AlertCapacity,
		FeedCapacity:   c.Simulation.FeedCapacity,
		ActionCapacity: c.Simulation.ActionCapacity,
		TimeLayout:     c.Simulation.TimeLayout,
		LeakDelay:      c.Simulation.LeakDelay.Duration,
	}
	if c.Catalog.Watch {
		cfg.CatalogPath = c.Catalog.Path
	}
	return cfg
}

// apiConfig maps the file settings onto the HTTP API server.
func (c *Config) apiConfig() *api.Config {
	return &api.Config{
		Address:           c.Server.HTTPAddress,
		AnalysisRateLimit: c.Server.AnalysisRateLimit,
		ToolTimeout:       c.Server.ToolTimeout.Duration,
		StreamHeartbeat:   c.Server.StreamHeartbeat.Duration,
		StreamMaxDuration: c.Server.StreamMaxDuration.Duration,
		Verbose:           c.Logging.Verbose,
	}
}

// geminiConfig maps the file settings onto the Gemini client.
func (c *Config) geminiConfig() analysis.GeminiConfig {
	return analysis.GeminiConfig{
		APIKey:     c.Analysis.APIKey,
		Model:      c.Analysis.Model,
		BaseURL:    c.Analysis.BaseURL,
		Timeout:    c.Analysis.Timeout.Duration,
		MaxRetries: c.Analysis.MaxRetries,
		RateLimit:  c.Analysis.RateLimit,
	}
}
