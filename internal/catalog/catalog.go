// Package catalog provides the archetypes sampled by the simulators:
// threat templates, the synthetic alert, seed data and static chart series.
package catalog

import (
	"fmt"
	"sort"

	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// Catalog is the pool of archetypes and seed data for a dashboard session.
type Catalog struct {
	// Threats are sampled uniformly by the threat feed.
	Threats []models.ThreatTemplate `yaml:"threats"`
	// SyntheticAlert is injected periodically into the alert store.
	SyntheticAlert models.AlertTemplate `yaml:"synthetic_alert"`
	// SeedAlerts initialize the alert store.
	SeedAlerts []models.AlertEntry `yaml:"seed_alerts"`
	// SeedNotifications initialize the notification center.
	SeedNotifications []models.NotificationEntry `yaml:"seed_notifications"`
	// Charts holds the static dashboard chart series.
	Charts Charts `yaml:"charts"`
}

// Charts contains the static series rendered by the dashboard.
type Charts struct {
	Events     []EventPoint    `yaml:"events" json:"events"`
	Anomalies  []AnomalyPoint  `yaml:"anomalies" json:"anomalies"`
	Categories []CategoryCount `yaml:"categories" json:"categories"`
}

// EventPoint is a daily event and alert count.
type EventPoint struct {
	Name   string `yaml:"name" json:"name"`
	Events int    `yaml:"events" json:"events"`
	Alerts int    `yaml:"alerts" json:"alerts"`
}

// AnomalyPoint is an anomaly count for a time slot.
type AnomalyPoint struct {
	Name      string `yaml:"name" json:"name"`
	Anomalies int    `yaml:"anomalies" json:"anomalies"`
}

// CategoryCount is the number of threats seen per category.
type CategoryCount struct {
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count" json:"count"`
}

// Validate validates the catalog contents.
func (c *Catalog) Validate() error {
	if len(c.Threats) == 0 {
		return fmt.Errorf("at least one threat template is required")
	}
	for i, t := range c.Threats {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("invalid threat at index %d: %w", i, err)
		}
	}

	if err := c.SyntheticAlert.Validate(); err != nil {
		return fmt.Errorf("invalid synthetic alert: %w", err)
	}

	seen := make(map[int64]bool, len(c.SeedAlerts))
	for i, a := range c.SeedAlerts {
		if err := (models.AlertTemplate{Severity: a.Severity, Message: a.Message}).Validate(); err != nil {
			return fmt.Errorf("invalid seed alert at index %d: %w", i, err)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate seed alert id %d", a.ID)
		}
		seen[a.ID] = true
	}

	seen = make(map[int64]bool, len(c.SeedNotifications))
	for i, n := range c.SeedNotifications {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("invalid seed notification at index %d: %w", i, err)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate seed notification id %d", n.ID)
		}
		seen[n.ID] = true
	}

	return nil
}

// ThreatTypes returns the sorted, de-duplicated threat categories.
func (c *Catalog) ThreatTypes() []string {
	set := make(map[string]struct{}, len(c.Threats))
	for _, t := range c.Threats {
		set[t.Type] = struct{}{}
	}

	types := make([]string, 0, len(set))
	for t := range set {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Threats:           append([]models.ThreatTemplate(nil), c.Threats...),
		SyntheticAlert:    c.SyntheticAlert,
		SeedAlerts:        append([]models.AlertEntry(nil), c.SeedAlerts...),
		SeedNotifications: append([]models.NotificationEntry(nil), c.SeedNotifications...),
		Charts: Charts{
			Events:     append([]EventPoint(nil), c.Charts.Events...),
			Anomalies:  append([]AnomalyPoint(nil), c.Charts.Anomalies...),
			Categories: append([]CategoryCount(nil), c.Charts.Categories...),
		},
	}
	return out
}

// fillDefaults copies default sections into empty ones.
func (c *Catalog) fillDefaults() {
	def := Default()
	if len(c.Threats) == 0 {
		c.Threats = def.Threats
	}
	if c.SyntheticAlert == (models.AlertTemplate{}) {
		c.SyntheticAlert = def.SyntheticAlert
	}
	if c.SeedAlerts == nil {
		c.SeedAlerts = def.SeedAlerts
	}
	if c.SeedNotifications == nil {
		c.SeedNotifications = def.SeedNotifications
	}
	if c.Charts.Events == nil {
		c.Charts.Events = def.Charts.Events
	}
	if c.Charts.Anomalies == nil {
		c.Charts.Anomalies = def.Charts.Anomalies
	}
	if c.Charts.Categories == nil {
		c.Charts.Categories = def.Charts.Categories
	}
}
