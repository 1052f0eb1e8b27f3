package models

import "fmt"

// ThreatTemplate is an archetype sampled by the threat feed.
type ThreatTemplate struct {
	Type     string   `json:"type" yaml:"type"`
	Target   string   `json:"target" yaml:"target"`
	Region   string   `json:"region" yaml:"region"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// Validate validates the template fields.
func (t ThreatTemplate) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("threat type is required")
	}
	if t.Target == "" {
		return fmt.Errorf("threat target is required for %q", t.Type)
	}
	if t.Region == "" {
		return fmt.Errorf("threat region is required for %q", t.Type)
	}
	if !t.Severity.IsValid() {
		return fmt.Errorf("invalid severity %q for threat %q", t.Severity, t.Type)
	}
	return nil
}

// Stamp creates a feed entry from the template with the given display time.
func (t ThreatTemplate) Stamp(at string) ThreatFeedEntry {
	return ThreatFeedEntry{
		Type:     t.Type,
		Target:   t.Target,
		Region:   t.Region,
		Severity: t.Severity,
		Time:     at,
	}
}

// ThreatFeedEntry is an immutable entry of the live threat feed.
type ThreatFeedEntry struct {
	Type     string   `json:"type"`
	Target   string   `json:"target"`
	Region   string   `json:"region"`
	Severity Severity `json:"severity"`
	Time     string   `json:"time"`
}
