// Package models defines domain models for CyberGuard.
package models

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of an alert or threat.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// ParseSeverity converts a string to Severity, ignoring case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// AlertEntry is an active alert on the dashboard.
// IsNew marks the highlight shown right after injection.
type AlertEntry struct {
	ID       int64    `json:"id" yaml:"id"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	IsNew    bool     `json:"is_new" yaml:"is_new"`
}

// AlertTemplate describes the synthetic alert produced by the injector.
type AlertTemplate struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Validate checks the template. Only Critical and High alerts exist.
func (t AlertTemplate) Validate() error {
	if t.Severity != SeverityCritical && t.Severity != SeverityHigh {
		return fmt.Errorf("alert severity must be Critical or High, got %q", t.Severity)
	}
	if t.Message == "" {
		return fmt.Errorf("alert message is required")
	}
	return nil
}

// NewEntry builds a fresh, highlighted alert from the template.
func (t AlertTemplate) NewEntry(id int64) AlertEntry {
	return AlertEntry{
		ID:       id,
		Severity: t.Severity,
		Message:  t.Message,
		IsNew:    true,
	}
}
