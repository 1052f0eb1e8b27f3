package models

import "strings"

// RiskLevel is the verdict of an analysis.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
	RiskUnknown  RiskLevel = "Unknown"
	RiskSafe     RiskLevel = "Safe"
)

// ParseRiskLevel normalizes a risk level string. Unrecognized values map to RiskUnknown.
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	case "critical":
		return RiskCritical
	case "safe":
		return RiskSafe
	default:
		return RiskUnknown
	}
}

// IsSevere reports whether the level triggers automated response.
func (r RiskLevel) IsSevere() bool {
	return r == RiskHigh || r == RiskCritical
}

// AnalysisResult is the verdict for a URL, file name or file hash.
type AnalysisResult struct {
	RiskLevel       RiskLevel `json:"riskLevel"`
	Summary         string    `json:"summary"`
	Recommendations string    `json:"recommendations,omitempty"`
}

// PasswordStrengthResult is the verdict for a password.
type PasswordStrengthResult struct {
	Score       int      `json:"score"`
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
}

// Strength returns the display label for the score.
func (p PasswordStrengthResult) Strength() string {
	switch {
	case p.Score > 80:
		return "Very Strong"
	case p.Score > 60:
		return "Strong"
	case p.Score > 40:
		return "Moderate"
	case p.Score > 20:
		return "Weak"
	default:
		return "Very Weak"
	}
}
