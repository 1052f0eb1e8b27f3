// Package analysis evaluates URLs, passwords, filenames and file hashes for
// security risk. Analysis never fails: when the backing model cannot produce
// an answer a fixed fallback result is returned instead.
package analysis

import (
	"context"

	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// Analyzer evaluates user supplied artifacts.
type Analyzer interface {
	AnalyzeURL(ctx context.Context, url string) models.AnalysisResult
	AnalyzePassword(ctx context.Context, password string) models.PasswordStrengthResult
	AnalyzeFile(ctx context.Context, filename string) models.AnalysisResult
	AnalyzeFileHash(ctx context.Context, hash string) models.AnalysisResult
}

// Kind identifies an analysis operation in logs and metrics.
type Kind string

const (
	KindURL      Kind = "url"
	KindPassword Kind = "password"
	KindFile     Kind = "file"
	KindHash     Kind = "hash"
)

// Fallback results returned when analysis cannot complete.
var (
	FallbackURL = models.AnalysisResult{
		RiskLevel: models.RiskUnknown,
		Summary:   "Could not analyze the URL. The API may be unavailable or the URL may be malformed.",
	}
	FallbackFile = models.AnalysisResult{
		RiskLevel: models.RiskUnknown,
		Summary:   "Could not analyze the file. The API may be unavailable.",
	}
	FallbackHash = models.AnalysisResult{
		RiskLevel: models.RiskUnknown,
		Summary:   "Could not analyze the file hash. The API may be unavailable or the hash may be malformed.",
	}
)

// FallbackPassword returns the password fallback result. Suggestions is an
// empty, non-nil slice so it encodes as [].
func FallbackPassword() models.PasswordStrengthResult {
	return models.PasswordStrengthResult{
		Score:       0,
		Explanation: "Could not analyze the password. The API may be unavailable.",
		Suggestions: []string{},
	}
}
