package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/metrics"
	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// DefaultCacheTTL is how long URL, file and hash results are reused.
const DefaultCacheTTL = 10 * time.Minute

// Generator produces a JSON document for a prompt, shaped by schema.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *Schema) (string, error)
}

var errEmptySummary = errors.New("response has no summary")

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// CacheTTL is the result cache lifetime. Zero uses DefaultCacheTTL,
	// a negative value disables caching.
	CacheTTL time.Duration
}

// Service implements Analyzer on top of a Generator.
type Service struct {
	gen   Generator
	cache *cache.Cache
	log   *zap.Logger
}

var _ Analyzer = (*Service)(nil)

// NewService creates an analysis service.
func NewService(gen Generator, opts ServiceOptions, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{gen: gen, log: log}

	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

// AnalyzeURL rates a URL for phishing, malware and scam risk.
func (s *Service) AnalyzeURL(ctx context.Context, url string) models.AnalysisResult {
	return s.analyze(ctx, KindURL, url, urlPrompt(url), urlSchema, FallbackURL, nil)
}

// AnalyzeFile rates the risk of a file from its name.
func (s *Service) AnalyzeFile(ctx context.Context, filename string) models.AnalysisResult {
	return s.analyze(ctx, KindFile, filename, filePrompt(filename), fileSchema, FallbackFile, nil)
}

// AnalyzeFileHash rates a file hash against simulated threat intelligence.
// Results describing a clean or known-good file are always Low risk.
func (s *Service) AnalyzeFileHash(ctx context.Context, hash string) models.AnalysisResult {
	return s.analyze(ctx, KindHash, hash, hashPrompt(hash), hashSchema, FallbackHash, func(r *models.AnalysisResult) {
		summary := strings.ToLower(r.Summary)
		if strings.Contains(summary, "clean") || strings.Contains(summary, "known-good") {
			r.RiskLevel = models.RiskLow
		}
	})
}

// AnalyzePassword scores password strength from 0 to 100.
// Password results are never cached.
func (s *Service) AnalyzePassword(ctx context.Context, password string) models.PasswordStrengthResult {
	start := time.Now()
	defer observe(KindPassword, start)

	text, err := s.gen.Generate(ctx, passwordPrompt(password), passwordSchema)
	if err != nil {
		s.logFailure(KindPassword, err)
		return FallbackPassword()
	}

	var raw struct {
		Score       *float64 `json:"score"`
		Explanation string   `json:"explanation"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		s.logFailure(KindPassword, fmt.Errorf("decode response: %w", err))
		return FallbackPassword()
	}
	if raw.Score == nil {
		s.logFailure(KindPassword, errors.New("response has no score"))
		return FallbackPassword()
	}

	result := models.PasswordStrengthResult{
		Score:       clampScore(*raw.Score),
		Explanation: raw.Explanation,
		Suggestions: raw.Suggestions,
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	metrics.AnalysisRequestsTotal.WithLabelValues(string(KindPassword), "ok").Inc()
	return result
}

func (s *Service) analyze(ctx context.Context, kind Kind, input, prompt string, schema *Schema,
	fallback models.AnalysisResult, adjust func(*models.AnalysisResult)) models.AnalysisResult {
	key := cacheKey(kind, input)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			metrics.AnalysisRequestsTotal.WithLabelValues(string(kind), "cached").Inc()
			return v.(models.AnalysisResult)
		}
	}

	start := time.Now()
	defer observe(kind, start)

	text, err := s.gen.Generate(ctx, prompt, schema)
	if err != nil {
		return s.fail(kind, err, fallback)
	}

	result, err := decodeResult(text)
	if err != nil {
		return s.fail(kind, err, fallback)
	}
	if adjust != nil {
		adjust(&result)
	}

	if s.cache != nil {
		s.cache.Set(key, result, cache.DefaultExpiration)
	}
	metrics.AnalysisRequestsTotal.WithLabelValues(string(kind), "ok").Inc()
	return result
}

func (s *Service) fail(kind Kind, err error, fallback models.AnalysisResult) models.AnalysisResult {
	s.logFailure(kind, err)
	return fallback
}

func (s *Service) logFailure(kind Kind, err error) {
	metrics.AnalysisRequestsTotal.WithLabelValues(string(kind), "fallback").Inc()
	s.log.Warn("analysis failed, returning fallback",
		zap.String("kind", string(kind)),
		zap.Error(err))
}

func decodeResult(text string) (models.AnalysisResult, error) {
	var raw struct {
		RiskLevel       string `json:"riskLevel"`
		Summary         string `json:"summary"`
		Recommendations string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(raw.Summary) == "" {
		return models.AnalysisResult{}, errEmptySummary
	}
	return models.AnalysisResult{
		RiskLevel:       models.ParseRiskLevel(raw.RiskLevel),
		Summary:         raw.Summary,
		Recommendations: raw.Recommendations,
	}, nil
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v + 0.5)
	}
}

func cacheKey(kind Kind, input string) string {
	sum := sha256.Sum256([]byte(input))
	return string(kind) + ":" + hex.EncodeToString(sum[:])
}

func observe(kind Kind, start time.Time) {
	metrics.AnalysisDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
}
