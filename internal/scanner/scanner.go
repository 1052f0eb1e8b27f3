// Package scanner runs the interactive security tools: URL, password, file
// and hash analysis plus the simulated leak lookup. High-risk file and hash
// results trigger an automated response that is recorded in an action log.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/analysis"
	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// Tool names a scanner tool.
type Tool string

const (
	ToolURL      Tool = "url"
	ToolPassword Tool = "password"
	ToolFile     Tool = "file"
	ToolHash     Tool = "hash"
	ToolLeak     Tool = "leak"
)

// Tools lists every tool.
var Tools = []Tool{ToolURL, ToolPassword, ToolFile, ToolHash, ToolLeak}

// Defaults.
const (
	DefaultLeakDelay        = 1500 * time.Millisecond
	DefaultActionTimeLayout = "1/2/2006, 3:04:05 PM"
)

// Automated response triggers.
const (
	TriggerCritical = "Critical Threat Detection"
	TriggerHigh     = "High-Risk Anomaly"
)

// ErrEmptyInput is returned when a tool is invoked without input.
var ErrEmptyInput = errors.New("input is required")

// RandomSource decides simulated outcomes. IntN returns a value in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Config configures a Scanner.
type Config struct {
	ActionCapacity   int
	LeakDelay        time.Duration
	ActionTimeLayout string
}

func (c *Config) setDefaults() {
	if c.ActionCapacity <= 0 {
		c.ActionCapacity = DefaultActionCapacity
	}
	if c.LeakDelay <= 0 {
		c.LeakDelay = DefaultLeakDelay
	}
	if c.ActionTimeLayout == "" {
		c.ActionTimeLayout = DefaultActionTimeLayout
	}
}

// ScanAlert is the banner raised by a high-risk scan.
type ScanAlert struct {
	Message string           `json:"message"`
	Level   models.RiskLevel `json:"level"`
}

// ScanReport is the outcome of a file or hash scan.
type ScanReport struct {
	Result models.AnalysisResult   `json:"result"`
	Alert  *ScanAlert              `json:"alert,omitempty"`
	Action *models.AutomatedAction `json:"action,omitempty"`
}

// LeakReport is the outcome of a leak lookup.
type LeakReport struct {
	Query   string `json:"query"`
	Found   bool   `json:"found"`
	Message string `json:"message"`
}

// Scanner runs the security tools against an Analyzer. Each tool accepts one
// request at a time.
type Scanner struct {
	analyzer analysis.Analyzer
	cfg      Config
	clock    clockwork.Clock
	rand     RandomSource
	ids      *models.IDSequence
	actions  *ActionLog
	log      *zap.Logger

	guards map[Tool]*Guard

	mu   sync.RWMutex
	last map[Tool]any
}

// New creates a scanner. Nil clock, random source and id sequence fall back
// to the real clock, math/rand and a private sequence.
func New(analyzer analysis.Analyzer, cfg Config, clock clockwork.Clock, rnd RandomSource, ids *models.IDSequence, log *zap.Logger) *Scanner {
	cfg.setDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if rnd == nil {
		rnd = globalRand{}
	}
	if ids == nil {
		ids = &models.IDSequence{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	guards := make(map[Tool]*Guard, len(Tools))
	for _, t := range Tools {
		guards[t] = &Guard{}
	}

	return &Scanner{
		analyzer: analyzer,
		cfg:      cfg,
		clock:    clock,
		rand:     rnd,
		ids:      ids,
		actions:  NewActionLog(cfg.ActionCapacity),
		log:      log,
		guards:   guards,
		last:     make(map[Tool]any),
	}
}

// CheckURL analyzes a URL.
func (s *Scanner) CheckURL(ctx context.Context, url string) (models.AnalysisResult, error) {
	return run(ctx, s, ToolURL, url, func(ctx context.Context, in string) (models.AnalysisResult, error) {
		return s.analyzer.AnalyzeURL(ctx, in), nil
	})
}

// CheckPassword scores a password. The password is never logged or kept;
// only the result is remembered.
func (s *Scanner) CheckPassword(ctx context.Context, password string) (models.PasswordStrengthResult, error) {
	return run(ctx, s, ToolPassword, password, func(ctx context.Context, in string) (models.PasswordStrengthResult, error) {
		return s.analyzer.AnalyzePassword(ctx, in), nil
	})
}

// ScanFile analyzes a file by name and triggers an automated response for
// high-risk results.
func (s *Scanner) ScanFile(ctx context.Context, filename string) (ScanReport, error) {
	return run(ctx, s, ToolFile, filename, func(ctx context.Context, in string) (ScanReport, error) {
		result := s.analyzer.AnalyzeFile(ctx, in)
		return s.respond(result, in, fmt.Sprintf("High-risk file detected: %s. Automated response protocols initiated.", in)), nil
	})
}

// ScanHash analyzes a file hash and triggers an automated response for
// high-risk results.
func (s *Scanner) ScanHash(ctx context.Context, hash string) (ScanReport, error) {
	return run(ctx, s, ToolHash, hash, func(ctx context.Context, in string) (ScanReport, error) {
		result := s.analyzer.AnalyzeFileHash(ctx, in)
		return s.respond(result, in, "Malicious hash detected. Automated blocking and response protocols initiated."), nil
	})
}

// CheckLeak simulates a dark web lookup for an email address or phone number.
func (s *Scanner) CheckLeak(ctx context.Context, query string) (LeakReport, error) {
	return run(ctx, s, ToolLeak, query, func(ctx context.Context, in string) (LeakReport, error) {
		timer := s.clock.NewTimer(s.cfg.LeakDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return LeakReport{}, ctx.Err()
		case <-timer.Chan():
		}

		if s.rand.IntN(2) == 1 {
			return LeakReport{
				Query: in,
				Found: true,
				Message: fmt.Sprintf("Potential leak found for %q on a dark web marketplace. "+
					"Immediate password change recommended for associated accounts.", in),
			}, nil
		}
		return LeakReport{
			Query:   in,
			Message: fmt.Sprintf("No leaks found for %q in our database.", in),
		}, nil
	})
}

func (s *Scanner) respond(result models.AnalysisResult, trigger, message string) ScanReport {
	report := ScanReport{Result: result}
	if !result.RiskLevel.IsSevere() {
		return report
	}

	now := s.clock.Now()
	action := models.AutomatedAction{
		ID:        s.ids.Next(now),
		Timestamp: now.Format(s.cfg.ActionTimeLayout),
		Action:    fmt.Sprintf("Threat associated with '%s' automatically blocked.", trigger),
		Trigger:   TriggerHigh,
		Status:    models.ActionCompleted,
	}
	if result.RiskLevel == models.RiskCritical {
		action.Trigger = TriggerCritical
	}
	s.actions.Record(action)

	s.log.Info("automated response triggered",
		zap.String("risk", string(result.RiskLevel)),
		zap.String("trigger", action.Trigger),
		zap.Int64("action_id", action.ID))

	report.Alert = &ScanAlert{Message: message, Level: result.RiskLevel}
	report.Action = &action
	return report
}

func run[T any](ctx context.Context, s *Scanner, tool Tool, input string, fn func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if tool != ToolPassword {
		input = strings.TrimSpace(input)
	}
	if input == "" {
		return zero, ErrEmptyInput
	}

	g := s.guards[tool]
	ticket, err := g.Begin()
	if err != nil {
		return zero, err
	}

	result, err := fn(ctx, input)
	if err != nil {
		g.Finish(ticket, nil)
		return zero, err
	}

	if !g.Finish(ticket, func() { s.setLast(tool, result) }) {
		s.log.Debug("discarding stale result", zap.String("tool", string(tool)))
		return zero, ErrStale
	}
	return result, nil
}

func (s *Scanner) setLast(tool Tool, v any) {
	s.mu.Lock()
	s.last[tool] = v
	s.mu.Unlock()
}

// Last returns the most recently applied result for a tool.
func (s *Scanner) Last(tool Tool) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.last[tool]
	return v, ok
}

// Pending reports whether the tool has a request in flight.
func (s *Scanner) Pending(tool Tool) bool {
	g, ok := s.guards[tool]
	return ok && g.Pending()
}

// Cancel releases the tool for a new request. The in-flight result, if any,
// is discarded when it arrives.
func (s *Scanner) Cancel(tool Tool) {
	if g, ok := s.guards[tool]; ok {
		g.Abandon()
	}
}

// Actions returns the automated response log, newest first.
func (s *Scanner) Actions() []models.AutomatedAction {
	return s.actions.Snapshot()
}
