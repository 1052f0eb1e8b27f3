package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/good-yellow-bee/cyberguard/pkg/config"
)

// Gemini defaults.
const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGeminiTimeout = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryInterval = 500 * time.Millisecond
	DefaultRetryElapsed  = 2 * time.Minute
	DefaultRateLimit     = 2.0
	DefaultRateBurst     = 4
)

var (
	ErrMissingAPIKey  = errors.New("gemini API key is required")
	ErrEmptyCandidate = errors.New("gemini response has no candidate text")
)

// APIError is a non-2xx response from the Gemini API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error: status %d, body: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// GeminiConfig holds Gemini API client configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// MaxRetries bounds retries of rate-limited and server-failed requests.
	// Zero uses DefaultMaxRetries; a negative value disables retries.
	MaxRetries    int
	RetryInterval time.Duration

	// RetryElapsed caps the total time spent retrying one request.
	RetryElapsed time.Duration

	// RateLimit is the sustained request rate per second.
	RateLimit float64
	RateBurst int

	// HTTPClient overrides the default client. Its timeout is left as is.
	HTTPClient *http.Client
}

func (c *GeminiConfig) setDefaults() {
	if c.Model == "" {
		c.Model = DefaultGeminiModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultGeminiBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultGeminiTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	if c.RetryElapsed <= 0 {
		c.RetryElapsed = DefaultRetryElapsed
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = DefaultRateBurst
	}
}

// Validate validates the Gemini configuration.
func (c *GeminiConfig) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "https://") && !strings.HasPrefix(c.BaseURL, "http://") {
		return fmt.Errorf("base URL must be an http(s) URL: %q", c.BaseURL)
	}
	return nil
}

// GeminiClient is a Generator backed by the Gemini generateContent REST API.
type GeminiClient struct {
	config     GeminiConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

var _ Generator = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(cfg GeminiConfig, log *zap.Logger) (*GeminiClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gemini config: %w", err)
	}
	cfg.setDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &GeminiClient{
		config:     cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		log:        log,
	}, nil
}

// Model returns the configured model name.
func (g *GeminiClient) Model() string {
	return g.config.Model
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns the JSON text of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.config.RetryInterval
	bo.MaxElapsedTime = g.config.RetryElapsed
	var policy backoff.BackOff = &backoff.StopBackOff{}
	if g.config.MaxRetries > 0 {
		policy = backoff.WithMaxRetries(bo, uint64(g.config.MaxRetries))
	}
	policy = backoff.WithContext(policy, ctx)

	var text string
	err = backoff.RetryNotify(func() error {
		var apiErr *APIError
		t, err := g.send(ctx, body)
		switch {
		case err == nil:
			text = t
			return nil
		case ctx.Err() != nil:
			return backoff.Permanent(err)
		case errors.As(err, &apiErr) && !apiErr.Retryable():
			return backoff.Permanent(err)
		case errors.Is(err, ErrEmptyCandidate):
			return backoff.Permanent(err)
		default:
			return err
		}
	}, policy, func(err error, wait time.Duration) {
		g.log.Debug("retrying gemini request",
			zap.Error(err),
			zap.Duration("wait", wait))
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *GeminiClient) send(ctx context.Context, body []byte) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.config.BaseURL, g.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(msg)}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmptyCandidate
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyCandidate
	}
	return sb.String(), nil
}
