package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/cmurphy1140/WordWeave-sub001/internal/cache"
)

// Default client tuning. Generation is slow (the backend drives a language
// model), so the request timeout is generous while the rate limit keeps
// warm sweeps polite.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 2
)

// ClientConfig configures the backend client.
type ClientConfig struct {
	// BaseURL of the generation API, without a trailing slash.
	BaseURL string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero means
	// DefaultRequestsPerSecond.
	RequestsPerSecond float64
}

// Client calls the WordWeave generation backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a backend client from the given configuration.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// envelope is the backend's response wrapper.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// GeneratePoem asks the backend for a poem built from the word triple.
func (c *Client) GeneratePoem(ctx context.Context, in cache.Input) (*Poem, error) {
	body := map[string]string{
		"verb":      in.Verb,
		"adjective": in.Adjective,
		"noun":      in.Noun,
	}

	var poem Poem
	if err := c.post(ctx, "/generate", body, &poem); err != nil {
		return nil, fmt.Errorf("generate poem: %w", err)
	}
	log.Debug("generated poem", "input", in.String(), "words", poem.Metadata.WordCount)
	return &poem, nil
}

// AnalyzeTheme asks the backend for the visual-theme analysis of a poem.
func (c *Client) AnalyzeTheme(ctx context.Context, poemText string) (*ThemeAnalysis, error) {
	body := map[string]string{"poem": poemText}

	var analysis ThemeAnalysis
	if err := c.post(ctx, "/themes", body, &analysis); err != nil {
		return nil, fmt.Errorf("analyze theme: %w", err)
	}
	log.Debug("analyzed theme", "emotion", analysis.Emotion.Primary)
	return &analysis, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, msg)
	}
	if env.Data == nil {
		return fmt.Errorf("backend response missing data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
