package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout    = 30 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 4
	aggregationStrategy   = "simple"
	maxErrorBodySnippet   = 240
)

// Config captures the runtime settings required to reach the inference endpoint.
type Config struct {
	Endpoint       string
	Model          string
	APIToken       string
	TimeoutSeconds int
}

// HTTPClient calls a token-classification model over HTTP.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default attempt count (defaults to 4).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *HTTPClient) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *HTTPClient) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *HTTPClient) {
		c.sleeper = sleeper
	}
}

// NewHTTPClient constructs a client for the configured model.
func NewHTTPClient(cfg Config, opts ...Option) *HTTPClient {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	cfg.Model = strings.Trim(strings.TrimSpace(cfg.Model), "/")
	client := &HTTPClient{
		cfg:              cfg,
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Model returns the configured model identifier.
func (c *HTTPClient) Model() string {
	return c.cfg.Model
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	if e == nil {
		return "ner request: http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("ner request: http %d", e.StatusCode)
	}
	return fmt.Sprintf("ner request: http %d: %s", e.StatusCode, e.Body)
}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters"`
	Options    map[string]any `json:"options"`
}

// Extract classifies text. Empty text yields no entities without a request.
func (c *HTTPClient) Extract(ctx context.Context, text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []Entity{}, nil
	}
	payload := inferenceRequest{
		Inputs:     text,
		Parameters: map[string]any{"aggregation_strategy": aggregationStrategy},
		Options:    map[string]any{"wait_for_model": true},
	}

	attempts := c.retryAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		entities, err := c.sendOnce(ctx, payload)
		if err == nil {
			return entities, nil
		}
		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			if attempt > 1 {
				return nil, fmt.Errorf("ner extract: failed after %d attempts: %w", attempt, err)
			}
			return nil, err
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return nil, fmt.Errorf("ner extract: failed after %d attempts: %w", attempts, lastErr)
}

func (c *HTTPClient) endpoint() (string, error) {
	if c.cfg.Endpoint == "" {
		return "", errors.New("endpoint not configured")
	}
	if c.cfg.Model == "" {
		return c.cfg.Endpoint, nil
	}
	return url.JoinPath(c.cfg.Endpoint, strings.Split(c.cfg.Model, "/")...)
}

func (c *HTTPClient) sendOnce(ctx context.Context, payload inferenceRequest) ([]Entity, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, fmt.Errorf("ner request: build url: %w", err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ner request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("ner request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := strings.TrimSpace(c.cfg.APIToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request: http error (timeout=%s): %w", c.timeoutDuration(), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ner request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, ok := parseRetryAfter(resp.Header.Get("Retry-After"))
		if !ok && resp.StatusCode == http.StatusServiceUnavailable {
			retryAfter = estimatedLoadTime(body)
		}
		return nil, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       snippet(string(body)),
			RetryAfter: retryAfter,
		}
	}
	return decodeEntities(body)
}

// decodeEntities accepts a flat entity list or a batch-shaped list of lists.
func decodeEntities(body []byte) ([]Entity, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("ner request: empty response")
	}
	if trimmed[0] == '{' {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("ner request: api error: %s", strings.TrimSpace(apiErr.Error))
		}
		return nil, fmt.Errorf("ner request: unexpected object response: %s", snippet(string(trimmed)))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("ner request: decode response: %w", err)
	}
	entities := make([]Entity, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '[' {
			var nested []Entity
			if err := json.Unmarshal(item, &nested); err != nil {
				return nil, fmt.Errorf("ner request: decode nested entities: %w", err)
			}
			entities = append(entities, nested...)
			continue
		}
		var entity Entity
		if err := json.Unmarshal(item, &entity); err != nil {
			return nil, fmt.Errorf("ner request: decode entity: %w", err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func estimatedLoadTime(body []byte) time.Duration {
	var loading struct {
		EstimatedTime float64 `json:"estimated_time"`
	}
	if err := json.Unmarshal(body, &loading); err != nil || loading.EstimatedTime <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(loading.EstimatedTime)) * time.Second
}

func (c *HTTPClient) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}

func (c *HTTPClient) retryAttempts() int {
	if c == nil || c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *HTTPClient) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

// backoffDelay doubles the base delay per attempt: 1 -> base, 2 -> base*2, ...
func (c *HTTPClient) backoffDelay(attempt int) time.Duration {
	base := defaultRetryBaseDelay
	maxDelay := defaultRetryMaxDelay
	if c.retryBaseDelay >= 0 {
		base = c.retryBaseDelay
	}
	if c.retryMaxDelay > 0 {
		maxDelay = c.retryMaxDelay
	}
	if base <= 0 {
		return 0
	}
	if attempt <= 0 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *HTTPClient) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := defaultRetryMaxDelay
	if c.retryMaxDelay > 0 {
		maxDelay = c.retryMaxDelay
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *HTTPClient) sleep(ctx context.Context, delay time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if delay <= 0 {
		return nil
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func snippet(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if len(body) <= maxErrorBodySnippet {
		return body
	}
	return body[:maxErrorBodySnippet] + "..."
}
