// Package executor performs outbound JSON POSTs to the CRM API with a fixed
// retry policy: a bounded number of attempts separated by a constant delay.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/tjfontaine/crm-webhook-relay/internal/telemetry"
)

const (
	DefaultMaxAttempts    = 3
	DefaultDelay          = 5 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// ErrExhaustedRetries is matched by every error returned after the last
// allowed attempt failed.
var ErrExhaustedRetries = errors.New("upstream request failed on every attempt")

// ExhaustedError reports an operation that never succeeded.
type ExhaustedError struct {
	Endpoint string
	Attempts int
	LastErr  error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: %d attempt(s) failed: %v", e.Endpoint, e.Attempts, e.LastErr)
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhaustedRetries
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

// StatusError is the per-attempt failure for a non-2xx upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Waiter blocks for d or until ctx is done.
type Waiter func(ctx context.Context, d time.Duration) error

// Response is a successful (2xx) upstream reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Attempts   int
}

// Executor posts JSON payloads and retries failed attempts.
type Executor struct {
	client         HTTPDoer
	maxAttempts    int
	delay          time.Duration
	requestTimeout time.Duration
	wait           Waiter
	logger         *slog.Logger
	metrics        *telemetry.Metrics
}

// New creates an Executor with the default policy of 3 attempts 5s apart.
func New(opts ...Option) *Executor {
	e := &Executor{
		client:         http.DefaultClient,
		maxAttempts:    DefaultMaxAttempts,
		delay:          DefaultDelay,
		requestTimeout: DefaultRequestTimeout,
		wait:           sleep,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxAttempts returns the configured attempt bound.
func (e *Executor) MaxAttempts() int {
	return e.maxAttempts
}

// Execute POSTs payload as JSON to target until a 2xx response arrives or the
// attempt bound is reached. Transport errors, timeouts and non-2xx statuses
// are all treated as retryable. On exhaustion the returned error matches
// ErrExhaustedRetries.
func (e *Executor) Execute(ctx context.Context, target string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal upstream payload: %w", err)
	}

	endpoint := endpointName(target)
	logger := e.logger.With(slog.String("endpoint", endpoint))

	var lastErr error
	attempt := 0
	for attempt < e.maxAttempts {
		attempt++
		logger.Info("upstream attempt",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", e.maxAttempts),
		)

		resp, err := e.attempt(ctx, target, body)
		if err == nil {
			e.metrics.UpstreamAttempt(endpoint, "success")
			logger.Info("upstream attempt succeeded",
				slog.Int("attempt", attempt),
				slog.Int("status", resp.StatusCode),
			)
			resp.Attempts = attempt
			return resp, nil
		}
		lastErr = err
		e.metrics.UpstreamAttempt(endpoint, "failure")
		logger.Warn("upstream attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		// Don't retry on context cancellation
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
		if attempt == e.maxAttempts {
			break
		}

		logger.Info("waiting before retry",
			slog.Int("attempt", attempt),
			slog.Duration("delay", e.delay),
		)
		if err := e.wait(ctx, e.delay); err != nil {
			lastErr = err
			break
		}
	}

	e.metrics.UpstreamExhausted(endpoint)
	logger.Error("upstream attempts exhausted",
		slog.Int("attempts", attempt),
		slog.String("error", lastErr.Error()),
	)
	return nil, &ExhaustedError{Endpoint: endpoint, Attempts: attempt, LastErr: lastErr}
}

func (e *Executor) attempt(ctx context.Context, target string, body []byte) (*Response, error) {
	if e.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.requestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		// *url.Error repeats the URL, which carries the webhook token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// sleep waits on a timer so that only the calling goroutine is parked.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// endpointName returns the REST method segment of target. The full URL
// embeds the webhook token and must not reach logs or metric labels.
func endpointName(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Path == "" {
		return "unknown"
	}
	return path.Base(u.Path)
}
