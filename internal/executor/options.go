package executor

import (
	"log/slog"
	"time"

	"github.com/tjfontaine/crm-webhook-relay/internal/telemetry"
)

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient sets the client used for every attempt.
func WithHTTPClient(client HTTPDoer) Option {
	return func(e *Executor) {
		if client != nil {
			e.client = client
		}
	}
}

// WithMaxAttempts sets the attempt bound. Values below 1 are raised to 1.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		if n < 1 {
			n = 1
		}
		e.maxAttempts = n
	}
}

// WithDelay sets the fixed wait between consecutive attempts.
func WithDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d >= 0 {
			e.delay = d
		}
	}
}

// WithRequestTimeout bounds each individual attempt. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d >= 0 {
			e.requestTimeout = d
		}
	}
}

// WithWaiter replaces the inter-attempt wait.
func WithWaiter(w Waiter) Option {
	return func(e *Executor) {
		if w != nil {
			e.wait = w
		}
	}
}

// WithLogger sets the logger for per-attempt events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records attempt outcomes.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}
