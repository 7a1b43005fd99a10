package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/glossary/metrics"
)

// Config defines retry behavior.
type Config struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	BackoffFactor float64
}

// DefaultConfig is the policy every remote call uses unless overridden.
var DefaultConfig = Config{
	MaxAttempts:   10,
	InitialDelay:  1 * time.Second,
	BackoffFactor: 2.0,
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Executor runs remote calls under a single back-off policy.
type Executor struct {
	cfg   Config
	sleep SleepFunc
	log   *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithSleep replaces the wall-clock sleeper.
func WithSleep(fn SleepFunc) Option {
	return func(e *Executor) {
		e.sleep = fn
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		e.log = l
	}
}

// NewExecutor creates an executor. Zero fields in cfg fall back to DefaultConfig.
func NewExecutor(cfg Config, opts ...Option) *Executor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig.MaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultConfig.InitialDelay
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = DefaultConfig.BackoffFactor
	}

	e := &Executor{
		cfg:   cfg,
		sleep: sleepContext,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the executor's policy.
func (e *Executor) Config() Config {
	return e.cfg
}

// Do executes fn with exponential backoff.
//
// Quota and transient failures sleep for the current delay and multiply it by
// the backoff factor. Rejected-input and timeout failures retry immediately
// without growing the delay. Any other error is returned at once. When every
// attempt fails the returned error matches domain.ErrServiceUnavailable.
func Do[T any](ctx context.Context, e *Executor, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := e.cfg.InitialDelay

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		start := time.Now()
		result, err := fn(ctx)
		metrics.RemoteCallDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err == nil {
			metrics.RemoteCallsTotal.WithLabelValues(name, "success").Inc()
			return result, nil
		}

		lastErr = err
		class := Classify(err)
		metrics.RemoteCallsTotal.WithLabelValues(name, class.String()).Inc()

		if !class.Retryable() {
			return zero, err // Stop immediately, do not retry
		}
		metrics.RemoteRetriesTotal.WithLabelValues(name, class.String()).Inc()

		attrs := []any{
			"operation", name,
			"attempt", attempt,
			"max_attempts", e.cfg.MaxAttempts,
			"class", class.String(),
			"error", err,
		}
		if hint, ok := RetryHint(err); ok {
			attrs = append(attrs, "server_retry_hint", hint)
		}

		switch {
		case class.Backoff():
			e.log.Warn("Remote call failed, backing off", append(attrs, "delay", delay)...)
			if err := e.sleep(ctx, delay); err != nil {
				return zero, err
			}
			delay = time.Duration(float64(delay) * e.cfg.BackoffFactor)
		case class == ClassRejected:
			e.log.Warn("Remote call rejected input, trying again", attrs...)
		default:
			e.log.Warn("Remote call timed out, trying again", attrs...)
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("%w: %s failed after %d attempts: %w",
		domain.ErrServiceUnavailable, name, e.cfg.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
