package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/cenkalti/backoff/v5"
)

// ErrRetryExhausted is returned by WithRetry when every attempt failed.
// It is wrapped together with the last provider error.
var ErrRetryExhausted = errors.New("all completion attempts exhausted")

// WithTimeout enforces a per-call deadline. Expiry surfaces as a completion failure.
// A caller context with a shorter deadline still wins.
func WithTimeout(timeout time.Duration) Middleware {
	return func(next Completer) Completer {
		if timeout <= 0 {
			return next
		}
		return CompleterFunc(func(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next.Complete(ctx, msgs)
		})
	}
}

// WithLogging logs every call at debug level and failures at warn level.
func WithLogging(logger *slog.Logger) Middleware {
	return func(next Completer) Completer {
		if logger == nil {
			return next
		}
		return CompleterFunc(func(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
			start := time.Now()
			reply, err := next.Complete(ctx, msgs)
			if err != nil {
				logger.Warn("completion failed", "messages", len(msgs), "duration", time.Since(start), "error", err)
				return reply, err
			}
			logger.Debug("completion done", "messages", len(msgs), "duration", time.Since(start), "reply_len", len(reply.Content))
			return reply, nil
		})
	}
}

// Observer receives the outcome of each completion call.
type Observer func(ctx context.Context, duration time.Duration, err error)

// WithObserver reports each call to obs (e.g. a metrics histogram).
func WithObserver(obs Observer) Middleware {
	return func(next Completer) Completer {
		if obs == nil {
			return next
		}
		return CompleterFunc(func(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
			start := time.Now()
			reply, err := next.Complete(ctx, msgs)
			obs(ctx, time.Since(start), err)
			return reply, err
		})
	}
}

// RetryConfig tunes WithRetry. Zero values are replaced with defaults.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first failure. Default: 2.
	MaxRetries int
	// InitialBackoff is the wait before the first retry. Default: 500ms.
	InitialBackoff time.Duration
	// MaxBackoff caps the computed backoff. Default: 10s.
	MaxBackoff time.Duration
	// Retryable decides whether err should trigger another attempt.
	// Default: everything except context cancellation and deadline expiry.
	Retryable func(error) bool
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.Retryable == nil {
		c.Retryable = func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
	}
}

func (c RetryConfig) policy() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialBackoff
	b.MaxInterval = c.MaxBackoff
	b.RandomizationFactor = 0.1
	return b
}

// WithRetry retries failed calls with exponential backoff.
// The core never retries on its own; this is an opt-in policy for deployments.
func WithRetry(cfg RetryConfig) Middleware {
	cfg.applyDefaults()
	return func(next Completer) Completer {
		return CompleterFunc(func(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
			permanent := false
			reply, err := backoff.Retry(ctx, func() (domain.Message, error) {
				reply, err := next.Complete(ctx, msgs)
				if err != nil && !cfg.Retryable(err) {
					permanent = true
					return domain.Message{}, backoff.Permanent(err)
				}
				return reply, err
			},
				backoff.WithBackOff(cfg.policy()),
				backoff.WithMaxTries(uint(cfg.MaxRetries+1)),
			)
			switch {
			case err == nil:
				return reply, nil
			case permanent || ctx.Err() != nil:
				return domain.Message{}, err
			default:
				return domain.Message{}, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, cfg.MaxRetries, err)
			}
		})
	}
}
