package completion_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echo() completion.Completer {
	return completion.CompleterFunc(func(_ context.Context, msgs []domain.Message) (domain.Message, error) {
		return domain.AssistantMessage(msgs[len(msgs)-1].Content), nil
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) completion.Middleware {
		return func(next completion.Completer) completion.Completer {
			return completion.CompleterFunc(func(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
				order = append(order, name)
				return next.Complete(ctx, msgs)
			})
		}
	}

	c := completion.Chain(echo(), mw("outer"), mw("inner"))
	reply, err := c.Complete(context.Background(), []domain.Message{domain.HumanMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hi", reply.Content)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestWithTimeout(t *testing.T) {
	slow := completion.CompleterFunc(func(ctx context.Context, _ []domain.Message) (domain.Message, error) {
		select {
		case <-ctx.Done():
			return domain.Message{}, ctx.Err()
		case <-time.After(time.Second):
			return domain.AssistantMessage("late"), nil
		}
	})

	c := completion.Chain(slow, completion.WithTimeout(10*time.Millisecond))
	_, err := c.Complete(context.Background(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithRetry(t *testing.T) {
	t.Run("Succeeds after transient failure", func(t *testing.T) {
		calls := 0
		flaky := completion.CompleterFunc(func(context.Context, []domain.Message) (domain.Message, error) {
			calls++
			if calls < 2 {
				return domain.Message{}, errors.New("503 unavailable")
			}
			return domain.AssistantMessage("ok"), nil
		})

		c := completion.Chain(flaky, completion.WithRetry(completion.RetryConfig{InitialBackoff: time.Millisecond}))
		reply, err := c.Complete(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", reply.Content)
		assert.Equal(t, 2, calls)
	})

	t.Run("Exhausted", func(t *testing.T) {
		calls := 0
		broken := completion.CompleterFunc(func(context.Context, []domain.Message) (domain.Message, error) {
			calls++
			return domain.Message{}, errors.New("boom")
		})

		c := completion.Chain(broken, completion.WithRetry(completion.RetryConfig{MaxRetries: 1, InitialBackoff: time.Millisecond}))
		_, err := c.Complete(context.Background(), nil)
		assert.ErrorIs(t, err, completion.ErrRetryExhausted)
		assert.Equal(t, 2, calls)
	})

	t.Run("Does not retry cancellation", func(t *testing.T) {
		calls := 0
		cancelled := completion.CompleterFunc(func(context.Context, []domain.Message) (domain.Message, error) {
			calls++
			return domain.Message{}, context.Canceled
		})

		c := completion.Chain(cancelled, completion.WithRetry(completion.RetryConfig{InitialBackoff: time.Millisecond}))
		_, err := c.Complete(context.Background(), nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("Non-retryable error is attempted once", func(t *testing.T) {
		calls := 0
		bad := errors.New("400 bad request")
		rejected := completion.CompleterFunc(func(context.Context, []domain.Message) (domain.Message, error) {
			calls++
			return domain.Message{}, bad
		})

		c := completion.Chain(rejected, completion.WithRetry(completion.RetryConfig{
			InitialBackoff: time.Millisecond,
			Retryable:      func(err error) bool { return !errors.Is(err, bad) },
		}))
		_, err := c.Complete(context.Background(), nil)
		assert.ErrorIs(t, err, bad)
		assert.NotErrorIs(t, err, completion.ErrRetryExhausted)
		assert.Equal(t, 1, calls)
	})

	t.Run("Context cancelled while backing off", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		failing := completion.CompleterFunc(func(context.Context, []domain.Message) (domain.Message, error) {
			calls++
			cancel()
			return domain.Message{}, errors.New("503 unavailable")
		})

		c := completion.Chain(failing, completion.WithRetry(completion.RetryConfig{MaxRetries: 5, InitialBackoff: time.Second}))
		_, err := c.Complete(ctx, nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, completion.ErrRetryExhausted)
		assert.Equal(t, 1, calls)
	})
}

func TestWithLoggingAndObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var observed []error
	obs := func(_ context.Context, _ time.Duration, err error) { observed = append(observed, err) }

	failing := completion.CompleterFunc(func(context.Context, []domain.Message) (domain.Message, error) {
		return domain.Message{}, errors.New("provider down")
	})

	c := completion.Chain(failing, completion.WithLogging(logger), completion.WithObserver(obs))
	_, err := c.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "completion failed")
	require.Len(t, observed, 1)
	assert.EqualError(t, observed[0], "provider down")
}
