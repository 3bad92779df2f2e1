// Package mock provides a deterministic Completer for tests and offline runs.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/domain"
)

// Ensure Client implements completion.Completer.
var _ completion.Completer = (*Client)(nil)

// Client echoes the last human message. It records every call for assertions.
type Client struct {
	latency time.Duration
	failOn  map[int]error
	reply   func(msgs []domain.Message) string

	mu    sync.Mutex
	calls [][]domain.Message
}

// Option configures a Client.
type Option func(*Client)

// WithLatency delays every reply. The delay honors ctx cancellation.
func WithLatency(d time.Duration) Option {
	return func(c *Client) {
		c.latency = d
	}
}

// WithFailure makes the n-th call (1-based) return err.
func WithFailure(n int, err error) Option {
	return func(c *Client) {
		c.failOn[n] = err
	}
}

// WithReply overrides how the reply text is produced.
func WithReply(fn func(msgs []domain.Message) string) Option {
	return func(c *Client) {
		c.reply = fn
	}
}

// New creates a mock client.
func New(opts ...Option) *Client {
	c := &Client{
		failOn: make(map[int]error),
		reply:  defaultReply,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete returns an assistant message built from msgs.
func (c *Client) Complete(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
	c.mu.Lock()
	c.calls = append(c.calls, append([]domain.Message(nil), msgs...))
	n := len(c.calls)
	c.mu.Unlock()

	if c.latency > 0 {
		select {
		case <-ctx.Done():
			return domain.Message{}, ctx.Err()
		case <-time.After(c.latency):
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	if err, ok := c.failOn[n]; ok {
		return domain.Message{}, err
	}
	return domain.AssistantMessage(c.reply(msgs)), nil
}

// Calls returns a copy of the recorded calls.
func (c *Client) Calls() [][]domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]domain.Message(nil), c.calls...)
}

// CallCount returns the number of calls so far.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func defaultReply(msgs []domain.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleHuman {
			return fmt.Sprintf("[MOCK] Received your message: %q", truncate(msgs[i].Content, 100))
		}
	}
	return "[MOCK] This is a mock response."
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
