// Package completion defines the contract with the language-model completion service and
// the middleware that wraps providers (timeouts, logging, retries, metrics).
//
// Provider implementations live in sub-packages (openai, anthropic, mock).
package completion

import (
	"context"

	"github.com/aretw0/aura/pkg/domain"
)

// Completer turns a sequence of messages into one reply message.
// Implementations must honor ctx cancellation.
type Completer interface {
	Complete(ctx context.Context, msgs []domain.Message) (domain.Message, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, msgs []domain.Message) (domain.Message, error)

// Complete calls f(ctx, msgs).
func (f CompleterFunc) Complete(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
	return f(ctx, msgs)
}

// Middleware decorates a Completer.
type Middleware func(next Completer) Completer

// Chain applies middlewares so that the first one is the outermost.
func Chain(c Completer, mws ...Middleware) Completer {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
