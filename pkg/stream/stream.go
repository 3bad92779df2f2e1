// Package stream converts the incremental snapshots of a run into response frames.
//
// Each snapshot becomes one message frame. A failure becomes exactly one terminal error frame
// after which the sequence ends. Frames are produced on demand; nothing is buffered.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/ports"
)

type config struct {
	redact bool
	logger *slog.Logger
}

// Option configures Frames.
type Option func(*config)

// WithRedactedErrors replaces raw failure descriptions with the generic internal error text.
func WithRedactedErrors() Option {
	return func(c *config) {
		c.redact = true
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Frames validates req and returns the lazy frame sequence of one run.
// Validation errors are returned before any frame exists.
func Frames(ctx context.Context, runner ports.Runner, req domain.AgentRequest, opts ...Option) (iter.Seq[domain.AgentResponse], error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	query, err := Validate(req)
	if err != nil {
		return nil, err
	}

	return func(yield func(domain.AgentResponse) bool) {
		for snap, err := range runner.Steps(ctx, query) {
			if err != nil {
				yield(cfg.errorFrame(err))
				return
			}
			if !snap.HasDelta() {
				continue
			}
			if !yield(domain.NewMessageResponse(snap.Delta)) {
				return
			}
		}
	}, nil
}

func (c config) errorFrame(err error) domain.AgentResponse {
	if domain.IsInvariant(err) {
		c.logger.Error("workflow invariant violated", "error", err)
	} else {
		c.logger.Warn("stream run failed", "error", err)
	}

	if c.redact {
		return domain.NewErrorResponse(domain.ErrInternal.Error())
	}
	return domain.NewErrorResponse(err.Error())
}

// WriteSSE encodes one frame as a Server-Sent Events record: "data: <json>\n\n".
func WriteSSE(w io.Writer, frame domain.AgentResponse) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
