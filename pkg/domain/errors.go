package domain

import (
	"errors"
	"fmt"
)

// Configuration errors. They are fatal at startup and never retried at request time.
var (
	// ErrTemplateNotFound is returned when a template id cannot be resolved by a source.
	ErrTemplateNotFound = errors.New("template not found")
)

// Validation errors. Transports map them to a client error.
var (
	ErrEmptyRequest  = errors.New("request is empty")
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Graph invariant errors. These indicate a wiring bug, not a service failure.
var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrCycleDetected = errors.New("cycle detected")
	ErrStepLimit     = errors.New("step limit exceeded")
	ErrInvalidGraph  = errors.New("invalid graph")
)

// Run outcomes that are not caused by the request itself.
var (
	// ErrNodePanic wraps a panic recovered from a node or its completion call.
	ErrNodePanic = errors.New("node panicked")
	// ErrRunAbandoned is reported to OnRunEnd when the consumer stopped pulling snapshots.
	// The run itself returns no error.
	ErrRunAbandoned = errors.New("run abandoned by consumer")
)

// ErrInternal is the generic failure reported to callers of a blocking ask.
var ErrInternal = errors.New("A server error occurred while answering the question. Contact the administrator.") //nolint:staticcheck // user-facing text

// ConfigError reports a configuration problem tied to a key (template id, config field).
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %q: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NodeError wraps a failure raised while a node was executing, usually a completion call.
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q failed: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// InvariantError reports a violated graph invariant (unknown target, cycle, step limit).
type InvariantError struct {
	Node string
	Err  error
}

func (e *InvariantError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("invariant violation: %v", e.Err)
	}
	return fmt.Sprintf("invariant violation at %q: %v", e.Node, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

// IsInvariant reports whether err is, or wraps, an InvariantError.
func IsInvariant(err error) bool {
	var inv *InvariantError
	return errors.As(err, &inv)
}

// IsValidation reports whether err is a request validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyRequest) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrInvalidUTF8)
}
