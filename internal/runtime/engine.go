// Package runtime executes a workflow graph against the state of a single run.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/graph"
	"github.com/aretw0/aura/pkg/observability"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/aura/internal/runtime"

// Run modes reported to lifecycle hooks.
const (
	ModeAsk    = "ask"
	ModeStream = "stream"
)

// errStopped signals that the consumer stopped pulling snapshots.
var errStopped = errors.New("consumer stopped")

// Engine is the state machine runner. It is safe for concurrent use; every run owns its state.
type Engine struct {
	graph    *graph.Graph
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	maxSteps int
	tracer   trace.Tracer
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMaxSteps bounds the number of node executions per run. Defaults to the node count.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithTracer sets the tracer used for run and node spans. Defaults to the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// NewEngine creates a new engine for g.
func NewEngine(g *graph.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:    g,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxSteps: g.Len(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph the engine executes.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Steps runs the workflow lazily, yielding one snapshot after each node.
// Node N+1 is not started until the consumer's loop body for snapshot N returns.
// On failure it yields exactly one (zero Snapshot, err) pair and ends.
func (e *Engine) Steps(ctx context.Context, query string) iter.Seq2[domain.Snapshot, error] {
	return func(yield func(domain.Snapshot, error) bool) {
		_, err := e.run(ctx, query, ModeStream, func(s domain.Snapshot) bool {
			return yield(s, nil)
		})
		if err != nil {
			yield(domain.Snapshot{}, err)
		}
	}
}

// Run executes the workflow to completion and returns the final state.
// No partial state is returned on failure.
func (e *Engine) Run(ctx context.Context, query string) (*domain.WorkflowState, error) {
	state, err := e.run(ctx, query, ModeAsk, nil)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (e *Engine) run(ctx context.Context, query, mode string, emit func(domain.Snapshot) bool) (*domain.WorkflowState, error) {
	runID := uuid.NewString()
	state := domain.NewState(runID, query)
	logger := e.logger.With("run_id", runID, "mode", mode)

	ctx, span := e.tracer.Start(ctx, "aura.run", trace.WithAttributes(
		attribute.String("aura.run_id", runID),
		attribute.String("aura.mode", mode),
	))

	start := time.Now()
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{Timestamp: start, RunID: runID, Mode: mode})
	}
	logger.Debug("run started", "entry", e.graph.Entry())

	steps, err := e.loop(ctx, state, logger, emit)
	outcome := err
	if errors.Is(err, errStopped) {
		logger.Debug("run abandoned by consumer", "steps", steps)
		outcome, err = domain.ErrRunAbandoned, nil
	}

	switch {
	case err != nil:
		logger.Debug("run failed", "steps", steps, "error", err)
	case outcome == nil:
		logger.Debug("run finished", "steps", steps, "duration", time.Since(start))
	}
	observability.EndSpan(span, err)

	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, &domain.RunEvent{
			Timestamp: time.Now(),
			RunID:     runID,
			Mode:      mode,
			Steps:     steps,
			Duration:  time.Since(start),
			Err:       outcome,
		})
	}

	return state, err
}

func (e *Engine) loop(ctx context.Context, state *domain.WorkflowState, logger *slog.Logger, emit func(domain.Snapshot) bool) (int, error) {
	visited := make(map[string]bool, e.graph.Len())
	current := e.graph.Entry()
	step := 0

	for current != graph.Terminal {
		if err := ctx.Err(); err != nil {
			return step, err
		}

		node, ok := e.graph.Node(current)
		if !ok {
			return step, &domain.InvariantError{Node: current, Err: domain.ErrUnknownNode}
		}
		if visited[current] {
			return step, &domain.InvariantError{Node: current, Err: domain.ErrCycleDetected}
		}
		if step >= e.maxSteps {
			return step, &domain.InvariantError{Node: current, Err: fmt.Errorf("%w: max=%d", domain.ErrStepLimit, e.maxSteps)}
		}
		visited[current] = true
		step++

		result, err := e.execute(ctx, node, state, step, logger)
		if err != nil {
			return step, err
		}

		state.Apply(result.Messages, result.Replace)
		state.History = append(state.History, current)

		if emit != nil && !emit(state.Snapshot(current, step, result.Messages)) {
			return step, errStopped
		}

		current = node.Next
		if result.Next != "" {
			current = result.Next
		}
	}

	return step, nil
}

func (e *Engine) execute(ctx context.Context, node graph.Node, state *domain.WorkflowState, step int, logger *slog.Logger) (graph.Result, error) {
	ctx, span := e.tracer.Start(ctx, "aura.node", trace.WithAttributes(
		attribute.String("aura.node", node.Name),
		attribute.Int("aura.step", step),
	))

	start := time.Now()
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{Timestamp: start, RunID: state.RunID, Node: node.Name, Step: step})
	}

	result, err := runNode(ctx, node, state)
	duration := time.Since(start)

	if e.hooks.OnNodeLeave != nil {
		e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
			Timestamp: time.Now(),
			RunID:     state.RunID,
			Node:      node.Name,
			Step:      step,
			Duration:  duration,
			Err:       err,
		})
	}

	observability.EndSpan(span, err)
	if err != nil {
		logger.Debug("node failed", "node", node.Name, "step", step, "duration", duration, "error", err)
		return graph.Result{}, err
	}

	logger.Debug("node done", "node", node.Name, "step", step, "duration", duration)
	return result, nil
}

// runNode turns a panic in the node or its completer into a node failure, so the run still
// ends with one error and its hooks and spans are closed.
func runNode(ctx context.Context, node graph.Node, state *domain.WorkflowState) (result graph.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = graph.Result{}, &domain.NodeError{Node: node.Name, Err: fmt.Errorf("%w: %v", domain.ErrNodePanic, r)}
		}
	}()
	return node.Run(ctx, state)
}
