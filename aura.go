package aura

import (
	"context"
	"io"
	"iter"
	"log/slog"

	"github.com/aretw0/aura/internal/runtime"
	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/graph"
	"github.com/aretw0/aura/pkg/ports"
	"github.com/aretw0/aura/pkg/prompt"
	"github.com/aretw0/aura/pkg/stream"
	"github.com/aretw0/aura/pkg/workflow"
	"go.opentelemetry.io/otel/trace"
)

// Version is the release of the agent, reported by /server/info and 'aura version'.
const Version = "0.3.0"

// Ensure Agent implements ports.Runner.
var _ ports.Runner = (*Agent)(nil)

// Agent is the context object shared by every transport.
// It is immutable after New and safe for concurrent use.
type Agent struct {
	graph      *graph.Graph
	engine     *runtime.Engine
	logger     *slog.Logger
	streamOpts []stream.Option

	// Collected before the engine is built.
	engineOpts []runtime.Option
	redact     bool
}

// Option configures the Agent.
type Option func(*Agent)

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks on the engine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agent) {
		a.engineOpts = append(a.engineOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithMaxSteps bounds the number of node executions per run.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		a.engineOpts = append(a.engineOpts, runtime.WithMaxSteps(n))
	}
}

// WithTracer sets the OpenTelemetry tracer used for run and node spans.
func WithTracer(t trace.Tracer) Option {
	return func(a *Agent) {
		a.engineOpts = append(a.engineOpts, runtime.WithTracer(t))
	}
}

// WithRedactedErrors hides raw failure descriptions from stream error frames.
func WithRedactedErrors() Option {
	return func(a *Agent) {
		a.redact = true
	}
}

// New builds the workflow graph from asm and c and returns the Agent.
func New(asm *prompt.Assembler, c completion.Completer, opts ...Option) (*Agent, error) {
	g, err := workflow.New(asm, c)
	if err != nil {
		return nil, err
	}
	return NewFromGraph(g, opts...), nil
}

// NewFromGraph returns an Agent running a custom graph.
func NewFromGraph(g *graph.Graph, opts ...Option) *Agent {
	a := &Agent{
		graph:  g,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.engine = runtime.NewEngine(g, append([]runtime.Option{runtime.WithLogger(a.logger)}, a.engineOpts...)...)

	a.streamOpts = []stream.Option{stream.WithLogger(a.logger)}
	if a.redact {
		a.streamOpts = append(a.streamOpts, stream.WithRedactedErrors())
	}
	return a
}

// Ask runs the whole workflow and returns exactly one response carrying the final answer.
// Validation errors are returned as is; any other failure is logged and reported as
// domain.ErrInternal, without a partial answer.
func (a *Agent) Ask(ctx context.Context, req domain.AgentRequest) (domain.AgentResponse, error) {
	query, err := stream.Validate(req)
	if err != nil {
		return domain.AgentResponse{}, err
	}

	state, err := a.engine.Run(ctx, query)
	if err != nil {
		if domain.IsInvariant(err) {
			a.logger.Error("workflow invariant violated", "error", err)
		} else {
			a.logger.Warn("ask failed", "error", err)
		}
		return domain.AgentResponse{}, domain.ErrInternal
	}

	last, ok := state.Last()
	if !ok {
		a.logger.Error("run finished without messages", "run_id", state.RunID)
		return domain.AgentResponse{}, domain.ErrInternal
	}
	return domain.NewMessageResponse(domain.AssistantMessage(last.Content)), nil
}

// Stream returns the lazy frame sequence of one run. See stream.Frames.
func (a *Agent) Stream(ctx context.Context, req domain.AgentRequest) (iter.Seq[domain.AgentResponse], error) {
	return stream.Frames(ctx, a, req, a.streamOpts...)
}

// Steps implements ports.Runner.
func (a *Agent) Steps(ctx context.Context, query string) iter.Seq2[domain.Snapshot, error] {
	return a.engine.Steps(ctx, query)
}

// Graph returns the workflow graph.
func (a *Agent) Graph() *graph.Graph {
	return a.graph
}
