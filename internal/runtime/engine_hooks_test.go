package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/aura/internal/runtime"
	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/completion/mock"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/prompt"
	"github.com/aretw0/aura/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var mu sync.Mutex
	var events []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, s)
	}

	hooks := domain.LifecycleHooks{
		OnRunStart:  func(_ context.Context, e *domain.RunEvent) { record("run_start:" + e.Mode) },
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) { record("enter:" + e.Node) },
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) { record("leave:" + e.Node) },
		OnRunEnd:    func(_ context.Context, e *domain.RunEvent) { record("run_end") },
	}

	eng := newPipeline(t, mock.New(), runtime.WithLifecycleHooks(hooks))
	_, err := eng.Run(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"run_start:ask",
		"enter:greeting", "leave:greeting",
		"enter:agent", "leave:agent",
		"run_end",
	}, events)
}

func TestEngine_HooksReceiveErrors(t *testing.T) {
	boom := errors.New("boom")
	var leaveErr, endErr error

	eng := newPipeline(t, mock.New(mock.WithFailure(1, boom)), runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) { leaveErr = e.Err },
		OnRunEnd:    func(_ context.Context, e *domain.RunEvent) { endErr = e.Err },
	}))

	_, err := eng.Run(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, leaveErr, boom)
	assert.ErrorIs(t, endErr, boom)
}

func TestEngine_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	eng := newPipeline(t, mock.New(mock.WithFailure(2, errors.New("boom"))), runtime.WithTracer(tp.Tracer("test")))
	_, err := eng.Run(context.Background(), "hello")
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 3)

	names := make(map[string]int)
	for _, s := range spans {
		names[s.Name()]++
	}
	assert.Equal(t, 2, names["aura.node"])
	assert.Equal(t, 1, names["aura.run"])

	// Ended order: greeting node, agent node, run.
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}

func TestEngine_TracingOnPanic(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var calls int
	c := completion.CompleterFunc(func(context.Context, []domain.Message) (domain.Message, error) {
		calls++
		if calls == 2 {
			panic("provider exploded")
		}
		return domain.AssistantMessage("hi"), nil
	})
	g, err := workflow.New(prompt.New("SYS", prompt.WithGreeting("HI")), c)
	require.NoError(t, err)

	_, err = runtime.NewEngine(g, runtime.WithTracer(tp.Tracer("test"))).Run(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrNodePanic)

	spans := sr.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}

func TestEngine_AbandonedRunEndsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	eng := newPipeline(t, mock.New(), runtime.WithTracer(tp.Tracer("test")))
	for range eng.Steps(context.Background(), "hello") {
		break
	}

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "aura.run", spans[1].Name())
	assert.NotEqual(t, codes.Error, spans[1].Status().Code)
}
