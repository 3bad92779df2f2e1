package observability_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnRunEnd(ctx, &domain.RunEvent{Mode: "ask"})
	hooks.OnRunEnd(ctx, &domain.RunEvent{Mode: "stream", Err: errors.New("boom")})
	hooks.OnRunEnd(ctx, &domain.RunEvent{Mode: "stream", Err: domain.ErrRunAbandoned})
	hooks.OnNodeLeave(ctx, &domain.NodeEvent{Node: "agent", Duration: time.Second})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("ask", observability.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("stream", observability.OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("stream", observability.OutcomeAbandoned)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Runs.WithLabelValues("stream", observability.OutcomeSuccess)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.NodeDuration))
}

func TestMetrics_FramesAndCompletion(t *testing.T) {
	m := observability.NewMetrics(nil)

	m.ObserveFrame(domain.NewMessageResponse(domain.AssistantMessage("a")))
	m.ObserveFrame(domain.NewErrorResponse("e"))
	m.ObserveFrame(domain.NewErrorResponse("e"))
	m.CompletionObserver()(context.Background(), 10*time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Frames.WithLabelValues("message")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CompletionDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Runs.WithLabelValues("ask", "success").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `aura_runs_total{mode="ask",outcome="success"} 1`)
}

func TestEndSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := tp.Tracer("test")

	_, ok := tracer.Start(context.Background(), "ok")
	observability.EndSpan(ok, nil)
	_, bad := tracer.Start(context.Background(), "bad")
	observability.EndSpan(bad, errors.New("boom"))
	observability.EndSpan(nil, nil)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}

func TestInitTracing(t *testing.T) {
	t.Run("Disabled keeps the global provider", func(t *testing.T) {
		before := otel.GetTracerProvider()
		shutdown, err := observability.InitTracing(context.Background(), observability.TracingConfig{})
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))
		assert.Equal(t, before, otel.GetTracerProvider())
	})

	t.Run("Enabled exports spans", func(t *testing.T) {
		before := otel.GetTracerProvider()
		defer otel.SetTracerProvider(before)

		var buf bytes.Buffer
		shutdown, err := observability.InitTracing(context.Background(), observability.TracingConfig{
			Enabled:     true,
			ServiceName: "aura-test",
			Writer:      &buf,
		})
		require.NoError(t, err)

		_, span := otel.Tracer("test").Start(context.Background(), "exported-span")
		span.End()

		require.NoError(t, shutdown(context.Background()))
		assert.Contains(t, buf.String(), "exported-span")
	})
}
