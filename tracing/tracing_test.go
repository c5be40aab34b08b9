package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestSpan(t *testing.T) {
	rec := record(t)

	_, span := Start(context.Background(), "GET /stocks", attribute.String("http.method", "GET"))
	End(span, nil)
	_, span = Start(context.Background(), "DELETE /stocks/1")
	End(span, errors.New("stock not found"))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "GET /stocks", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Contains(t, spans[0].Attributes(), attribute.String("http.method", "GET"))
	require.Equal(t, codes.Error, spans[1].Status().Code)
	require.Equal(t, "stock not found", spans[1].Status().Description)
}

func TestInitDisabled(t *testing.T) {
	require.NoError(t, Init(false))
	require.NoError(t, Shutdown(context.Background()))
}
