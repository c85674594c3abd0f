package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/aeroapi-demo-app/internal/config"
)

func TestDisabledTelemetryIsNoop(t *testing.T) {
	tele, err := New(context.Background(), config.TelemetryConfig{Enabled: false}, "test")
	require.NoError(t, err)

	assert.False(t, tele.IsEnabled())
	_, span := tele.GetTracer().Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	ctx, end := tele.StartSpanWithAttributes(context.Background(), "op", map[string]interface{}{"k": 1})
	assert.NotNil(t, ctx)
	end()

	tele.RecordError(errors.New("boom"), context.Background(), nil)
	assert.NoError(t, tele.Shutdown(context.Background()))
}

func TestNilTelemetry(t *testing.T) {
	var tele *Telemetry
	assert.False(t, tele.IsEnabled())
	assert.NotNil(t, tele.GetTracer())
}

func TestEnabledTelemetry(t *testing.T) {
	// grpc.NewClient connects lazily, so no collector is needed.
	tele, err := New(context.Background(), config.TelemetryConfig{Enabled: true, Endpoint: "localhost:4317"}, "test")
	require.NoError(t, err)
	assert.True(t, tele.IsEnabled())

	_, span := tele.GetTracer().Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tele.Shutdown(ctx)
}
