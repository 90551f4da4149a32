package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	before := otel.GetTracerProvider()

	for name, cfg := range map[string]Config{
		"no endpoint": {Enabled: true},
		"disabled":    {Endpoint: "http://localhost:4318", Enabled: false},
	} {
		t.Run(name, func(t *testing.T) {
			shutdown, err := Setup(context.Background(), "oauthgate-test", cfg)
			require.NoError(t, err)
			require.NotNil(t, shutdown)
			require.NoError(t, shutdown(context.Background()))
			assert.Equal(t, before, otel.GetTracerProvider())
		})
	}
}

func TestSetupInstallsProvider(t *testing.T) {
	// The exporter connects lazily, so an unreachable collector is fine here.
	shutdown, err := Setup(context.Background(), "oauthgate-test", Config{
		Endpoint:    "http://127.0.0.1:1/v1/traces",
		Enabled:     true,
		SampleRatio: 1,
	})
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestSampler(t *testing.T) {
	t.Parallel()

	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}
