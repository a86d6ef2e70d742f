package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestDisabledSetupOnlyInstallsPropagators(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestInvalidOptions(t *testing.T) {
	_, err := Setup(context.Background(), Options{Enabled: true})
	assert.Error(t, err)
	_, err = Setup(context.Background(), Options{Enabled: true, Endpoint: "localhost:4317", SampleRate: 2})
	assert.Error(t, err)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, trace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, trace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.5).Description(), "ParentBased")
}
