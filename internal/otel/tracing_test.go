package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"

	"studyhub/internal/logging"
)

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), logging.New(&buf, time.UTC), "studyhub")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"msg":"tracing_configured"`)
	assert.Contains(t, buf.String(), `"tracing_enabled":false`)
	assert.Contains(t, buf.String(), `"component":"tracing"`)
}

func TestInit_UnsupportedProtocolDegrades(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), logging.New(&buf, time.UTC), "studyhub")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "tracing_init_failed")
	assert.Contains(t, buf.String(), "carrier-pigeon")
}

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 0.25, parseRatio("0.25"))
	assert.Equal(t, 1.0, parseRatio(""))
	assert.Equal(t, 1.0, parseRatio("2"))
	assert.Equal(t, 1.0, parseRatio("half"))
}

func TestGetSampler(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_off")
	assert.Equal(t, trace.NeverSample().Description(), getSampler().Description())

	t.Setenv("OTEL_TRACES_SAMPLER", "traceidratio")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	assert.Equal(t, trace.TraceIDRatioBased(0.5).Description(), getSampler().Description())
}
