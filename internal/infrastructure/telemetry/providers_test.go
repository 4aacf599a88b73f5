package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/erp/fulfillment-sync/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_AllDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "fulfillment-sync"}, "test", zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.NotNil(t, tel.Tracer.Tracer("x"))
	assert.NotNil(t, tel.Meter.Meter("x"))

	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "fulfillment-sync"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name")
}

func TestLoggerProvider_DisabledCoreIsNop(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, zap.NewNop())
	require.NoError(t, err)

	core := lp.ZapCore("fulfillment-sync", zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(&levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel})

	log.Debug("Dropped")
	log.Info("Dropped")
	log.With(zap.String("order_id", "1042")).Warn("Kept")
	log.Error("Kept")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "1042", logs.All()[0].ContextMap()["order_id"])
}

func TestLabelPairs(t *testing.T) {
	long := strings.Repeat("x", maxLabelValueLength+10)

	pairs := labelPairs(map[string]string{
		ProfilingLabelTrigger:   "scheduler",
		ProfilingLabelOperation: "import_orders",
		"order_id":              "1042",
		"empty":                 "",
		ProfilingLabelTopic:     long,
	})

	assert.Equal(t, []string{
		ProfilingLabelOperation, "import_orders",
		ProfilingLabelTopic, long[:maxLabelValueLength],
		ProfilingLabelTrigger, "scheduler",
	}, pairs)
}

func TestWithProfilingLabels_RunsFunction(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	var ran bool
	WithProfilingLabels(ctx, map[string]string{ProfilingLabelOperation: "apply_stock"}, func(inner context.Context) {
		ran = true
		assert.Equal(t, "v", inner.Value(key{}))
	})
	assert.True(t, ran)

	ran = false
	WithProfilingLabels(ctx, nil, func(context.Context) { ran = true })
	assert.True(t, ran)
}
