package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/infrastructure/config"
)

func TestNewWorkflowMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	wm, err := NewWorkflowMetrics(meter, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, wm)

	// recording against a no-op meter must never panic
	ctx := context.Background()
	assert.NotPanics(t, func() {
		wm.RecordOrderCreated(ctx, "wallet")
		wm.RecordDepartmentAction(ctx, "financial_approve")
		wm.RecordAutoApprovals(ctx, 3)
		wm.RecordAutoApprovals(ctx, 0)
		wm.RecordDriftRepairs(ctx, 2)
		wm.RecordDeliveryVerification(ctx, "within_radius")
		wm.RecordSyncPercentage(ctx, 97)
	})
}

func TestNewWorkflowMetrics_NilLogger(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	wm, err := NewWorkflowMetrics(meter, nil)
	require.NoError(t, err)
	require.NotNil(t, wm)
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), config.TelemetryConfig{
		Enabled: false,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())

	// a disabled provider still hands out a usable meter
	meter := mp.Meter("test")
	require.NotNil(t, meter)

	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestNewMeterProvider_EnabledBuildsProvider(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), config.TelemetryConfig{
		Enabled:           true,
		ServiceName:       "momtaz-backend-test",
		CollectorEndpoint: "localhost:4317",
		ExportInterval:    time.Second,
		Insecure:          true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, mp.IsEnabled())

	// shutdown flushes; the exporter will fail to reach a collector but
	// provider teardown itself must complete
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = mp.Shutdown(ctx)
}

func TestCounterAndGaugeHelpers(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	counter, err := NewCounter(meter, "test_total", "test counter", "{items}")
	require.NoError(t, err)
	counter.Inc(context.Background())
	counter.Add(context.Background(), 5)

	gauge, err := NewGauge(meter, "test_gauge", "test gauge", "{items}")
	require.NoError(t, err)
	gauge.Record(context.Background(), 42)

	hist, err := NewHistogram(meter, "test_seconds", "test histogram", "s")
	require.NoError(t, err)
	hist.RecordDuration(context.Background(), 150*time.Millisecond)
}
