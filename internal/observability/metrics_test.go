package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestPipelineMetrics_Records(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewPipelineMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRun(ctx, "success", 120*time.Millisecond)
	m.RecordRun(ctx, "rejected", 80*time.Millisecond)
	m.RecordStage(ctx, "Proposer", "success", 40*time.Millisecond)
	m.RecordCacheLookup(ctx, true)
	m.RecordCacheLookup(ctx, false)
	m.RecordCacheLookup(ctx, false)
	m.RecordGenerationAttempt(ctx, "throttled")
	m.RecordBackoff(ctx, 2*time.Second)
	m.RecordApplyErrors(ctx, 3)
	m.RecordApplyErrors(ctx, 0)

	got := collect(t, reader)

	runs, ok := got[MetricRuns].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range runs.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	cache, ok := got[MetricCacheLookups].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byResult := map[string]int64{}
	for _, dp := range cache.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("result"))
		byResult[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"hit": 1, "miss": 2}, byResult)

	applyErrs, ok := got[MetricApplyErrors].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, applyErrs.DataPoints, 1)
	assert.Equal(t, int64(3), applyErrs.DataPoints[0].Value)

	assert.Contains(t, got, MetricStageDuration)
	assert.Contains(t, got, MetricLLMBackoff)
	assert.Contains(t, got, MetricRunDuration)
}

func TestPipelineMetrics_NilIsSafe(t *testing.T) {
	var m *PipelineMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordRun(ctx, "failed", time.Second)
		m.RecordStage(ctx, "Applier", "failed", time.Second)
		m.RecordCacheLookup(ctx, true)
		m.RecordGenerationAttempt(ctx, "success")
		m.RecordBackoff(ctx, time.Second)
		m.RecordApplyErrors(ctx, 1)
	})
}

func TestInitMetrics_DisabledIsNoop(t *testing.T) {
	mp, shutdown, err := InitMetrics(context.Background(), MetricsConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, mp)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitMetrics_InvalidConfig(t *testing.T) {
	_, _, err := InitMetrics(context.Background(), MetricsConfig{Enabled: true, Provider: "statsd", Port: 9090})
	assert.Error(t, err)

	_, _, err = InitMetrics(context.Background(), MetricsConfig{Enabled: true, Provider: "prometheus", Port: 0})
	assert.Error(t, err)
}

func TestInitTracing_Disabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, ShutdownTracing(context.Background(), tp))
}

func TestInitTracing_RejectsInvalidConfig(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Provider: "jaeger", Endpoint: "x"})
	assert.Error(t, err)

	_, err = InitTracing(context.Background(), TracingConfig{Enabled: true, Provider: "otlp", SampleRate: 2})
	assert.Error(t, err)
}

func TestEndSpan_RecordsStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := Tracer(tp)

	_, okSpan := tracer.Start(context.Background(), "ok")
	EndSpan(okSpan, nil)
	_, badSpan := tracer.Start(context.Background(), "bad")
	EndSpan(badSpan, errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
}
