package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metric names emitted by the pipeline.
const (
	MetricRuns          = "ontograph.pipeline.runs"
	MetricRunDuration   = "ontograph.pipeline.duration"
	MetricStageDuration = "ontograph.stage.duration"
	MetricCacheLookups  = "ontograph.proposer.cache"
	MetricLLMAttempts   = "ontograph.llm.attempts"
	MetricLLMBackoff    = "ontograph.llm.backoff"
	MetricApplyErrors   = "ontograph.applier.item_errors"
)

// ShutdownFunc flushes and stops a telemetry provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitMetrics returns a meter provider for cfg. Disabled metrics yield a
// no-op provider. The prometheus provider also serves /metrics on cfg.Port.
func InitMetrics(ctx context.Context, cfg MetricsConfig) (metric.MeterProvider, ShutdownFunc, error) {
	if !cfg.Enabled {
		return noop.NewMeterProvider(), noopShutdown, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid metrics config: %w", err)
	}

	switch strings.ToLower(cfg.Provider) {
	case "prometheus":
		return initPrometheusProvider(cfg)
	case "otlp":
		return initOTLPProvider(ctx, cfg)
	default:
		return nil, nil, fmt.Errorf("unsupported metrics provider: %s", cfg.Provider)
	}
}

func initPrometheusProvider(cfg MetricsConfig) (metric.MeterProvider, ShutdownFunc, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, nil, fmt.Errorf("failed to listen for metrics on %s: %w", srv.Addr, err)
	}
	// Serve returns http.ErrServerClosed after shutdown.
	go func() { _ = srv.Serve(ln) }()

	shutdown := func(ctx context.Context) error {
		return errors.Join(srv.Shutdown(ctx), provider.Shutdown(ctx))
	}
	return provider, shutdown, nil
}

func initOTLPProvider(ctx context.Context, cfg MetricsConfig) (metric.MeterProvider, ShutdownFunc, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("localhost:%d", cfg.Port)
	}
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)
	return provider, provider.Shutdown, nil
}

// PipelineMetrics holds the instruments the pipeline records into.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	runs          metric.Int64Counter
	runDuration   metric.Float64Histogram
	stageDuration metric.Float64Histogram
	cacheLookups  metric.Int64Counter
	llmAttempts   metric.Int64Counter
	llmBackoff    metric.Float64Histogram
	applyErrors   metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on mp.
func NewPipelineMetrics(mp metric.MeterProvider) (*PipelineMetrics, error) {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter(TracerName)

	var (
		m   PipelineMetrics
		err error
		all []error
	)
	m.runs, err = meter.Int64Counter(MetricRuns, metric.WithDescription("Pipeline runs by outcome"))
	all = append(all, err)
	m.runDuration, err = meter.Float64Histogram(MetricRunDuration, metric.WithUnit("ms"), metric.WithDescription("End-to-end run latency"))
	all = append(all, err)
	m.stageDuration, err = meter.Float64Histogram(MetricStageDuration, metric.WithUnit("ms"), metric.WithDescription("Per-stage latency"))
	all = append(all, err)
	m.cacheLookups, err = meter.Int64Counter(MetricCacheLookups, metric.WithDescription("Proposal cache lookups by result"))
	all = append(all, err)
	m.llmAttempts, err = meter.Int64Counter(MetricLLMAttempts, metric.WithDescription("Generation attempts by outcome"))
	all = append(all, err)
	m.llmBackoff, err = meter.Float64Histogram(MetricLLMBackoff, metric.WithUnit("ms"), metric.WithDescription("Backoff waits after throttling"))
	all = append(all, err)
	m.applyErrors, err = meter.Int64Counter(MetricApplyErrors, metric.WithDescription("Per-item apply failures"))
	all = append(all, err)

	if err := errors.Join(all...); err != nil {
		return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
	}
	return &m, nil
}

// RecordRun records a finished run.
func (m *PipelineMetrics) RecordRun(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, millis(d), attrs)
}

// RecordStage records one stage execution.
func (m *PipelineMetrics) RecordStage(ctx context.Context, agent, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, millis(d), metric.WithAttributes(
		attribute.String("agent", agent),
		attribute.String("status", status),
	))
}

// RecordCacheLookup records a proposal cache hit or miss.
func (m *PipelineMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordGenerationAttempt records one call to the model endpoint.
func (m *PipelineMetrics) RecordGenerationAttempt(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.llmAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordBackoff records a throttling backoff wait.
func (m *PipelineMetrics) RecordBackoff(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.llmBackoff.Record(ctx, millis(d))
}

// RecordApplyErrors records per-item failures from one apply batch.
func (m *PipelineMetrics) RecordApplyErrors(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.applyErrors.Add(ctx, int64(n))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
