package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/contextkeys"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestTracedLogger_AddsRunAndAgent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTracedLogger(NewJSONHandler(&buf, slog.LevelDebug), "run-1", "Proposer")

	logger.Info(context.Background(), "proposed", "entities", 2)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "Proposer", entry["agent"])
	assert.Equal(t, float64(2), entry["entities"])
	assert.NotContains(t, entry, "trace_id")
}

func TestTracedLogger_RunIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTracedLogger(NewJSONHandler(&buf, slog.LevelDebug), "", "Critic")

	logger.Warn(contextkeys.WithRunID(context.Background(), "run-ctx"), "degraded")
	assert.Equal(t, "run-ctx", decodeLine(t, &buf)["run_id"])

	buf.Reset()
	logger.ForRun("run-bound").Warn(contextkeys.WithRunID(context.Background(), "run-ctx"), "degraded")
	assert.Equal(t, "run-bound", decodeLine(t, &buf)["run_id"])
}

func TestTracedLogger_ForRunAndAgentDoNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := NewTracedLogger(NewJSONHandler(&buf, slog.LevelDebug), "", "")

	derived := base.ForRun("run-9").ForAgent("Validator")
	derived.Debug(context.Background(), "x")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "run-9", entry["run_id"])
	assert.Equal(t, "Validator", entry["agent"])

	buf.Reset()
	base.Debug(context.Background(), "y")
	entry = decodeLine(t, &buf)
	assert.NotContains(t, entry, "run_id")
	assert.NotContains(t, entry, "agent")
}

func TestTracedLogger_TraceCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTracedLogger(NewJSONHandler(&buf, slog.LevelDebug), "run-1", "Critic")

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.Warn(ctx, "degraded")

	entry := decodeLine(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestTracedLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTracedLogger(NewJSONHandler(&buf, slog.LevelDebug), "", "")

	logger.Info(context.Background(), "calling model", "prompt", "secret text", "api_key", "k", "attempt", 1)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "[REDACTED]", entry["prompt"])
	assert.Equal(t, "[REDACTED]", entry["api_key"])
	assert.Equal(t, float64(1), entry["attempt"])
}

func TestTracedLogger_DebugIsNotRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTracedLogger(NewJSONHandler(&buf, slog.LevelDebug), "", "")

	logger.Debug(context.Background(), "raw", "prompt", "visible")

	assert.Equal(t, "visible", decodeLine(t, &buf)["prompt"])
}

func TestRedactSensitiveData_OddArgs(t *testing.T) {
	args := []any{"prompt"}
	assert.Equal(t, args, redactSensitiveData(args))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("anything"))
}

func TestNewHandler_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontograph.log")
	h, closeFn, err := NewHandler(LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	defer closeFn()

	NewTracedLogger(h, "r", "a").Info(context.Background(), "hello")
	assert.FileExists(t, path)
}

func TestLoggingConfig_Validate(t *testing.T) {
	valid := LoggingConfig{Level: "info", Format: "text", Output: "stderr"}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Level = "loud"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Format = "xml"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Output = "relative.log"
	assert.Error(t, bad.Validate())
}

func TestTracingAndMetricsConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		check   func() error
		wantErr string
	}{
		{name: "tracing off", check: (&TracingConfig{Provider: "zipkin"}).Validate},
		{name: "tracing noop without endpoint", check: (&TracingConfig{Enabled: true, Provider: "NOOP", SampleRate: 1}).Validate},
		{name: "tracing unknown provider", check: (&TracingConfig{Enabled: true, Provider: "zipkin"}).Validate, wantErr: "invalid tracing provider"},
		{name: "tracing sample rate", check: (&TracingConfig{Enabled: true, Provider: "otlp", Endpoint: "localhost:4317", SampleRate: 1.5}).Validate, wantErr: "invalid sample rate"},
		{name: "tracing otlp without endpoint", check: (&TracingConfig{Enabled: true, Provider: "otlp"}).Validate, wantErr: "endpoint is required"},
		{name: "metrics off", check: (&MetricsConfig{}).Validate},
		{name: "metrics prometheus", check: (&MetricsConfig{Enabled: true, Provider: "prometheus", Port: 9464}).Validate},
		{name: "metrics port", check: (&MetricsConfig{Enabled: true, Provider: "prometheus"}).Validate, wantErr: "invalid metrics port"},
		{name: "metrics provider", check: (&MetricsConfig{Enabled: true, Provider: "statsd", Port: 9464}).Validate, wantErr: "invalid metrics provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
