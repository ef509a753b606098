package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/contextkeys"
)

// TracedLogger is a structured logger with automatic trace correlation.
// Every record carries the run id and agent name it was derived for, plus
// trace_id/span_id when the context holds a valid span.
type TracedLogger struct {
	logger          *slog.Logger
	runID           string
	agentName       string
	redactSensitive bool
}

// NewTracedLogger creates a TracedLogger on top of handler.
func NewTracedLogger(handler slog.Handler, runID, agentName string) *TracedLogger {
	return &TracedLogger{
		logger:          slog.New(handler),
		runID:           runID,
		agentName:       agentName,
		redactSensitive: true,
	}
}

// NopLogger returns a TracedLogger that discards everything.
func NopLogger() *TracedLogger {
	return NewTracedLogger(slog.NewTextHandler(io.Discard, nil), "", "")
}

// ForRun derives a logger bound to a pipeline run.
func (l *TracedLogger) ForRun(runID string) *TracedLogger {
	cp := *l
	cp.runID = runID
	return &cp
}

// ForAgent derives a logger bound to a pipeline stage.
func (l *TracedLogger) ForAgent(agentName string) *TracedLogger {
	cp := *l
	cp.agentName = agentName
	return &cp
}

// Debug logs without redaction.
func (l *TracedLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Debug(msg, args...)
}

// Info logs at info level; sensitive keys are redacted.
func (l *TracedLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Info(msg, args...)
}

// Warn logs at warn level; sensitive keys are redacted.
func (l *TracedLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Warn(msg, args...)
}

// Error logs at error level; sensitive keys are redacted.
func (l *TracedLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.redactSensitive {
		args = redactSensitiveData(args)
	}
	l.WithContext(ctx).Error(msg, args...)
}

// WithContext returns an slog.Logger carrying run, agent and trace fields.
// A logger not bound to a run takes the run id from ctx.
func (l *TracedLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := l.logger
	runID := l.runID
	if runID == "" {
		runID = contextkeys.GetRunID(ctx)
	}
	if runID != "" {
		logger = logger.With(slog.String("run_id", runID))
	}
	if l.agentName != "" {
		logger = logger.With(slog.String("agent", l.agentName))
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		logger = logger.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	return logger
}

// NewJSONHandler creates a JSON log handler.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// NewTextHandler creates a human-readable log handler.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// ParseLevel maps a config level name onto slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the handler described by cfg. The returned closer must
// be called when output is a file; it is a no-op otherwise.
func NewHandler(cfg LoggingConfig) (slog.Handler, func() error, error) {
	var (
		w      io.Writer
		closer = func() error { return nil }
	)
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log output %s: %w", cfg.Output, err)
		}
		w = f
		closer = f.Close
	}

	level := ParseLevel(cfg.Level)
	if strings.ToLower(cfg.Format) == "json" {
		return NewJSONHandler(w, level), closer, nil
	}
	return NewTextHandler(w, level), closer, nil
}

var sensitiveFields = map[string]bool{
	"prompt":      true,
	"prompts":     true,
	"observation": true,
	"apikey":      true,
	"secret":      true,
	"password":    true,
	"token":       true,
	"credential":  true,
}

// redactSensitiveData replaces values of sensitive keys with "[REDACTED]".
func redactSensitiveData(args []any) []any {
	if len(args)%2 != 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 0; i < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			normalizedKey := strings.ToLower(strings.ReplaceAll(key, "_", ""))
			if sensitiveFields[normalizedKey] {
				redacted[i+1] = "[REDACTED]"
			}
		}
	}

	return redacted
}
