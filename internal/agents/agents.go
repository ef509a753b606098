package agents

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
)

// Stage names as they appear in traces, logs and metrics.
const (
	AgentProposer  = "Proposer"
	AgentValidator = "Validator"
	AgentCritic    = "Critic"
	AgentApplier   = "Applier"
	AgentAnswerer  = "Answerer"
	AgentIndex     = "SemanticIndex"
)

// Generator is the part of the generation client the stages need.
// *llm.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*llm.StructuredResult, error)
}

var _ Generator = (*llm.Generator)(nil)

type options struct {
	logger      *observability.TracedLogger
	metrics     *observability.PipelineMetrics
	tracer      trace.Tracer
	clock       llm.Clock
	referential ReferentialPolicy
}

// Option configures a stage. Options a stage has no use for are ignored.
type Option func(*options)

// WithLogger sets the stage logger. The stage binds its own agent name.
func WithLogger(l *observability.TracedLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the shared pipeline instruments.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracerProvider sets the tracer provider for stage spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = observability.Tracer(tp) }
}

// WithClock sets the time source used for latency measurement.
func WithClock(c llm.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithReferentialPolicy replaces the validator's referential integrity rule.
func WithReferentialPolicy(p ReferentialPolicy) Option {
	return func(o *options) {
		if p != nil {
			o.referential = p
		}
	}
}

func buildOptions(agent string, opts []Option) options {
	o := options{referential: AllowExternalEndpoints}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = observability.NopLogger()
	}
	o.logger = o.logger.ForAgent(agent)
	if o.tracer == nil {
		o.tracer = observability.Tracer(nil)
	}
	if o.clock == nil {
		o.clock = llm.SystemClock{}
	}
	return o
}

func (o *options) since(start time.Time) time.Duration {
	return o.clock.Now().Sub(start)
}

// rollingAverage folds sample into avg, where n counts samples including
// this one.
func rollingAverage(avg float64, n int, sample float64) float64 {
	if n <= 0 {
		return sample
	}
	return avg + (sample-avg)/float64(n)
}

// percent returns part/total as a percentage, 0 when total is 0.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
