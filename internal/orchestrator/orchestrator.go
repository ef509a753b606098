package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/contextkeys"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/events"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

const (
	// DefaultRunTimeout bounds a whole run.
	DefaultRunTimeout = 5 * time.Minute
	// DefaultIndexTimeout bounds the semantic index update of a run.
	DefaultIndexTimeout = 30 * time.Second
)

// Orchestrator sequences the pipeline stages for each observation and
// keeps the process-wide run statistics.
//
// Run is safe for concurrent use. Concurrent runs share the stages, and
// with them the generation limiter, the proposal cache and the counters.
type Orchestrator struct {
	proposer  *agents.Proposer
	validator *agents.Validator
	critic    *agents.Critic
	applier   *agents.Applier

	bus     events.EventBus
	logger  *observability.TracedLogger
	tracer  trace.Tracer
	metrics *observability.PipelineMetrics
	clock   llm.Clock

	runTimeout   time.Duration
	indexTimeout time.Duration

	stats *stats
}

// Option is a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for orchestrator operations.
func WithLogger(logger *observability.TracedLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracerProvider sets the provider of the run span.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Orchestrator) {
		o.tracer = observability.Tracer(tp)
	}
}

// WithMetrics sets the pipeline instruments runs and stages are recorded in.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithEventBus sets the bus run lifecycle events are published on.
func WithEventBus(bus events.EventBus) Option {
	return func(o *Orchestrator) {
		if bus != nil {
			o.bus = bus
		}
	}
}

// WithClock sets the time source for latencies and trace timestamps.
func WithClock(c llm.Clock) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRunTimeout sets the deadline applied to every run.
// Default: 5m. Zero or negative keeps the default.
func WithRunTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.runTimeout = d
		}
	}
}

// WithIndexTimeout sets the deadline of the semantic index update.
// Default: 30s.
func WithIndexTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.indexTimeout = d
		}
	}
}

// New creates an Orchestrator. proposer, validator and applier are
// required. A nil critic behaves like a disabled one.
func New(proposer *agents.Proposer, validator *agents.Validator, critic *agents.Critic, applier *agents.Applier, options ...Option) (*Orchestrator, error) {
	switch {
	case proposer == nil:
		return nil, types.NewError(ErrCodeMissingStage, "proposer is required")
	case validator == nil:
		return nil, types.NewError(ErrCodeMissingStage, "validator is required")
	case applier == nil:
		return nil, types.NewError(ErrCodeMissingStage, "applier is required")
	}

	o := &Orchestrator{
		proposer:     proposer,
		validator:    validator,
		critic:       critic,
		applier:      applier,
		logger:       observability.NopLogger(),
		tracer:       observability.Tracer(nil),
		clock:        llm.SystemClock{},
		runTimeout:   DefaultRunTimeout,
		indexTimeout: DefaultIndexTimeout,
		stats:        newStats(),
	}
	for _, opt := range options {
		opt(o)
	}
	return o, nil
}

// run is the mutable state of one Run call.
type run struct {
	o      *Orchestrator
	result *RunResult
	logger *observability.TracedLogger
}

// Run processes one observation through every stage.
//
// The returned result is never nil. The error is non-nil only for FAILED
// runs and is the stage error that ended the run; its text is also in
// result.Error and in the failing step. A REJECTED run returns a nil error
// with Success false and the validator's reason.
func (o *Orchestrator) Run(ctx context.Context, observation string) (result *RunResult, err error) {
	runID := uuid.NewString()
	start := o.clock.Now()

	if o.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.runTimeout)
		defer cancel()
	}
	fingerprint := ontology.Fingerprint(observation)
	ctx = contextkeys.WithRunID(ctx, runID)
	ctx = contextkeys.WithObservation(ctx, fingerprint)

	ctx, span := o.tracer.Start(ctx, "ontograph.orchestrator.run",
		trace.WithAttributes(observability.AttrRunID.String(runID)))
	defer func() {
		span.SetAttributes(observability.AttrStatus.String(result.State.String()))
		observability.EndSpan(span, err)
	}()

	r := &run{
		o:      o,
		logger: o.logger.ForRun(runID),
		result: &RunResult{
			RunID:       runID,
			Observation: observation,
			State:       StateStart,
			Trace:       []StepRecord{},
		},
	}

	r.logger.Info(ctx, "pipeline run starting", "fingerprint", fingerprint)
	o.publish(ctx, events.Event{
		Type:    events.EventRunStarted,
		RunID:   runID,
		Payload: events.RunStartedPayload{Fingerprint: fingerprint},
	})

	err = r.execute(ctx, observation)
	o.finish(ctx, r, start)
	return r.result, err
}

func (r *run) execute(ctx context.Context, observation string) error {
	o := r.o
	if strings.TrimSpace(observation) == "" {
		return r.fail(ctx, "", types.NewError(ErrCodeEmptyObservation, "observation is empty"))
	}

	// PROPOSE
	r.enter(ctx, StatePropose)
	started := o.clock.Now()
	set, err := o.proposer.Propose(ctx, observation)
	if err != nil {
		r.record(ctx, agents.AgentProposer, StepFailed, o.since(started), nil, err)
		return r.fail(ctx, agents.AgentProposer, err)
	}
	r.record(ctx, agents.AgentProposer, StepSuccess, o.since(started), ProposerOutput{
		Entities:      len(set.Entities),
		Relationships: len(set.Relationships),
		Complexity:    set.Metadata.Complexity,
		CacheHit:      set.Metadata.CacheHit,
	}, nil)

	// VALIDATE
	r.enter(ctx, StateValidate)
	started = o.clock.Now()
	verdict, err := o.validator.Validate(ctx, set)
	if err != nil {
		r.record(ctx, agents.AgentValidator, StepFailed, o.since(started), nil, err)
		return r.fail(ctx, agents.AgentValidator, err)
	}
	output := ValidatorOutput{IsValid: verdict.IsValid, Dimensions: verdict.Dimensions, Reason: verdict.Reason}
	if !verdict.IsValid {
		r.record(ctx, agents.AgentValidator, StepRejected, o.since(started), output, nil)
		r.reject(ctx, verdict.Reason)
		return nil
	}
	r.record(ctx, agents.AgentValidator, StepSuccess, o.since(started), output, nil)

	// CRITIQUE
	if o.critic != nil && o.critic.Enabled() {
		r.enter(ctx, StateCritique)
		started = o.clock.Now()
		critique, err := o.critic.Review(ctx, set)
		status := StepSuccess
		if err != nil {
			status = StepWarning
			r.logger.Warn(ctx, "critic failed, continuing", "error", err.Error())
		}
		r.record(ctx, agents.AgentCritic, status, o.since(started), CriticOutput{
			QualityScore: critique.OverallScore,
			Dimensions:   critique.Dimensions,
		}, err)
		r.result.Critique = &critique
	} else {
		critique := agents.DisabledCritique()
		r.result.Critique = &critique
		r.logger.Debug(ctx, "critic skipped")
	}

	// APPLY
	r.enter(ctx, StateApply)
	started = o.clock.Now()
	changes, err := o.applier.Apply(ctx, set)
	if err != nil {
		r.record(ctx, agents.AgentApplier, StepFailed, o.since(started), changes, err)
		return r.fail(ctx, agents.AgentApplier, err)
	}
	r.record(ctx, agents.AgentApplier, StepSuccess, o.since(started), changes, nil)
	r.result.Changes = changes

	// INDEX_UPDATE
	r.enter(ctx, StateIndexUpdate)
	started = o.clock.Now()
	indexCtx, cancel := context.WithTimeout(ctx, o.indexTimeout)
	report := o.applier.IndexApplied(indexCtx, set, changes)
	cancel()
	var indexErr error
	status := StepSuccess
	if len(report.Errors) > 0 {
		status = StepWarning
		indexErr = fmt.Errorf("%d of %d index updates failed", len(report.Errors), len(report.Errors)+report.Indexed)
	}
	r.record(ctx, agents.AgentIndex, status, o.since(started), report, indexErr)
	r.result.Index = &report

	r.enter(ctx, StateFinalize)
	r.result.Success = true
	return nil
}

func (r *run) enter(ctx context.Context, s State) {
	r.logger.Debug(ctx, "state transition", "from", r.result.State.String(), "to", s.String())
	r.result.State = s
}

// record appends one step to the trace and reports it.
func (r *run) record(ctx context.Context, agent string, status StepStatus, latency time.Duration, output any, err error) {
	step := StepRecord{
		Agent:     agent,
		Status:    status,
		Latency:   latency,
		Output:    output,
		Timestamp: r.o.clock.Now().UTC(),
	}
	if err != nil {
		step.Error = err.Error()
	}
	r.result.Trace = append(r.result.Trace, step)

	r.o.stats.recordStage(agent, latency)
	r.o.metrics.RecordStage(ctx, agent, status.String(), latency)
	r.o.publish(ctx, events.Event{
		Type:    events.EventStageCompleted,
		RunID:   r.result.RunID,
		Agent:   agent,
		Payload: events.StagePayload{Status: status.String(), Latency: latency, Error: step.Error},
	})
	r.logger.Info(ctx, "stage completed",
		"stage", agent, "status", status.String(), "latency_ms", latency.Milliseconds())
}

// fail ends the run in FAILED. agent is empty when no stage ran.
func (r *run) fail(ctx context.Context, agent string, err error) error {
	r.result.State = StateFailed
	if agent != "" {
		r.result.Error = fmt.Sprintf("%s failed: %s", agent, err)
	} else {
		r.result.Error = err.Error()
	}
	r.logger.Error(ctx, "pipeline run failed", "stage", agent, "error", err.Error())
	return err
}

func (r *run) reject(ctx context.Context, reason string) {
	r.result.State = StateRejected
	r.result.Reason = reason
	r.logger.Info(ctx, "proposal rejected", "reason", reason)
}

// finish folds the run into the statistics and fills in the metrics.
func (o *Orchestrator) finish(ctx context.Context, r *run, start time.Time) {
	res := r.result
	total := o.since(start)

	o.stats.recordRun(res.State, total)
	o.metrics.RecordRun(ctx, outcome(res.State), total)

	res.Run = RunMetrics{TotalLatency: total, AgentBreakdown: make(map[string]float64, len(res.Trace))}
	for _, s := range res.Trace {
		res.Run.AgentBreakdown[s.Agent] = msec(s.Latency)
	}
	if ms := msec(total); ms > 0 {
		res.Run.Throughput = 1000 / ms
	}
	res.Metrics = o.Metrics()

	eventType := events.EventRunCompleted
	switch res.State {
	case StateRejected:
		eventType = events.EventRunRejected
	case StateFailed:
		eventType = events.EventRunFailed
	}
	o.publish(ctx, events.Event{
		Type:  eventType,
		RunID: res.RunID,
		Payload: events.RunFinishedPayload{
			State:   res.State.String(),
			Success: res.Success,
			Latency: total,
			Reason:  res.Reason,
			Error:   res.Error,
		},
	})

	if res.Success {
		r.logger.Info(ctx, "pipeline run completed",
			"latency_ms", total.Milliseconds(), "throughput", res.Run.ThroughputString())
	}
}

func outcome(s State) string {
	switch s {
	case StateFinalize:
		return "success"
	case StateRejected:
		return "rejected"
	default:
		return "failed"
	}
}

func (o *Orchestrator) publish(ctx context.Context, ev events.Event) {
	if o.bus == nil {
		return
	}
	ev.Timestamp = o.clock.Now().UTC()
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		ev.TraceID = sc.TraceID().String()
		ev.SpanID = sc.SpanID().String()
	}
	// The run context may already be done; delivery must not depend on it.
	if err := o.bus.Publish(context.WithoutCancel(ctx), ev); err != nil {
		o.logger.Debug(ctx, "event not published", "type", ev.Type.String(), "error", err.Error())
	}
}

func (o *Orchestrator) since(start time.Time) time.Duration {
	return o.clock.Now().Sub(start)
}

// Metrics returns a snapshot of the run counters and every stage's metrics.
func (o *Orchestrator) Metrics() Snapshot {
	critic := agents.CriticMetrics{Agent: agents.AgentCritic}
	if o.critic != nil {
		critic = o.critic.Metrics()
	}
	return Snapshot{
		System: o.stats.system(),
		Agents: AgentsSnapshot{
			Proposer:       o.proposer.Metrics(),
			Validator:      o.validator.Metrics(),
			Critic:         critic,
			Applier:        o.applier.Metrics(),
			StageLatencyMS: o.stats.stageLatency(),
		},
	}
}

// Reset clears the run statistics and the proposal cache. Stage counters
// are kept.
func (o *Orchestrator) Reset() {
	o.stats.reset()
	o.proposer.ClearCache()
	o.logger.Info(context.Background(), "pipeline metrics reset")
	o.publish(context.Background(), events.Event{Type: events.EventMetricsReset})
}
