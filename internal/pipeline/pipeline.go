package pipeline

import (
	"context"
	"errors"
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/config"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/events"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm/providers"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/embedder"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/vector"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/orchestrator"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Pipeline holds the components one process shares across runs: the
// orchestrated stages and the stores, telemetry and event bus they use.
type Pipeline struct {
	Orchestrator *orchestrator.Orchestrator
	Answerer     *agents.Answerer
	Store        graphrag.KnowledgeStore
	Index        vector.SemanticIndex
	Events       events.EventBus
	Logger       *observability.TracedLogger

	tracerProvider  *sdktrace.TracerProvider
	metricsShutdown observability.ShutdownFunc
	closeLog        func() error
}

// Option overrides a component New would otherwise build from config.
type Option func(*buildOptions)

type buildOptions struct {
	store    graphrag.KnowledgeStore
	index    vector.SemanticIndex
	provider llm.LLMProvider
	logger   *observability.TracedLogger
	clock    llm.Clock
}

// WithStore uses store instead of opening cfg.Graph. The pipeline takes
// ownership and closes it.
func WithStore(store graphrag.KnowledgeStore) Option {
	return func(o *buildOptions) { o.store = store }
}

// WithIndex uses index instead of opening cfg.Vector.
func WithIndex(index vector.SemanticIndex) Option {
	return func(o *buildOptions) { o.index = index }
}

// WithProvider uses provider instead of the one named by cfg.LLM.
func WithProvider(provider llm.LLMProvider) Option {
	return func(o *buildOptions) { o.provider = provider }
}

// WithLogger uses logger instead of one built from cfg.Logging.
func WithLogger(logger *observability.TracedLogger) Option {
	return func(o *buildOptions) { o.logger = logger }
}

// WithClock drives rate limiting and latency measurement.
func WithClock(clock llm.Clock) Option {
	return func(o *buildOptions) { o.clock = clock }
}

// New wires every component described by cfg. On error, whatever was
// already opened is closed again.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (_ *Pipeline, err error) {
	if cfg == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "configuration is nil")
	}
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		metricsShutdown: func(context.Context) error { return nil },
		closeLog:        func() error { return nil },
	}
	defer func() {
		if err != nil {
			_ = p.Close(context.WithoutCancel(ctx))
		}
	}()

	p.Logger = o.logger
	if p.Logger == nil {
		p.Logger, p.closeLog, err = NewLogger(cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	p.tracerProvider, err = observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, types.WrapError(types.INIT_CONFIG_FAILED, "failed to initialize tracing", err)
	}

	mp, shutdown, err := observability.InitMetrics(ctx, cfg.Metrics)
	if err != nil {
		return nil, types.WrapError(types.INIT_CONFIG_FAILED, "failed to initialize metrics", err)
	}
	p.metricsShutdown = shutdown
	metrics, err := observability.NewPipelineMetrics(mp)
	if err != nil {
		return nil, types.WrapError(types.INIT_CONFIG_FAILED, "failed to create pipeline instruments", err)
	}

	provider := o.provider
	if provider == nil {
		if err = cfg.LLM.Validate(); err != nil {
			return nil, err
		}
		if provider, err = providers.NewProvider(ctx, cfg.LLM); err != nil {
			return nil, err
		}
	}

	p.Store = o.store
	if p.Store == nil {
		if p.Store, err = graphrag.Open(ctx, cfg.Graph, p.Logger, p.tracerProvider); err != nil {
			return nil, types.WrapError(types.INIT_STORE_FAILED, "failed to open knowledge store", err)
		}
	}

	p.Index = o.index
	if p.Index == nil {
		if p.Index, err = OpenIndex(ctx, cfg, p.tracerProvider); err != nil {
			return nil, err
		}
	}

	p.Events = events.NewEventBus(events.WithErrorHandler(func(err error, fields map[string]any) {
		p.Logger.Debug(context.Background(), "event dropped",
			"error", err, "event_type", fields["event_type"], "run_id", fields["run_id"])
	}))

	genOpts := []llm.GeneratorOption{
		llm.WithLogger(p.Logger),
		llm.WithMetrics(metrics),
		llm.WithTracerProvider(p.tracerProvider),
	}
	stageOpts := []agents.Option{
		agents.WithLogger(p.Logger),
		agents.WithMetrics(metrics),
		agents.WithTracerProvider(p.tracerProvider),
		agents.WithReferentialPolicy(cfg.Pipeline.Referential()),
	}
	orchOpts := []orchestrator.Option{
		orchestrator.WithLogger(p.Logger),
		orchestrator.WithMetrics(metrics),
		orchestrator.WithTracerProvider(p.tracerProvider),
		orchestrator.WithEventBus(p.Events),
		orchestrator.WithRunTimeout(cfg.Pipeline.RunTimeout),
		orchestrator.WithIndexTimeout(cfg.Pipeline.IndexTimeout),
	}
	if o.clock != nil {
		genOpts = append(genOpts, llm.WithClock(o.clock))
		stageOpts = append(stageOpts, agents.WithClock(o.clock))
		orchOpts = append(orchOpts, orchestrator.WithClock(o.clock))
	}

	gen := llm.NewGenerator(provider, cfg.LLM, genOpts...)
	p.Orchestrator, err = orchestrator.New(
		agents.NewProposer(gen, agents.NewLRUProposalCache(cfg.Cache), stageOpts...),
		agents.NewValidator(gen, p.Store, stageOpts...),
		agents.NewCritic(gen, p.Store, cfg.Pipeline.CriticConfig, stageOpts...),
		agents.NewApplier(p.Store, p.Index, stageOpts...),
		orchOpts...,
	)
	if err != nil {
		return nil, err
	}
	p.Answerer = agents.NewAnswerer(gen, p.Store, p.Index, stageOpts...)

	p.Logger.Info(ctx, "pipeline ready",
		"provider", string(cfg.LLM.Type),
		"model", cfg.LLM.DefaultModel,
		"graph_backend", cfg.Graph.Backend,
		"vector_backend", cfg.Vector.Backend,
		"critic_enabled", cfg.Pipeline.Enabled,
	)
	return p, nil
}

// Close releases everything New opened, in reverse order.
func (p *Pipeline) Close(ctx context.Context) error {
	var errs []error
	if p.Events != nil {
		errs = append(errs, p.Events.Close())
	}
	if p.Index != nil {
		errs = append(errs, p.Index.Close())
	}
	if p.Store != nil {
		errs = append(errs, p.Store.Close(ctx))
	}
	if p.metricsShutdown != nil {
		errs = append(errs, p.metricsShutdown(ctx))
	}
	errs = append(errs, observability.ShutdownTracing(ctx, p.tracerProvider))
	if p.closeLog != nil {
		errs = append(errs, p.closeLog())
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg observability.LoggingConfig) (*observability.TracedLogger, func() error, error) {
	handler, closer, err := observability.NewHandler(cfg)
	if err != nil {
		return nil, nil, types.WrapError(types.INIT_CONFIG_FAILED, "failed to open log output", err)
	}
	return observability.NewTracedLogger(handler, "", ""), closer, nil
}

// OpenIndex builds the semantic index and the embedder behind it. The
// "none" backend needs no embedder. A nil tp uses the global provider.
func OpenIndex(ctx context.Context, cfg *config.Config, tp trace.TracerProvider) (vector.SemanticIndex, error) {
	if cfg.Vector.Backend == vector.BackendNone {
		return vector.DisabledIndex{}, nil
	}
	emb, err := embedder.CreateEmbedder(ctx, cfg.Embedder)
	if err != nil {
		return nil, types.WrapError(types.INIT_CONFIG_FAILED,
			fmt.Sprintf("failed to create %s embedder", cfg.Embedder.Provider), err)
	}
	index, err := vector.Open(ctx, cfg.Vector, emb, tp)
	if err != nil {
		return nil, types.WrapError(types.INIT_STORE_FAILED, "failed to open semantic index", err)
	}
	return index, nil
}
