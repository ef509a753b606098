package agents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

const (
	// DisabledNote is attached to the placeholder critique.
	DisabledNote = "Critic disabled for performance"
	// UnavailableImprovement is the only improvement of a degraded critique.
	UnavailableImprovement = "Critique unavailable"
	// NeutralScore fills every score of a degraded critique.
	NeutralScore = 5.0
)

// CriticConfig controls the critic stage.
type CriticConfig struct {
	Enabled bool `mapstructure:"critic_enabled" yaml:"critic_enabled"`
	// FetchLimit is how many recent entities are read from the store.
	FetchLimit int `mapstructure:"context_fetch_limit" yaml:"context_fetch_limit" validate:"min=0"`
	// ContextLimit is how many of those are put in the prompt.
	ContextLimit int `mapstructure:"context_limit" yaml:"context_limit" validate:"min=0"`
}

// DefaultCriticConfig enables the critic with 10 of 20 fetched entities.
func DefaultCriticConfig() CriticConfig {
	return CriticConfig{Enabled: true, FetchLimit: 20, ContextLimit: 10}
}

// ContextSource supplies recent graph entities for critique.
type ContextSource interface {
	RecentContext(ctx context.Context, limit int) ([]ontology.ContextEntity, error)
}

// CriticMetrics is a snapshot of the critic counters.
type CriticMetrics struct {
	Agent             string             `json:"agent"`
	Enabled           bool               `json:"enabled"`
	TotalCritiques    int                `json:"totalCritiques"`
	Errors            int                `json:"errors"`
	AvgQualityScore   float64            `json:"avgQualityScore"`
	AvgLatencyMS      float64            `json:"avgLatencyMs"`
	DimensionAverages map[string]float64 `json:"dimensionAverages"`
}

// Critic scores candidate sets. It never fails a run: every error yields
// the degraded critique together with the error.
type Critic struct {
	gen    Generator
	source ContextSource
	cfg    CriticConfig
	opts   options

	mu      sync.Mutex
	stats   CriticMetrics
	scored  int
	dimSums ontology.CritiqueDimensions
}

// NewCritic creates a critic reading context from source.
func NewCritic(gen Generator, source ContextSource, cfg CriticConfig, opts ...Option) *Critic {
	return &Critic{
		gen:    gen,
		source: source,
		cfg:    cfg,
		opts:   buildOptions(AgentCritic, opts),
		stats:  CriticMetrics{Agent: AgentCritic, Enabled: cfg.Enabled},
	}
}

// Enabled reports whether the critic makes model calls.
func (c *Critic) Enabled() bool {
	return c.cfg.Enabled
}

// Review fetches recent graph context and critiques set against it.
// A context read failure degrades the critique like any other failure.
func (c *Critic) Review(ctx context.Context, set *ontology.CandidateSet) (ontology.Critique, error) {
	if !c.cfg.Enabled {
		return DisabledCritique(), nil
	}
	recent, err := c.source.RecentContext(ctx, c.cfg.FetchLimit)
	if err != nil {
		err = types.WrapError(ErrCodeCriticContextUnavailable, "failed to read graph context", err)
		c.opts.logger.Warn(ctx, "critique degraded", "error", err.Error())
		c.observe(nil, 0)
		return DegradedCritique(err), err
	}
	return c.Critique(ctx, set, recent)
}

// Critique scores set with at most ContextLimit entries of recent in the
// prompt. With the critic disabled it returns the placeholder without a
// call. On failure it returns DegradedCritique(err) and err.
func (c *Critic) Critique(ctx context.Context, set *ontology.CandidateSet, recent []ontology.ContextEntity) (critique ontology.Critique, err error) {
	if !c.cfg.Enabled {
		return DisabledCritique(), nil
	}

	ctx, span := c.opts.tracer.Start(ctx, "ontograph.critic.critique", trace.WithAttributes(
		observability.AttrAgent.String(AgentCritic),
		attribute.Int("ontograph.critic.context", min(len(recent), c.cfg.ContextLimit)),
	))
	defer func() { observability.EndSpan(span, err) }()

	start := c.opts.clock.Now()
	if len(recent) > c.cfg.ContextLimit {
		recent = recent[:c.cfg.ContextLimit]
	}

	critique, err = c.score(ctx, set, recent)
	latency := c.opts.since(start)
	if err != nil {
		c.observe(nil, latency)
		c.opts.logger.Warn(ctx, "critique degraded", "error", err.Error())
		return DegradedCritique(err), err
	}

	c.observe(&critique, latency)
	span.SetAttributes(attribute.Float64("ontograph.critic.score", critique.OverallScore.Value))
	c.opts.logger.Info(ctx, "critique complete",
		"score", critique.OverallScore.Value, "latency_ms", latency.Milliseconds())
	return critique, nil
}

func (c *Critic) score(ctx context.Context, set *ontology.CandidateSet, recent []ontology.ContextEntity) (ontology.Critique, error) {
	var critique ontology.Critique
	res, err := c.gen.Generate(ctx, CritiquePrompt(set, recent))
	if err != nil {
		return critique, err
	}
	if err := res.Decode(&critique); err != nil {
		return critique, err
	}
	if !critique.OverallScore.Valid {
		return critique, llm.NewMalformedResponseError("critique has no overallScore", nil)
	}
	if s := critique.OverallScore.Value; s < 0 || s > 10 {
		return critique, llm.NewMalformedResponseError(fmt.Sprintf("critique overallScore %v outside 0-10", s), nil)
	}
	return critique, nil
}

func (c *Critic) observe(critique *ontology.Critique, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.TotalCritiques++
	c.stats.AvgLatencyMS = rollingAverage(c.stats.AvgLatencyMS, c.stats.TotalCritiques, millis(latency))
	if critique == nil {
		c.stats.Errors++
		return
	}
	c.scored++
	c.stats.AvgQualityScore = rollingAverage(c.stats.AvgQualityScore, c.scored, critique.OverallScore.Value)
	c.dimSums.Completeness += critique.Dimensions.Completeness
	c.dimSums.Specificity += critique.Dimensions.Specificity
	c.dimSums.Utility += critique.Dimensions.Utility
	c.dimSums.Structure += critique.Dimensions.Structure
}

// Metrics returns a snapshot of the critic counters.
func (c *Critic) Metrics() CriticMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.stats
	m.DimensionAverages = map[string]float64{
		"completeness": 0, "specificity": 0, "utility": 0, "structure": 0,
	}
	if c.scored > 0 {
		n := float64(c.scored)
		m.DimensionAverages["completeness"] = c.dimSums.Completeness / n
		m.DimensionAverages["specificity"] = c.dimSums.Specificity / n
		m.DimensionAverages["utility"] = c.dimSums.Utility / n
		m.DimensionAverages["structure"] = c.dimSums.Structure / n
	}
	return m
}

// DisabledCritique is the placeholder returned when the critic is off.
func DisabledCritique() ontology.Critique {
	return ontology.Critique{Note: DisabledNote}
}

// DegradedCritique is the fixed stand-in used when critique fails.
func DegradedCritique(err error) ontology.Critique {
	c := ontology.Critique{
		OverallScore: ontology.ScoreOf(NeutralScore),
		Dimensions: ontology.CritiqueDimensions{
			Completeness: NeutralScore,
			Specificity:  NeutralScore,
			Utility:      NeutralScore,
			Structure:    NeutralScore,
		},
		Strengths:    []string{},
		Improvements: []string{UnavailableImprovement},
		Degraded:     true,
	}
	if err != nil {
		c.Error = err.Error()
	}
	return c
}
