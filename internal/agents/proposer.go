package agents

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// ProposerMetrics is a snapshot of the proposer counters.
type ProposerMetrics struct {
	Agent         string  `json:"agent"`
	TotalRequests int     `json:"totalRequests"`
	CacheHits     int     `json:"cacheHits"`
	APICalls      int     `json:"apiCalls"`
	Errors        int     `json:"errors"`
	AvgLatencyMS  float64 `json:"avgLatencyMs"`
	CacheHitRate  float64 `json:"cacheHitRate"`
	CacheSize     int     `json:"cacheSize"`
}

// Proposer extracts candidate sets from observations.
type Proposer struct {
	gen   Generator
	cache ProposalCache
	opts  options

	mu    sync.Mutex
	stats ProposerMetrics
}

// NewProposer creates a proposer. A nil cache gets a default LRU.
func NewProposer(gen Generator, cache ProposalCache, opts ...Option) *Proposer {
	if cache == nil {
		cache = NewLRUProposalCache(DefaultCacheConfig())
	}
	return &Proposer{
		gen:   gen,
		cache: cache,
		opts:  buildOptions(AgentProposer, opts),
		stats: ProposerMetrics{Agent: AgentProposer},
	}
}

// Propose returns the candidate set for observation, from the cache when
// the same text (ignoring case and surrounding whitespace) was seen before.
//
// Generation failures come back as ErrCodeProposerFailed wrapping the
// generation error; a reply with no entities wraps ErrCodeEmptyProposal.
func (p *Proposer) Propose(ctx context.Context, observation string) (set *ontology.CandidateSet, err error) {
	ctx, span := p.opts.tracer.Start(ctx, "ontograph.proposer.propose",
		trace.WithAttributes(observability.AttrAgent.String(AgentProposer)))
	defer func() { observability.EndSpan(span, err) }()

	start := p.opts.clock.Now()
	key := ontology.Fingerprint(observation)

	if cached, ok := p.cache.Get(key); ok {
		cached.Metadata.CacheHit = true
		p.observe(true, false, p.opts.since(start))
		p.opts.metrics.RecordCacheLookup(ctx, true)
		span.SetAttributes(observability.AttrCacheHit.Bool(true))
		p.opts.logger.Info(ctx, "proposal served from cache", "cache_key", key)
		return cached, nil
	}
	p.opts.metrics.RecordCacheLookup(ctx, false)
	span.SetAttributes(observability.AttrCacheHit.Bool(false))

	set, err = p.generate(ctx, observation)
	latency := p.opts.since(start)
	if err != nil {
		p.observe(false, true, latency)
		p.opts.logger.Error(ctx, "proposal failed", "error", err.Error(), "code", string(types.CodeOf(err)))
		return nil, types.WrapError(ErrCodeProposerFailed, "proposer failed", err)
	}

	set.Metadata.ProcessingTime = latency
	set.Metadata.CacheKey = key
	if set.Metadata.ExtractedEntityCount == 0 {
		set.Metadata.ExtractedEntityCount = len(set.Entities)
	}
	if set.Metadata.Complexity == "" {
		set.Metadata.Complexity = ontology.ComplexityUnknown
	}
	p.cache.Add(key, set)
	p.observe(false, false, latency)

	span.SetAttributes(
		observability.AttrEntityCount.Int(len(set.Entities)),
		observability.AttrRelationCount.Int(len(set.Relationships)),
	)
	p.opts.logger.Info(ctx, "proposed candidate set",
		"entities", len(set.Entities),
		"relationships", len(set.Relationships),
		"complexity", string(set.Metadata.Complexity),
		"latency_ms", latency.Milliseconds())
	return set, nil
}

func (p *Proposer) generate(ctx context.Context, observation string) (*ontology.CandidateSet, error) {
	res, err := p.gen.Generate(ctx, ExtractionPrompt(observation))
	if err != nil {
		return nil, err
	}
	var set ontology.CandidateSet
	if err := res.Decode(&set); err != nil {
		return nil, err
	}
	if set.IsEmpty() {
		return nil, types.NewError(ErrCodeEmptyProposal, "proposal has no entities")
	}
	return &set, nil
}

func (p *Proposer) observe(hit, failed bool, latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.TotalRequests++
	if hit {
		p.stats.CacheHits++
	} else {
		p.stats.APICalls++
	}
	if failed {
		p.stats.Errors++
	}
	p.stats.AvgLatencyMS = rollingAverage(p.stats.AvgLatencyMS, p.stats.TotalRequests, millis(latency))
}

// Metrics returns a snapshot of the proposer counters.
func (p *Proposer) Metrics() ProposerMetrics {
	p.mu.Lock()
	m := p.stats
	p.mu.Unlock()
	m.CacheHitRate = percent(m.CacheHits, m.TotalRequests)
	m.CacheSize = p.cache.Len()
	return m
}

// ClearCache drops every cached proposal.
func (p *Proposer) ClearCache() {
	p.cache.Purge()
}
