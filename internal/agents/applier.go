package agents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/vector"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// ItemError records one entity or relationship that could not be written.
type ItemError struct {
	Entity       string `json:"entity,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Error        string `json:"error"`
}

// ApplyResult accumulates the outcome of one Apply call.
type ApplyResult struct {
	EntitiesApplied      int         `json:"entities"`
	RelationshipsApplied int         `json:"relationships"`
	Errors               []ItemError `json:"errors"`

	// AppliedEntities lists the ids written, in order.
	AppliedEntities []string `json:"-"`
}

// IndexReport is the outcome of pushing applied entities to the index.
type IndexReport struct {
	Indexed int         `json:"indexed"`
	Errors  []ItemError `json:"errors,omitempty"`
}

// ApplierMetrics is a snapshot of the applier counters.
type ApplierMetrics struct {
	Agent                string  `json:"agent"`
	TotalApplies         int     `json:"totalApplies"`
	EntitiesApplied      int     `json:"entitiesApplied"`
	RelationshipsApplied int     `json:"relationshipsApplied"`
	ItemErrors           int     `json:"itemErrors"`
	SystemicFailures     int     `json:"systemicFailures"`
	Indexed              int     `json:"indexed"`
	IndexErrors          int     `json:"indexErrors"`
	AvgLatencyMS         float64 `json:"avgLatencyMs"`
}

// EntityWriter is the part of the knowledge store the applier writes to.
type EntityWriter interface {
	CreateEntity(ctx context.Context, e ontology.Entity) error
	CreateRelationship(ctx context.Context, r ontology.Relationship) error
}

// Applier commits approved candidate sets.
type Applier struct {
	store EntityWriter
	index vector.SemanticIndex
	opts  options

	mu    sync.Mutex
	stats ApplierMetrics
}

// NewApplier creates an applier writing to store. index may be nil, in
// which case IndexApplied does nothing.
func NewApplier(store EntityWriter, index vector.SemanticIndex, opts ...Option) *Applier {
	return &Applier{
		store: store,
		index: index,
		opts:  buildOptions(AgentApplier, opts),
		stats: ApplierMetrics{Agent: AgentApplier},
	}
}

// Apply writes every entity, then every relationship, one at a time. A
// failed item is recorded in the result and the batch continues. Only a
// store-wide failure, or ctx ending, aborts the batch; the error then
// carries ErrCodeApplierSystemicFailure and the result holds what was
// written before it.
func (a *Applier) Apply(ctx context.Context, set *ontology.CandidateSet) (result *ApplyResult, err error) {
	ctx, span := a.opts.tracer.Start(ctx, "ontograph.applier.apply", trace.WithAttributes(
		observability.AttrAgent.String(AgentApplier),
		observability.AttrEntityCount.Int(len(set.Entities)),
		observability.AttrRelationCount.Int(len(set.Relationships)),
	))
	defer func() { observability.EndSpan(span, err) }()

	start := a.opts.clock.Now()
	result = &ApplyResult{Errors: []ItemError{}}
	defer func() { a.observe(result, err != nil, a.opts.since(start)) }()

	for _, e := range set.Entities {
		if err := ctx.Err(); err != nil {
			return result, a.systemic(ctx, "entity "+e.ID, err)
		}
		if err := a.store.CreateEntity(ctx, e); err != nil {
			if graphrag.IsSystemic(err) {
				return result, a.systemic(ctx, "entity "+e.ID, err)
			}
			a.opts.logger.Warn(ctx, "entity not applied", "entity_id", e.ID, "error", err.Error())
			result.Errors = append(result.Errors, ItemError{Entity: e.ID, Error: err.Error()})
			continue
		}
		result.EntitiesApplied++
		result.AppliedEntities = append(result.AppliedEntities, e.ID)
	}

	for _, r := range set.Relationships {
		if err := ctx.Err(); err != nil {
			return result, a.systemic(ctx, "relationship "+r.Key(), err)
		}
		if err := a.store.CreateRelationship(ctx, r); err != nil {
			if graphrag.IsSystemic(err) {
				return result, a.systemic(ctx, "relationship "+r.Key(), err)
			}
			a.opts.logger.Warn(ctx, "relationship not applied", "relationship", r.Key(), "error", err.Error())
			result.Errors = append(result.Errors, ItemError{Relationship: r.Key(), Error: err.Error()})
			continue
		}
		result.RelationshipsApplied++
	}

	a.opts.metrics.RecordApplyErrors(ctx, len(result.Errors))
	span.SetAttributes(attribute.Int("ontograph.applier.item_errors", len(result.Errors)))
	a.opts.logger.Info(ctx, "candidate set applied",
		"entities", result.EntitiesApplied,
		"relationships", result.RelationshipsApplied,
		"item_errors", len(result.Errors))
	return result, nil
}

func (a *Applier) systemic(ctx context.Context, item string, cause error) error {
	a.opts.logger.Error(ctx, "knowledge store unavailable, aborting apply", "item", item, "error", cause.Error())
	return types.WrapError(ErrCodeApplierSystemicFailure, fmt.Sprintf("knowledge store unavailable while writing %s", item), cause)
}

// IndexApplied upserts every entity of set that result reports as written
// into the semantic index. Failures are logged and reported, never
// returned as errors.
func (a *Applier) IndexApplied(ctx context.Context, set *ontology.CandidateSet, result *ApplyResult) IndexReport {
	report := IndexReport{}
	if a.index == nil || result == nil || len(result.AppliedEntities) == 0 {
		return report
	}

	ctx, span := a.opts.tracer.Start(ctx, "ontograph.applier.index", trace.WithAttributes(
		observability.AttrAgent.String(AgentIndex),
		observability.AttrEntityCount.Int(len(result.AppliedEntities)),
	))
	defer span.End()

	applied := make(map[string]struct{}, len(result.AppliedEntities))
	for _, id := range result.AppliedEntities {
		applied[id] = struct{}{}
	}
	for _, e := range set.Entities {
		if _, ok := applied[e.ID]; !ok {
			continue
		}
		if err := a.index.Upsert(ctx, e.ID, e.IndexText(), e.IndexMetadata()); err != nil {
			a.opts.logger.Warn(ctx, "semantic index update failed", "entity_id", e.ID, "error", err.Error())
			report.Errors = append(report.Errors, ItemError{Entity: e.ID, Error: err.Error()})
			continue
		}
		report.Indexed++
	}

	a.mu.Lock()
	a.stats.Indexed += report.Indexed
	a.stats.IndexErrors += len(report.Errors)
	a.mu.Unlock()
	span.SetAttributes(attribute.Int("ontograph.index.errors", len(report.Errors)))
	return report
}

func (a *Applier) observe(result *ApplyResult, systemic bool, latency time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.TotalApplies++
	a.stats.EntitiesApplied += result.EntitiesApplied
	a.stats.RelationshipsApplied += result.RelationshipsApplied
	a.stats.ItemErrors += len(result.Errors)
	if systemic {
		a.stats.SystemicFailures++
	}
	a.stats.AvgLatencyMS = rollingAverage(a.stats.AvgLatencyMS, a.stats.TotalApplies, millis(latency))
}

// Metrics returns a snapshot of the applier counters.
func (a *Applier) Metrics() ApplierMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
