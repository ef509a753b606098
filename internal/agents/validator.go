package agents

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Validation dimension names, in evaluation order.
const (
	DimensionSchema      = "schemaCompliance"
	DimensionDuplicate   = "duplicateDetection"
	DimensionReferential = "referentialIntegrity"
	DimensionSemantic    = "semanticConsistency"
)

// Scores used when an advisory dimension cannot run or is skipped.
const (
	DuplicateDegradedScore = 0.5
	SemanticDegradedScore  = 0.7
	TrivialSemanticScore   = 0.9
)

// EmptyProposalReason is the rejection for a nil or entity-less set.
const EmptyProposalReason = "Proposal is empty or malformed"

// EntityChecker is the knowledge store lookup used for duplicate detection.
type EntityChecker interface {
	EntityExists(ctx context.Context, id string) (bool, error)
}

// ValidatorMetrics is a snapshot of the validator counters.
type ValidatorMetrics struct {
	Agent            string         `json:"agent"`
	TotalValidations int            `json:"totalValidations"`
	Approved         int            `json:"approved"`
	Rejected         int            `json:"rejected"`
	Errors           int            `json:"errors"`
	AvgLatencyMS     float64        `json:"avgLatencyMs"`
	ApprovalRate     float64        `json:"approvalRate"`
	DimensionPasses  map[string]int `json:"validationDimensions"`
	DimensionDegrade map[string]int `json:"degradedDimensions"`
}

type dimension struct {
	name   string
	prefix string
	check  func(context.Context, *ontology.CandidateSet) Outcome
	score  func(*ontology.ValidationDimensions) *float64
}

// Validator runs the four validation dimensions over a candidate set.
type Validator struct {
	gen        Generator
	store      EntityChecker
	opts       options
	dimensions []dimension

	mu    sync.Mutex
	stats ValidatorMetrics
}

// NewValidator creates a validator that checks duplicates against store
// and semantic consistency through gen.
func NewValidator(gen Generator, store EntityChecker, opts ...Option) *Validator {
	v := &Validator{
		gen:   gen,
		store: store,
		opts:  buildOptions(AgentValidator, opts),
		stats: ValidatorMetrics{
			Agent:            AgentValidator,
			DimensionPasses:  make(map[string]int),
			DimensionDegrade: make(map[string]int),
		},
	}
	v.dimensions = []dimension{
		{DimensionSchema, "Schema violation: ", v.checkSchema,
			func(d *ontology.ValidationDimensions) *float64 { return &d.SchemaCompliance }},
		{DimensionDuplicate, "Duplicate detected: ", v.checkDuplicates,
			func(d *ontology.ValidationDimensions) *float64 { return &d.DuplicateDetection }},
		{DimensionReferential, "Referential error: ", v.checkReferences,
			func(d *ontology.ValidationDimensions) *float64 { return &d.ReferentialIntegrity }},
		{DimensionSemantic, "Semantic issue: ", v.checkSemantics,
			func(d *ontology.ValidationDimensions) *float64 { return &d.SemanticConsistency }},
	}
	return v
}

// Validate checks set along every dimension in order and stops at the first
// rejection. A rejection is a result, not an error. The returned error is
// non-nil only when validation itself could not finish, such as ctx ending
// mid-run, and carries ErrCodeValidatorSystemError.
func (v *Validator) Validate(ctx context.Context, set *ontology.CandidateSet) (result *ontology.ValidationResult, err error) {
	ctx, span := v.opts.tracer.Start(ctx, "ontograph.validator.validate",
		trace.WithAttributes(observability.AttrAgent.String(AgentValidator)))
	defer func() { observability.EndSpan(span, err) }()

	start := v.opts.clock.Now()
	if set.IsEmpty() {
		v.finish(start, nil, false, false)
		return v.reject(ctx, EmptyProposalReason), nil
	}

	var dims ontology.ValidationDimensions
	outcomes := make(map[string]Outcome, len(v.dimensions))
	for _, d := range v.dimensions {
		if err := ctx.Err(); err != nil {
			v.finish(start, outcomes, false, true)
			return nil, types.WrapError(ErrCodeValidatorSystemError,
				fmt.Sprintf("validation interrupted before %s", d.name), err)
		}

		outcome := d.check(ctx, set)
		outcomes[d.name] = outcome
		span.AddEvent("dimension", trace.WithAttributes(
			attribute.String("ontograph.validator.dimension", d.name),
			attribute.String("ontograph.validator.outcome", outcome.Kind.String()),
			attribute.Float64("ontograph.validator.score", outcome.Score),
		))

		if outcome.Kind == OutcomeDegraded {
			v.opts.logger.Warn(ctx, "validation dimension degraded",
				"dimension", d.name, "score", outcome.Score, "reason", outcome.Reason)
		}
		if !Admit(outcome) {
			v.finish(start, outcomes, false, false)
			return v.reject(ctx, d.prefix+outcome.Reason), nil
		}
		*d.score(&dims) = outcome.Score
	}

	if err := ctx.Err(); err != nil {
		v.finish(start, outcomes, false, true)
		return nil, types.WrapError(ErrCodeValidatorSystemError, "validation interrupted", err)
	}

	v.finish(start, outcomes, true, false)
	v.opts.logger.Info(ctx, "candidate set approved",
		"schema", dims.SchemaCompliance,
		"duplicate", dims.DuplicateDetection,
		"referential", dims.ReferentialIntegrity,
		"semantic", dims.SemanticConsistency)
	return &ontology.ValidationResult{IsValid: true, Dimensions: &dims}, nil
}

func (v *Validator) reject(ctx context.Context, reason string) *ontology.ValidationResult {
	v.opts.logger.Info(ctx, "candidate set rejected", "reason", reason)
	return &ontology.ValidationResult{IsValid: false, Reason: reason}
}

// checkSchema is the local hard gate on entity and relationship shape.
func (v *Validator) checkSchema(_ context.Context, set *ontology.CandidateSet) Outcome {
	seen := make(map[string]struct{}, len(set.Entities))
	for i, e := range set.Entities {
		if !e.Type.IsValid() {
			return Fail(fmt.Sprintf("Invalid entity type '%s'. Must be one of: %s", e.Type, ontology.EntityTypeNames()))
		}
		if e.ID == "" {
			return Fail(fmt.Sprintf("Entity at position %d missing required field 'id'", i))
		}
		if e.Label == "" {
			return Fail(fmt.Sprintf("Entity '%s' missing required field 'label'", e.ID))
		}
		if _, dup := seen[e.ID]; dup {
			return Fail(fmt.Sprintf("Entity ID '%s' appears more than once in the proposal", e.ID))
		}
		seen[e.ID] = struct{}{}
	}
	for i, r := range set.Relationships {
		for _, f := range []struct{ name, value string }{{"from", r.From}, {"to", r.To}, {"type", r.Type}} {
			if f.value == "" {
				return Fail(fmt.Sprintf("Relationship at position %d missing required field '%s'", i, f.name))
			}
		}
	}
	return Pass(1.0)
}

// checkDuplicates fails open when the store cannot answer.
func (v *Validator) checkDuplicates(ctx context.Context, set *ontology.CandidateSet) Outcome {
	for _, e := range set.Entities {
		exists, err := v.store.EntityExists(ctx, e.ID)
		if err != nil {
			return Degraded(DuplicateDegradedScore, "duplicate check unavailable: "+err.Error())
		}
		if exists {
			return Fail(fmt.Sprintf("Entity ID '%s' already exists", e.ID))
		}
	}
	return Pass(1.0)
}

func (v *Validator) checkReferences(_ context.Context, set *ontology.CandidateSet) Outcome {
	ids := set.EntityIDs()
	for _, r := range set.Relationships {
		if o := v.opts.referential(r, ids); !Admit(o) {
			return o
		}
	}
	return Pass(1.0)
}

type semanticVerdict struct {
	IsValid *bool    `json:"isValid"`
	Reason  string   `json:"reason"`
	Score   *float64 `json:"score"`
}

// checkSemantics asks the model for a verdict unless the set is a single
// entity with no relationships. It fails open.
func (v *Validator) checkSemantics(ctx context.Context, set *ontology.CandidateSet) Outcome {
	if len(set.Entities) == 1 && len(set.Relationships) == 0 {
		return Pass(TrivialSemanticScore)
	}

	res, err := v.gen.Generate(ctx, SemanticPrompt(set))
	if err != nil {
		return Degraded(SemanticDegradedScore, "AI validation skipped: "+err.Error())
	}
	var verdict semanticVerdict
	if err := res.Decode(&verdict); err != nil {
		return Degraded(SemanticDegradedScore, "AI validation skipped: "+err.Error())
	}
	if verdict.IsValid == nil {
		return Degraded(SemanticDegradedScore, "AI validation skipped: verdict has no isValid field")
	}
	if !*verdict.IsValid {
		reason := strings.TrimSpace(verdict.Reason)
		if reason == "" {
			reason = "model judged the proposal inconsistent"
		}
		return Fail(reason)
	}
	score := 1.0
	if verdict.Score != nil {
		score = min(max(*verdict.Score, 0), 1)
	}
	return Pass(score)
}

func (v *Validator) finish(start time.Time, outcomes map[string]Outcome, approved, systemErr bool) {
	latency := v.opts.since(start)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.stats.TotalValidations++
	switch {
	case systemErr:
		v.stats.Errors++
	case approved:
		v.stats.Approved++
	default:
		v.stats.Rejected++
	}
	for name, o := range outcomes {
		switch o.Kind {
		case OutcomePass:
			v.stats.DimensionPasses[name]++
		case OutcomeDegraded:
			v.stats.DimensionDegrade[name]++
		}
	}
	v.stats.AvgLatencyMS = rollingAverage(v.stats.AvgLatencyMS, v.stats.TotalValidations, millis(latency))
}

// Metrics returns a snapshot of the validator counters.
func (v *Validator) Metrics() ValidatorMetrics {
	v.mu.Lock()
	defer v.mu.Unlock()
	m := v.stats
	m.DimensionPasses = maps.Clone(v.stats.DimensionPasses)
	m.DimensionDegrade = maps.Clone(v.stats.DimensionDegrade)
	m.ApprovalRate = percent(m.Approved, m.TotalValidations)
	return m
}
