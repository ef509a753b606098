package agents

import "github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"

// OutcomeKind tags the result of one validation dimension.
type OutcomeKind int

const (
	// OutcomePass admits the set at full confidence.
	OutcomePass OutcomeKind = iota
	// OutcomeFail rejects the set.
	OutcomeFail
	// OutcomeDegraded admits the set at lowered confidence because the
	// check could not run.
	OutcomeDegraded
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Outcome is what a validation dimension returns.
type Outcome struct {
	Kind   OutcomeKind
	Score  float64
	Reason string
}

// Pass returns a passing outcome with score.
func Pass(score float64) Outcome {
	return Outcome{Kind: OutcomePass, Score: score}
}

// Fail returns a rejecting outcome. Failed dimensions score 0.
func Fail(reason string) Outcome {
	return Outcome{Kind: OutcomeFail, Reason: reason}
}

// Degraded returns an admitting outcome with a lowered score.
func Degraded(score float64, reason string) Outcome {
	return Outcome{Kind: OutcomeDegraded, Score: score, Reason: reason}
}

// Admit is the validator's admission policy: Fail rejects, Pass and
// Degraded admit.
func Admit(o Outcome) bool {
	return o.Kind != OutcomeFail
}

// ReferentialPolicy judges one relationship given the ids proposed in the
// same set.
type ReferentialPolicy func(rel ontology.Relationship, proposed map[string]struct{}) Outcome

// AllowExternalEndpoints accepts every endpoint shape: both endpoints in
// the set, one external, or both external. External endpoints are checked
// when the relationship is written, where a missing node is a per-item
// apply error.
func AllowExternalEndpoints(rel ontology.Relationship, proposed map[string]struct{}) Outcome {
	return Pass(1.0)
}

// RequireOneProposedEndpoint rejects relationships that touch nothing in
// the set. It is not the default.
func RequireOneProposedEndpoint(rel ontology.Relationship, proposed map[string]struct{}) Outcome {
	_, from := proposed[rel.From]
	_, to := proposed[rel.To]
	if !from && !to {
		return Fail("relationship '" + rel.Key() + "' references no proposed entity")
	}
	return Pass(1.0)
}
