package agents

import (
	"context"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
)

const marketingProposal = `{
  "entities": [
    {"id": "dept_marketing", "label": "Marketing", "type": "Department",
     "properties": {"description": "Handles brand campaigns", "confidence": 0.95}}
  ],
  "relationships": [],
  "metadata": {"extractedEntityCount": 1, "complexity": "simple"}
}`

// newTestGenerator builds a generator with no spacing or retries over p.
func newTestGenerator(p llm.LLMProvider) *llm.Generator {
	cfg := llm.ProviderConfig{Type: llm.ProviderMock, DefaultModel: "mock-model"}
	return llm.NewGenerator(p, cfg, llm.WithClock(llm.NewFakeClock(time.Unix(0, 0))))
}

func entity(id string, t ontology.EntityType) ontology.Entity {
	return ontology.Entity{ID: id, Label: "Label " + id, Type: t}
}

func candidates(entities []ontology.Entity, rels ...ontology.Relationship) *ontology.CandidateSet {
	return &ontology.CandidateSet{Entities: entities, Relationships: rels}
}

type contextFunc func(ctx context.Context, limit int) ([]ontology.ContextEntity, error)

func (f contextFunc) RecentContext(ctx context.Context, limit int) ([]ontology.ContextEntity, error) {
	return f(ctx, limit)
}
