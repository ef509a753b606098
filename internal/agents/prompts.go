package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
)

const extractionPromptTemplate = `You are a knowledge graph architect extracting structured data from business observations.

STRICT RULES:
1. Entity types MUST be one of: [%s]
2. Generate unique ids in snake_case (e.g. dept_marketing, proc_hiring)
3. Extract ONLY entities explicitly mentioned
4. Relationship types MUST follow the domain directions:
%s
OUTPUT FORMAT (JSON only):
{
  "entities": [
    {
      "id": "unique_snake_case_id",
      "label": "Human Readable Name",
      "type": "EntityType",
      "properties": {"description": "Brief description", "confidence": 0.95}
    }
  ],
  "relationships": [
    {
      "from": "source_entity_id",
      "to": "target_entity_id",
      "type": "RELATIONSHIP_TYPE",
      "properties": {"confidence": 0.9}
    }
  ],
  "metadata": {"extractedEntityCount": 1, "complexity": "simple|medium|complex"}
}

OBSERVATION: "%s"

Return ONLY valid JSON, no markdown, no explanation.
`

const semanticPromptTemplate = `You are a semantic validator for a business knowledge graph.

ONTOLOGY RULES:
%s
PROPOSED CHANGES:
%s

TASK:
Check whether the proposed entities and relationships make semantic sense together.

Return ONLY JSON, where score is your confidence from 0.0 to 1.0:
{"isValid": true, "reason": "brief explanation", "score": 0.9}
`

const critiquePromptTemplate = `You are an expert knowledge graph quality evaluator.

EVALUATION FRAMEWORK (score each 1-10):
1. Completeness: are all necessary entities and relationships captured?
2. Specificity: are entities detailed enough with proper properties?
3. Utility: will this data enable useful business queries?
4. Structure: is the graph well organized and navigable?

CURRENT GRAPH (for context):
%s

PROPOSED CHANGES:
%s

Return ONLY JSON:
{
  "overallScore": 7.5,
  "dimensions": {"completeness": 8, "specificity": 7, "utility": 8, "structure": 7},
  "strengths": ["..."],
  "improvements": ["..."],
  "missingElements": ["..."],
  "recommendations": ["..."],
  "riskAssessment": {"dataQuality": "high|medium|low", "integrationComplexity": "simple|moderate|complex"}
}
`

const answerPromptTemplate = `You are an AI assistant for a business knowledge graph.

USER QUESTION: "%s"

CONTEXT FROM DATABASE:
%s

INSTRUCTIONS:
- Answer the question using ONLY the provided context.
- If the context contains the answer, state it clearly.
- If the context is empty or irrelevant, answer "%s"

Return ONLY JSON:
{"answer": "your answer"}
`

// ExtractionPrompt builds the proposer prompt for observation.
func ExtractionPrompt(observation string) string {
	var dirs strings.Builder
	for _, r := range ontology.RelationshipDirections {
		fmt.Fprintf(&dirs, "   - %s -> %s -> %s\n", r.From, r.Type, r.To)
	}
	return fmt.Sprintf(extractionPromptTemplate, ontology.EntityTypeNames(), dirs.String(), strings.TrimSpace(observation))
}

// SemanticPrompt builds the semantic consistency prompt for set.
func SemanticPrompt(set *ontology.CandidateSet) string {
	return fmt.Sprintf(semanticPromptTemplate, ontology.Summary(), indentJSON(proposalView(set)))
}

// CritiquePrompt builds the critic prompt for set and its graph context.
func CritiquePrompt(set *ontology.CandidateSet, recent []ontology.ContextEntity) string {
	if recent == nil {
		recent = []ontology.ContextEntity{}
	}
	return fmt.Sprintf(critiquePromptTemplate, indentJSON(recent), indentJSON(proposalView(set)))
}

// AnswerPrompt builds the question answering prompt over hoods.
func AnswerPrompt(question string, hoods []ontology.Neighborhood) string {
	type contextEntry struct {
		Name          string   `json:"name"`
		Type          string   `json:"type"`
		Description   string   `json:"description"`
		Relationships []string `json:"relationships"`
	}
	entries := make([]contextEntry, 0, len(hoods))
	for _, h := range hoods {
		rels := make([]string, 0, len(h.Relationships))
		for _, r := range h.Relationships {
			rels = append(rels, r.String())
		}
		entries = append(entries, contextEntry{h.Label, h.Type, h.Description, rels})
	}
	return fmt.Sprintf(answerPromptTemplate, strings.TrimSpace(question), indentJSON(entries), NoAnswer)
}

// proposalView drops metadata the model has no use for.
func proposalView(set *ontology.CandidateSet) any {
	return struct {
		Entities      []ontology.Entity       `json:"entities"`
		Relationships []ontology.Relationship `json:"relationships"`
	}{set.Entities, set.Relationships}
}

func indentJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}
