package ontology

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EntityType is one of the fixed business ontology classes.
type EntityType string

const (
	EntityOrganization EntityType = "Organization"
	EntityDepartment   EntityType = "Department"
	EntityRole         EntityType = "Role"
	EntityProcess      EntityType = "Process"
	EntityResource     EntityType = "Resource"
	EntityMetric       EntityType = "Metric"
	EntityProduct      EntityType = "Product"
	EntityService      EntityType = "Service"
	EntityLocation     EntityType = "Location"
	EntityEvent        EntityType = "Event"
)

// EntityTypes lists every admissible entity type in prompt order.
var EntityTypes = []EntityType{
	EntityOrganization,
	EntityDepartment,
	EntityRole,
	EntityProcess,
	EntityResource,
	EntityMetric,
	EntityProduct,
	EntityService,
	EntityLocation,
	EntityEvent,
}

func (t EntityType) String() string {
	return string(t)
}

// IsValid reports whether t is in the enumeration. Matching is case-sensitive.
func (t EntityType) IsValid() bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// EntityTypeNames returns the enumeration joined for messages and prompts.
func EntityTypeNames() string {
	names := make([]string, len(EntityTypes))
	for i, t := range EntityTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Entity is a proposed or stored node in the knowledge graph.
type Entity struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Type       EntityType     `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Description returns the "description" property or a placeholder.
func (e Entity) Description() string {
	if d, ok := e.Properties["description"].(string); ok && d != "" {
		return d
	}
	return "No description"
}

// IndexText renders the entity the way it is embedded in the semantic index.
func (e Entity) IndexText() string {
	props := e.Properties
	if props == nil {
		props = map[string]any{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		raw = []byte("{}")
	}
	return fmt.Sprintf("%s: %s. %s", e.Type, e.Label, raw)
}

// IndexMetadata returns id, type and label merged with the entity properties.
// The identity keys win over properties of the same name.
func (e Entity) IndexMetadata() map[string]any {
	md := make(map[string]any, len(e.Properties)+3)
	for k, v := range e.Properties {
		md[k] = v
	}
	md["id"] = e.ID
	md["type"] = string(e.Type)
	md["label"] = e.Label
	return md
}

// Relationship is a directed, typed edge between two entity ids. Endpoints
// may reference entities outside the candidate set that carries it.
type Relationship struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Key identifies a relationship in error reports.
func (r Relationship) Key() string {
	return r.From + "->" + r.To
}

// Confidence returns the "confidence" property, defaulting to 1.0.
func (r Relationship) Confidence() float64 {
	switch v := r.Properties["confidence"].(type) {
	case float64:
		if v != 0 {
			return v
		}
	case int:
		if v != 0 {
			return float64(v)
		}
	}
	return 1.0
}

// Complexity is the proposer's own estimate of an observation's difficulty.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
	ComplexityUnknown Complexity = "unknown"
)

// CandidateMetadata is attached to every candidate set by the proposer.
type CandidateMetadata struct {
	ExtractedEntityCount int           `json:"extractedEntityCount,omitempty"`
	Complexity           Complexity    `json:"complexity,omitempty"`
	ProcessingTime       time.Duration `json:"processingTime,omitempty"`
	CacheKey             string        `json:"cacheKey,omitempty"`
	CacheHit             bool          `json:"cacheHit,omitempty"`
}

// CandidateSet is the proposer's output for a single observation.
type CandidateSet struct {
	Entities      []Entity          `json:"entities"`
	Relationships []Relationship    `json:"relationships"`
	Metadata      CandidateMetadata `json:"metadata"`
}

// IsEmpty reports whether the set has no entities.
func (c *CandidateSet) IsEmpty() bool {
	return c == nil || len(c.Entities) == 0
}

// EntityIDs returns the set of entity ids in the candidate set.
func (c *CandidateSet) EntityIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.Entities))
	for _, e := range c.Entities {
		ids[e.ID] = struct{}{}
	}
	return ids
}

// Clone returns a deep-enough copy that callers may mutate metadata and
// slices without affecting cached values. Property maps are shared.
func (c *CandidateSet) Clone() *CandidateSet {
	if c == nil {
		return nil
	}
	out := &CandidateSet{
		Entities:      append([]Entity(nil), c.Entities...),
		Relationships: append([]Relationship(nil), c.Relationships...),
		Metadata:      c.Metadata,
	}
	return out
}

// ContextEntity is a compact view of a stored entity used as critic context.
type ContextEntity struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// GraphStats summarizes the knowledge store contents.
type GraphStats struct {
	TotalNodes         int64    `json:"totalNodes"`
	TotalRelationships int64    `json:"totalRelationships"`
	NodeTypes          []string `json:"nodesByType"`
}

// Neighborhood is a stored entity with its outgoing relationships, the
// unit of graph context handed to question answering.
type Neighborhood struct {
	ID            string         `json:"id"`
	Label         string         `json:"name"`
	Type          string         `json:"type"`
	Description   string         `json:"description"`
	Relationships []NeighborEdge `json:"relationships"`
}

// NeighborEdge is one outgoing relationship of a Neighborhood.
type NeighborEdge struct {
	Type        string `json:"rel"`
	Target      string `json:"target"`
	TargetLabel string `json:"targetName"`
}

// String renders the edge as "TYPE -> target name".
func (e NeighborEdge) String() string {
	return e.Type + " -> " + e.TargetLabel
}

// GraphView is the stored graph as plain nodes and edges, for export and
// visualization.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is one exported entity.
type GraphNode struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// GraphEdge is one exported relationship.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}
