package graphrag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// KnowledgeStore is the persistent entity graph.
//
// Thread-safety: all implementations must be safe for concurrent access.
type KnowledgeStore interface {
	// InitializeOntology creates the schema constraints. Safe to call repeatedly.
	InitializeOntology(ctx context.Context) error

	// EntityExists reports whether an entity with id is stored.
	EntityExists(ctx context.Context, id string) (bool, error)

	// CreateEntity merges e on its id.
	CreateEntity(ctx context.Context, e ontology.Entity) error

	// CreateRelationship merges r between two stored entities. A missing
	// endpoint yields ErrCodeEndpointMissing.
	CreateRelationship(ctx context.Context, r ontology.Relationship) error

	// RecentContext returns up to limit entities, most recently updated first.
	RecentContext(ctx context.Context, limit int) ([]ontology.ContextEntity, error)

	// Stats summarizes the stored graph.
	Stats(ctx context.Context) (ontology.GraphStats, error)

	// FindEntities returns the ids of up to limit entities whose id, name
	// or type contains keyword, ignoring case.
	FindEntities(ctx context.Context, keyword string, limit int) ([]string, error)

	// Neighborhoods returns the stored entities among ids with their
	// outgoing relationships. Unknown ids are skipped. With no ids it
	// returns up to limit entities that have at least one outgoing
	// relationship.
	Neighborhoods(ctx context.Context, ids []string, limit int) ([]ontology.Neighborhood, error)

	// Export returns up to limit nodes ordered by id and the relationships
	// leaving them.
	Export(ctx context.Context, limit int) (ontology.GraphView, error)

	Health(ctx context.Context) types.HealthStatus
	Close(ctx context.Context) error
}

// reservedProperties are written from the entity's own fields and may not
// be overridden by free-form properties.
var reservedProperties = map[string]struct{}{
	"id": {}, "name": {}, "label": {}, "type": {}, "description": {}, "lastUpdated": {},
}

// validateEntity checks the fields every backend needs.
func validateEntity(e ontology.Entity) error {
	if strings.TrimSpace(e.ID) == "" {
		return types.NewError(ErrCodeInvalidEntity, "entity id is required")
	}
	if strings.TrimSpace(e.Label) == "" {
		return types.NewError(ErrCodeInvalidEntity, fmt.Sprintf("entity '%s' has no label", e.ID))
	}
	return nil
}

// validateRelationship checks endpoints and returns the sanitized type.
func validateRelationship(r ontology.Relationship) (string, error) {
	if r.From == "" || r.To == "" {
		return "", types.NewError(ErrCodeInvalidRelationship,
			fmt.Sprintf("relationship '%s' is missing an endpoint", r.Key()))
	}
	relType := ontology.SafeRelationshipType(r.Type)
	if strings.Trim(relType, "_") == "" {
		return "", types.NewError(ErrCodeInvalidRelationship,
			fmt.Sprintf("relationship '%s' has no usable type", r.Key()))
	}
	return relType, nil
}

// storableProperties keeps the values a property graph can hold directly.
// Nested structures are stored as JSON strings.
func storableProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if _, reserved := reservedProperties[k]; reserved {
			continue
		}
		switch val := v.(type) {
		case nil:
		case string, bool, int, int32, int64, float32, float64:
			out[k] = val
		case []string:
			out[k] = val
		default:
			if raw, err := json.Marshal(val); err == nil {
				out[k] = string(raw)
			}
		}
	}
	return out
}
