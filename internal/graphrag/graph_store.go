package graphrag

import (
	"context"
	"fmt"
	"strings"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag/graph"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

const (
	cypherEntityConstraint = `CREATE CONSTRAINT entity_id IF NOT EXISTS FOR (n:Entity) REQUIRE n.id IS UNIQUE`

	cypherEntityExists = `MATCH (e:Entity {id: $id}) RETURN count(e) AS count`

	// %s is the sanitized type label.
	cypherMergeEntity = `MERGE (e:Entity {id: $id})
SET e:%s,
    e += $properties,
    e.name = $name,
    e.label = $name,
    e.description = $description,
    e.type = $type,
    e.lastUpdated = datetime()`

	// %s is the sanitized relationship type.
	cypherMergeRelationship = `MATCH (a:Entity {id: $from})
MATCH (b:Entity {id: $to})
MERGE (a)-[r:%s]->(b)
SET r += $properties, r.confidence = $confidence
RETURN count(r) AS created`

	cypherRecentContext = `MATCH (n:Entity)
RETURN n.id AS id, n.name AS label, [l IN labels(n) WHERE l <> 'Entity'][0] AS type
ORDER BY n.lastUpdated DESC
LIMIT $limit`

	cypherFindEntities = `MATCH (n:Entity)
WHERE toLower(n.id) CONTAINS $keyword
   OR toLower(coalesce(n.name, '')) CONTAINS $keyword
   OR any(l IN labels(n) WHERE l <> 'Entity' AND toLower(l) CONTAINS $keyword)
RETURN n.id AS id
ORDER BY n.id
LIMIT $limit`

	cypherNeighborhoodsByID = `UNWIND range(0, size($ids) - 1) AS i
MATCH (n:Entity {id: $ids[i]})
OPTIONAL MATCH (n)-[r]->(m:Entity)
WITH i, n, r, m ORDER BY type(r), m.id
RETURN i, n.id AS id, coalesce(n.name, n.label, n.id) AS name,
       coalesce([l IN labels(n) WHERE l <> 'Entity'][0], 'Node') AS type,
       coalesce(n.description, 'No description') AS description,
       collect(CASE WHEN r IS NULL THEN null
               ELSE {rel: type(r), target: m.id, targetName: coalesce(m.name, m.label, m.id)} END) AS rels
ORDER BY i`

	cypherNeighborhoodsAny = `MATCH (n:Entity)-[]->(:Entity)
WITH DISTINCT n ORDER BY n.id LIMIT $limit
MATCH (n)-[r]->(m:Entity)
WITH n, r, m ORDER BY type(r), m.id
RETURN n.id AS id, coalesce(n.name, n.label, n.id) AS name,
       coalesce([l IN labels(n) WHERE l <> 'Entity'][0], 'Node') AS type,
       coalesce(n.description, 'No description') AS description,
       collect({rel: type(r), target: m.id, targetName: coalesce(m.name, m.label, m.id)}) AS rels
ORDER BY id`

	cypherExport = `MATCH (n:Entity)
WITH n ORDER BY n.id LIMIT $limit
OPTIONAL MATCH (n)-[r]->(m:Entity)
WITH n, r, m ORDER BY type(r), m.id
RETURN n.id AS id, coalesce(n.name, n.label, n.id) AS label,
       coalesce([l IN labels(n) WHERE l <> 'Entity'][0], 'Unknown') AS type,
       properties(n) AS properties,
       collect(CASE WHEN r IS NULL THEN null ELSE {type: type(r), target: m.id} END) AS rels
ORDER BY id`

	cypherStats = `CALL { MATCH (n) RETURN count(n) AS totalNodes }
CALL { MATCH ()-[r]->() RETURN count(r) AS totalRels }
CALL {
  MATCH (n) UNWIND labels(n) AS label
  WITH DISTINCT label WHERE label <> 'Entity'
  RETURN collect(label) AS labels
}
RETURN totalNodes, totalRels, labels`
)

// GraphStore implements KnowledgeStore over a GraphClient.
type GraphStore struct {
	client graph.GraphClient
	logger *observability.TracedLogger
}

// GraphStoreOption configures a GraphStore.
type GraphStoreOption func(*GraphStore)

// WithStoreLogger sets the logger.
func WithStoreLogger(l *observability.TracedLogger) GraphStoreOption {
	return func(s *GraphStore) { s.logger = l }
}

// NewGraphStore wraps an already connected client.
func NewGraphStore(client graph.GraphClient, opts ...GraphStoreOption) *GraphStore {
	s := &GraphStore{client: client, logger: observability.NopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GraphStore) InitializeOntology(ctx context.Context) error {
	if _, err := s.client.Execute(ctx, cypherEntityConstraint, nil); err != nil {
		return types.WrapError(ErrCodeOntologyInitFailed, "failed to create entity id constraint", err)
	}
	s.logger.Info(ctx, "ontology constraints ensured")
	return nil
}

func (s *GraphStore) EntityExists(ctx context.Context, id string) (bool, error) {
	res, err := s.client.Query(ctx, cypherEntityExists, map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	row := res.First()
	if row == nil {
		return false, nil
	}
	n, err := asInt64(row["count"])
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GraphStore) CreateEntity(ctx context.Context, e ontology.Entity) error {
	if err := validateEntity(e); err != nil {
		return err
	}
	cypher := fmt.Sprintf(cypherMergeEntity, ontology.SafeLabel(e.Type))
	_, err := s.client.Execute(ctx, cypher, map[string]any{
		"id":          e.ID,
		"name":        e.Label,
		"description": e.Description(),
		"type":        string(e.Type),
		"properties":  storableProperties(e.Properties),
	})
	return err
}

func (s *GraphStore) CreateRelationship(ctx context.Context, r ontology.Relationship) error {
	relType, err := validateRelationship(r)
	if err != nil {
		return err
	}
	res, err := s.client.Execute(ctx, fmt.Sprintf(cypherMergeRelationship, relType), map[string]any{
		"from":       r.From,
		"to":         r.To,
		"confidence": r.Confidence(),
		"properties": storableProperties(r.Properties),
	})
	if err != nil {
		return err
	}

	var created int64
	if row := res.First(); row != nil {
		if created, err = asInt64(row["created"]); err != nil {
			return err
		}
	}
	if created == 0 {
		return types.NewError(ErrCodeEndpointMissing,
			fmt.Sprintf("relationship '%s': endpoint entity not found", r.Key()))
	}
	return nil
}

func (s *GraphStore) RecentContext(ctx context.Context, limit int) ([]ontology.ContextEntity, error) {
	if limit <= 0 {
		return nil, nil
	}
	res, err := s.client.Query(ctx, cypherRecentContext, map[string]any{"limit": int64(limit)})
	if err != nil {
		return nil, err
	}
	out := make([]ontology.ContextEntity, 0, len(res.Records))
	for _, row := range res.Records {
		out = append(out, ontology.ContextEntity{
			ID:    asString(row["id"]),
			Label: asString(row["label"]),
			Type:  asString(row["type"]),
		})
	}
	return out, nil
}

func (s *GraphStore) Stats(ctx context.Context) (ontology.GraphStats, error) {
	var stats ontology.GraphStats
	res, err := s.client.Query(ctx, cypherStats, nil)
	if err != nil {
		return stats, err
	}
	row := res.First()
	if row == nil {
		return stats, nil
	}
	if stats.TotalNodes, err = asInt64(row["totalNodes"]); err != nil {
		return stats, err
	}
	if stats.TotalRelationships, err = asInt64(row["totalRels"]); err != nil {
		return stats, err
	}
	stats.NodeTypes = asStrings(row["labels"])
	return stats, nil
}

func (s *GraphStore) FindEntities(ctx context.Context, keyword string, limit int) ([]string, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" || limit <= 0 {
		return nil, nil
	}
	res, err := s.client.Query(ctx, cypherFindEntities, map[string]any{
		"keyword": keyword,
		"limit":   int64(limit),
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.Records))
	for _, row := range res.Records {
		if id := asString(row["id"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *GraphStore) Neighborhoods(ctx context.Context, ids []string, limit int) ([]ontology.Neighborhood, error) {
	var res graph.QueryResult
	var err error
	if len(ids) > 0 {
		res, err = s.client.Query(ctx, cypherNeighborhoodsByID, map[string]any{"ids": dedupe(ids)})
	} else {
		if limit <= 0 {
			return []ontology.Neighborhood{}, nil
		}
		res, err = s.client.Query(ctx, cypherNeighborhoodsAny, map[string]any{"limit": int64(limit)})
	}
	if err != nil {
		return nil, err
	}

	out := make([]ontology.Neighborhood, 0, len(res.Records))
	for _, row := range res.Records {
		n := ontology.Neighborhood{
			ID:            asString(row["id"]),
			Label:         asString(row["name"]),
			Type:          asString(row["type"]),
			Description:   asString(row["description"]),
			Relationships: []ontology.NeighborEdge{},
		}
		for _, rel := range asMaps(row["rels"]) {
			n.Relationships = append(n.Relationships, ontology.NeighborEdge{
				Type:        asString(rel["rel"]),
				Target:      asString(rel["target"]),
				TargetLabel: asString(rel["targetName"]),
			})
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *GraphStore) Export(ctx context.Context, limit int) (ontology.GraphView, error) {
	view := ontology.GraphView{Nodes: []ontology.GraphNode{}, Edges: []ontology.GraphEdge{}}
	if limit <= 0 {
		return view, nil
	}
	res, err := s.client.Query(ctx, cypherExport, map[string]any{"limit": int64(limit)})
	if err != nil {
		return view, err
	}
	for _, row := range res.Records {
		id := asString(row["id"])
		props, _ := row["properties"].(map[string]any)
		view.Nodes = append(view.Nodes, ontology.GraphNode{
			ID:         id,
			Label:      asString(row["label"]),
			Type:       asString(row["type"]),
			Properties: props,
		})
		for _, rel := range asMaps(row["rels"]) {
			view.Edges = append(view.Edges, ontology.GraphEdge{
				From:  id,
				To:    asString(rel["target"]),
				Label: asString(rel["type"]),
			})
		}
	}
	return view, nil
}

func (s *GraphStore) Health(ctx context.Context) types.HealthStatus {
	return s.client.Health(ctx)
}

func (s *GraphStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case nil:
		return 0, nil
	default:
		return 0, types.NewError(ErrCodeUnexpectedResultType, fmt.Sprintf("expected integer, got %T", v))
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// asMaps keeps the map entries of a collected list. Nulls from an empty
// OPTIONAL MATCH are dropped.
func asMaps(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		if maps, ok := v.([]map[string]any); ok {
			return maps
		}
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var _ KnowledgeStore = (*GraphStore)(nil)
