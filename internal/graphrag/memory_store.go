package graphrag

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag/graph"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

type memoryEntity struct {
	entity ontology.Entity
	seq    uint64
}

// MemoryStore is an in-process KnowledgeStore. It backs `graph.backend:
// memory` and the pipeline tests, and can be told to fail specific writes.
type MemoryStore struct {
	mu            sync.RWMutex
	entities      map[string]memoryEntity
	relationships map[string]ontology.Relationship
	seq           uint64

	entityFailures map[string]error
	existsErr      error
	unavailable    bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities:       make(map[string]memoryEntity),
		relationships:  make(map[string]ontology.Relationship),
		entityFailures: make(map[string]error),
	}
}

// Seed stores entities directly, bypassing failure injection.
func (s *MemoryStore) Seed(entities ...ontology.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		s.seq++
		s.entities[e.ID] = memoryEntity{entity: e, seq: s.seq}
	}
}

// FailEntity makes CreateEntity for id return err.
func (s *MemoryStore) FailEntity(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entityFailures[id] = err
}

// FailExists makes EntityExists return err.
func (s *MemoryStore) FailExists(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existsErr = err
}

// SetUnavailable simulates losing the database entirely.
func (s *MemoryStore) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = down
}

func (s *MemoryStore) checkAvailable() error {
	if s.unavailable {
		return &types.OntologyError{
			Code:      graph.ErrCodeGraphConnectionLost,
			Message:   "memory store marked unavailable",
			Retryable: true,
		}
	}
	return nil
}

func (s *MemoryStore) InitializeOntology(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkAvailable()
}

func (s *MemoryStore) EntityExists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkAvailable(); err != nil {
		return false, err
	}
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.entities[id]
	return ok, nil
}

func (s *MemoryStore) CreateEntity(ctx context.Context, e ontology.Entity) error {
	if err := validateEntity(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkAvailable(); err != nil {
		return err
	}
	if err := s.entityFailures[e.ID]; err != nil {
		return err
	}
	s.seq++
	s.entities[e.ID] = memoryEntity{entity: e, seq: s.seq}
	return nil
}

func (s *MemoryStore) CreateRelationship(ctx context.Context, r ontology.Relationship) error {
	relType, err := validateRelationship(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkAvailable(); err != nil {
		return err
	}
	_, fromOK := s.entities[r.From]
	_, toOK := s.entities[r.To]
	if !fromOK || !toOK {
		return types.NewError(ErrCodeEndpointMissing,
			fmt.Sprintf("relationship '%s': endpoint entity not found", r.Key()))
	}
	r.Type = relType
	s.relationships[r.From+"|"+relType+"|"+r.To] = r
	return nil
}

func (s *MemoryStore) RecentContext(ctx context.Context, limit int) ([]ontology.ContextEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	all := make([]memoryEntity, 0, len(s.entities))
	for _, me := range s.entities {
		all = append(all, me)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })

	out := make([]ontology.ContextEntity, 0, min(limit, len(all)))
	for _, me := range all[:min(limit, len(all))] {
		out = append(out, ontology.ContextEntity{
			ID:    me.entity.ID,
			Label: me.entity.Label,
			Type:  ontology.SafeLabel(me.entity.Type),
		})
	}
	return out, nil
}

func (s *MemoryStore) Stats(ctx context.Context) (ontology.GraphStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkAvailable(); err != nil {
		return ontology.GraphStats{}, err
	}

	labels := []string{}
	for _, me := range s.entities {
		label := ontology.SafeLabel(me.entity.Type)
		if !slices.Contains(labels, label) {
			labels = append(labels, label)
		}
	}
	slices.Sort(labels)

	return ontology.GraphStats{
		TotalNodes:         int64(len(s.entities)),
		TotalRelationships: int64(len(s.relationships)),
		NodeTypes:          labels,
	}, nil
}

func (s *MemoryStore) FindEntities(ctx context.Context, keyword string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" || limit <= 0 {
		return nil, nil
	}

	var ids []string
	for id, me := range s.entities {
		e := me.entity
		if strings.Contains(strings.ToLower(id), keyword) ||
			strings.Contains(strings.ToLower(e.Label), keyword) ||
			strings.Contains(strings.ToLower(ontology.SafeLabel(e.Type)), keyword) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids[:min(limit, len(ids))], nil
}

func (s *MemoryStore) Neighborhoods(ctx context.Context, ids []string, limit int) ([]ontology.Neighborhood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}

	outgoing := s.outgoingLocked()
	if len(ids) == 0 {
		ids = make([]string, 0, len(outgoing))
		for id := range outgoing {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		ids = ids[:min(max(limit, 0), len(ids))]
	}

	out := []ontology.Neighborhood{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		me, ok := s.entities[id]
		if _, dup := seen[id]; !ok || dup {
			continue
		}
		seen[id] = struct{}{}

		n := ontology.Neighborhood{
			ID:            id,
			Label:         me.entity.Label,
			Type:          ontology.SafeLabel(me.entity.Type),
			Description:   me.entity.Description(),
			Relationships: []ontology.NeighborEdge{},
		}
		for _, r := range outgoing[id] {
			n.Relationships = append(n.Relationships, ontology.NeighborEdge{
				Type:        r.Type,
				Target:      r.To,
				TargetLabel: s.labelLocked(r.To),
			})
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *MemoryStore) Export(ctx context.Context, limit int) (ontology.GraphView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view := ontology.GraphView{Nodes: []ontology.GraphNode{}, Edges: []ontology.GraphEdge{}}
	if err := s.checkAvailable(); err != nil {
		return view, err
	}

	ids := make([]string, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	ids = ids[:min(max(limit, 0), len(ids))]

	outgoing := s.outgoingLocked()
	for _, id := range ids {
		e := s.entities[id].entity
		view.Nodes = append(view.Nodes, ontology.GraphNode{
			ID:         id,
			Label:      e.Label,
			Type:       ontology.SafeLabel(e.Type),
			Properties: storableProperties(e.Properties),
		})
		for _, r := range outgoing[id] {
			view.Edges = append(view.Edges, ontology.GraphEdge{From: r.From, To: r.To, Label: r.Type})
		}
	}
	return view, nil
}

// outgoingLocked groups relationships by source, each group ordered by key.
func (s *MemoryStore) outgoingLocked() map[string][]ontology.Relationship {
	keys := make([]string, 0, len(s.relationships))
	for k := range s.relationships {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make(map[string][]ontology.Relationship)
	for _, k := range keys {
		r := s.relationships[k]
		out[r.From] = append(out[r.From], r)
	}
	return out
}

func (s *MemoryStore) labelLocked(id string) string {
	if me, ok := s.entities[id]; ok && me.entity.Label != "" {
		return me.entity.Label
	}
	return id
}

// Entity returns a stored entity.
func (s *MemoryStore) Entity(id string) (ontology.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	me, ok := s.entities[id]
	return me.entity, ok
}

// Relationships returns every stored relationship, ordered by key.
func (s *MemoryStore) Relationships() []ontology.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.relationships))
	for k := range s.relationships {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]ontology.Relationship, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.relationships[k])
	}
	return out
}

func (s *MemoryStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.unavailable {
		return types.Unhealthy("memory store marked unavailable")
	}
	return types.Healthy(fmt.Sprintf("%d entities in memory", len(s.entities)))
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ KnowledgeStore = (*MemoryStore)(nil)
