package graphrag

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

func TestMemoryStore_EntitiesAndRelationships(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.InitializeOntology(ctx))

	exists, err := s.EntityExists(ctx, "dept_sales")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.CreateEntity(ctx, ontology.Entity{ID: "dept_sales", Label: "Sales", Type: ontology.EntityDepartment}))
	require.NoError(t, s.CreateEntity(ctx, ontology.Entity{ID: "role_vp", Label: "VP Sales", Type: ontology.EntityRole}))

	exists, err = s.EntityExists(ctx, "dept_sales")
	require.NoError(t, err)
	assert.True(t, exists)

	rel := ontology.Relationship{From: "role_vp", To: "dept_sales", Type: "manages"}
	require.NoError(t, s.CreateRelationship(ctx, rel))
	require.NoError(t, s.CreateRelationship(ctx, rel), "merge is idempotent")
	rels := s.Relationships()
	require.Len(t, rels, 1)
	assert.Equal(t, "MANAGES", rels[0].Type)

	err = s.CreateRelationship(ctx, ontology.Relationship{From: "role_vp", To: "nowhere", Type: "USES"})
	assert.True(t, types.HasCode(err, ErrCodeEndpointMissing))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalNodes)
	assert.Equal(t, int64(1), stats.TotalRelationships)
	assert.Equal(t, []string{"Department", "Role"}, stats.NodeTypes)
}

func TestMemoryStore_RecentContextOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreateEntity(ctx, ontology.Entity{ID: id, Label: id, Type: ontology.EntityProcess}))
	}
	require.NoError(t, s.CreateEntity(ctx, ontology.Entity{ID: "a", Label: "a2", Type: ontology.EntityProcess}))

	got, err := s.RecentContext(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "a2", got[0].Label)
	assert.Equal(t, "c", got[1].ID)

	all, err := s.RecentContext(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryStore_FailureInjection(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.FailEntity("bad", errors.New("constraint violation"))
	assert.Error(t, s.CreateEntity(ctx, ontology.Entity{ID: "bad", Label: "Bad", Type: ontology.EntityRole}))
	assert.NoError(t, s.CreateEntity(ctx, ontology.Entity{ID: "good", Label: "Good", Type: ontology.EntityRole}))

	s.FailExists(errors.New("timeout"))
	_, err := s.EntityExists(ctx, "good")
	assert.Error(t, err)

	s.SetUnavailable(true)
	err = s.CreateEntity(ctx, ontology.Entity{ID: "x", Label: "X", Type: ontology.EntityRole})
	assert.True(t, IsSystemic(err))
	assert.True(t, s.Health(ctx).IsUnhealthy())
}

func TestMemoryStore_Seed(t *testing.T) {
	s := NewMemoryStore()
	s.FailEntity("dept_sales", errors.New("ignored by seed"))
	s.Seed(ontology.Entity{ID: "dept_sales", Label: "Sales", Type: ontology.EntityDepartment})

	e, ok := s.Entity("dept_sales")
	require.True(t, ok)
	assert.Equal(t, "Sales", e.Label)
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = s.CreateEntity(ctx, ontology.Entity{ID: id, Label: id, Type: ontology.EntityResource})
			_, _ = s.EntityExists(ctx, id)
		}(i)
	}
	wg.Wait()

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(26), stats.TotalNodes)
}

// seededOrg stores a small organization: Acme with a Marketing department
// run by a CMO, plus an unconnected Payroll process.
func seededOrg(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()
	for _, e := range []ontology.Entity{
		{ID: "org_acme", Label: "Acme", Type: ontology.EntityOrganization},
		{ID: "dept_marketing", Label: "Marketing", Type: ontology.EntityDepartment,
			Properties: map[string]any{"description": "Brand campaigns", "headcount": 12}},
		{ID: "role_cmo", Label: "Chief Marketing Officer", Type: ontology.EntityRole},
		{ID: "proc_payroll", Label: "Payroll", Type: ontology.EntityProcess},
	} {
		require.NoError(t, s.CreateEntity(ctx, e))
	}
	for _, r := range []ontology.Relationship{
		{From: "dept_marketing", To: "org_acme", Type: "PART_OF"},
		{From: "role_cmo", To: "dept_marketing", Type: "MANAGES"},
		{From: "role_cmo", To: "org_acme", Type: "WORKS_FOR"},
	} {
		require.NoError(t, s.CreateRelationship(ctx, r))
	}
	return s
}

func TestMemoryStore_FindEntities(t *testing.T) {
	s := seededOrg(t)
	ctx := context.Background()

	tests := []struct {
		keyword string
		limit   int
		want    []string
	}{
		{keyword: "marketing", limit: 5, want: []string{"dept_marketing", "role_cmo"}},
		{keyword: "MARKETING", limit: 1, want: []string{"dept_marketing"}},
		{keyword: "process", limit: 5, want: []string{"proc_payroll"}},
		{keyword: "acme", limit: 5, want: []string{"org_acme"}},
		{keyword: "nothing", limit: 5, want: []string{}},
		{keyword: "  ", limit: 5, want: nil},
		{keyword: "acme", limit: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, err := s.FindEntities(ctx, tt.keyword, tt.limit)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestMemoryStore_Neighborhoods(t *testing.T) {
	s := seededOrg(t)
	ctx := context.Background()

	got, err := s.Neighborhoods(ctx, []string{"role_cmo", "ghost", "proc_payroll", "role_cmo"}, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, ontology.Neighborhood{
		ID:          "role_cmo",
		Label:       "Chief Marketing Officer",
		Type:        "Role",
		Description: "No description",
		Relationships: []ontology.NeighborEdge{
			{Type: "MANAGES", Target: "dept_marketing", TargetLabel: "Marketing"},
			{Type: "WORKS_FOR", Target: "org_acme", TargetLabel: "Acme"},
		},
	}, got[0])
	assert.Equal(t, "proc_payroll", got[1].ID)
	assert.Empty(t, got[1].Relationships)

	// Without ids only connected entities come back.
	general, err := s.Neighborhoods(ctx, nil, 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(general))
	for _, n := range general {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"dept_marketing", "role_cmo"}, ids)
	assert.Equal(t, "Brand campaigns", general[0].Description)

	capped, err := s.Neighborhoods(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

func TestMemoryStore_Export(t *testing.T) {
	s := seededOrg(t)
	ctx := context.Background()

	view, err := s.Export(ctx, 100)
	require.NoError(t, err)
	require.Len(t, view.Nodes, 4)
	assert.Equal(t, "dept_marketing", view.Nodes[0].ID)
	assert.Equal(t, "Department", view.Nodes[0].Type)
	assert.Equal(t, map[string]any{"headcount": 12}, view.Nodes[0].Properties)
	assert.ElementsMatch(t, []ontology.GraphEdge{
		{From: "dept_marketing", To: "org_acme", Label: "PART_OF"},
		{From: "role_cmo", To: "dept_marketing", Label: "MANAGES"},
		{From: "role_cmo", To: "org_acme", Label: "WORKS_FOR"},
	}, view.Edges)

	// Edges follow the exported sources only.
	view, err = s.Export(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Nodes, 1)
	assert.Equal(t, []ontology.GraphEdge{{From: "dept_marketing", To: "org_acme", Label: "PART_OF"}}, view.Edges)

	s.SetUnavailable(true)
	_, err = s.Export(ctx, 10)
	assert.True(t, IsSystemic(err))
	_, err = s.Neighborhoods(ctx, nil, 10)
	assert.True(t, IsSystemic(err))
	_, err = s.FindEntities(ctx, "acme", 5)
	assert.True(t, IsSystemic(err))
}
