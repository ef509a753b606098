package vector

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// storeFactories runs each contract test against every backend.
func storeFactories(t *testing.T) map[string]func(dims int) VectorStore {
	return map[string]func(dims int) VectorStore{
		"embedded": func(dims int) VectorStore {
			return NewEmbeddedVectorStore(dims)
		},
		"sqlite": func(dims int) VectorStore {
			s, err := NewSqliteVecStore(SqliteVecConfig{
				DBPath: filepath.Join(t.TempDir(), "vectors.db"),
				Dims:   dims,
			})
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestVectorStore_StoreAndGet(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(3)

			rec := NewVectorRecord("dept_sales", "Department: Sales. {}", []float64{1, 0, 0},
				map[string]any{"type": "Department"})
			require.NoError(t, s.Store(ctx, rec))

			got, err := s.Get(ctx, "dept_sales")
			require.NoError(t, err)
			assert.Equal(t, rec.Content, got.Content)
			assert.Equal(t, rec.Embedding, got.Embedding)
			assert.Equal(t, "Department", got.Metadata["type"])

			_, err = s.Get(ctx, "missing")
			assert.True(t, types.HasCode(err, ErrCodeVectorNotFound))
		})
	}
}

func TestVectorStore_UpsertReplaces(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(2)

			require.NoError(t, s.Store(ctx, NewVectorRecord("a", "old", []float64{1, 0}, nil)))
			require.NoError(t, s.Store(ctx, NewVectorRecord("a", "new", []float64{0, 1}, nil)))

			n, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			got, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "new", got.Content)
			assert.Equal(t, []float64{0, 1}, got.Embedding)
		})
	}
}

func TestVectorStore_SearchRanksAndFilters(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(2)

			require.NoError(t, s.Store(ctx, NewVectorRecord("exact", "e", []float64{1, 0}, map[string]any{"type": "Role"})))
			require.NoError(t, s.Store(ctx, NewVectorRecord("near", "n", []float64{1, 1}, map[string]any{"type": "Department"})))
			require.NoError(t, s.Store(ctx, NewVectorRecord("far", "f", []float64{-1, 0}, map[string]any{"type": "Role"})))

			results, err := s.Search(ctx, VectorQuery{Embedding: []float64{1, 0}, TopK: 2, MinScore: -1})
			require.NoError(t, err)
			require.Len(t, results, 2)
			assert.Equal(t, "exact", results[0].Record.ID)
			assert.InDelta(t, 1.0, results[0].Score, 1e-9)
			assert.Equal(t, "near", results[1].Record.ID)

			results, err = s.Search(ctx, VectorQuery{
				Embedding: []float64{1, 0},
				TopK:      10,
				Filters:   map[string]any{"type": "Role"},
				MinScore:  0,
			})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "exact", results[0].Record.ID)
		})
	}
}

func TestVectorStore_Validation(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(3)

			err := s.Store(ctx, NewVectorRecord("a", "x", []float64{1, 0}, nil))
			assert.True(t, types.HasCode(err, ErrCodeVectorStoreFailed))

			err = s.Store(ctx, NewVectorRecord("", "x", []float64{1, 0, 0}, nil))
			assert.Error(t, err)

			_, err = s.Search(ctx, VectorQuery{Embedding: []float64{1, 0, 0}, TopK: 0})
			assert.True(t, types.HasCode(err, ErrCodeVectorSearchFailed))

			_, err = s.Search(ctx, VectorQuery{Embedding: []float64{1}, TopK: 1})
			assert.True(t, types.HasCode(err, ErrCodeVectorSearchFailed))
		})
	}
}

func TestVectorStore_DeleteAndClose(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(2)

			require.NoError(t, s.Store(ctx, NewVectorRecord("a", "x", []float64{1, 0}, nil)))
			require.NoError(t, s.Delete(ctx, "a"))
			require.NoError(t, s.Delete(ctx, "a"))
			n, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
			assert.True(t, s.Health(ctx).IsHealthy())

			require.NoError(t, s.Close())
			assert.True(t, s.Health(ctx).IsUnhealthy())
			err = s.Store(ctx, NewVectorRecord("b", "x", []float64{1, 0}, nil))
			assert.True(t, types.HasCode(err, ErrCodeVectorStoreUnavailable))
		})
	}
}

func TestVectorStore_ConcurrentWrites(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(2)

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					id := string(rune('a' + i))
					assert.NoError(t, s.Store(ctx, NewVectorRecord(id, id, []float64{float64(i), 1}, nil)))
				}(i)
			}
			wg.Wait()

			n, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 20, n)
		})
	}
}
