package agents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
)

func TestLRUProposalCache_ReturnsCopies(t *testing.T) {
	c := NewLRUProposalCache(DefaultCacheConfig())
	orig := candidates([]ontology.Entity{entity("a", ontology.EntityRole)})
	c.Add("k", orig)

	orig.Entities[0].Label = "mutated after add"

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "Label a", got.Entities[0].Label)

	got.Metadata.CacheHit = true
	again, _ := c.Get("k")
	assert.False(t, again.Metadata.CacheHit)
}

func TestLRUProposalCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUProposalCache(CacheConfig{Size: 2})
	c.Add("a", candidates([]ontology.Entity{entity("a", ontology.EntityRole)}))
	c.Add("b", candidates([]ontology.Entity{entity("b", ontology.EntityRole)}))
	_, _ = c.Get("a")
	c.Add("c", candidates([]ontology.Entity{entity("c", ontology.EntityRole)}))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestLRUProposalCache_Purge(t *testing.T) {
	c := NewLRUProposalCache(DefaultCacheConfig())
	c.Add("a", candidates([]ontology.Entity{entity("a", ontology.EntityRole)}))
	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestLRUProposalCache_TTL(t *testing.T) {
	c := NewLRUProposalCache(CacheConfig{Size: 10, TTL: 20 * time.Millisecond})
	c.Add("a", candidates([]ontology.Entity{entity("a", ontology.EntityRole)}))

	assert.Eventually(t, func() bool {
		_, ok := c.Get("a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCacheConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultCacheConfig().Validate())
	assert.Error(t, CacheConfig{Size: 0}.Validate())
	assert.Error(t, CacheConfig{Size: 1, TTL: -time.Second}.Validate())
}
