package agents

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// ProposalCache maps observation fingerprints to candidate sets.
//
// Implementations must be safe for concurrent use and must not let callers
// mutate stored values.
type ProposalCache interface {
	Get(key string) (*ontology.CandidateSet, bool)
	Add(key string, set *ontology.CandidateSet)
	// Purge drops every entry.
	Purge()
	Len() int
}

// CacheConfig bounds the proposal cache.
type CacheConfig struct {
	// Size is the maximum number of cached proposals.
	Size int `mapstructure:"size" yaml:"size" validate:"min=1"`
	// TTL expires entries after this long. Zero keeps entries until evicted.
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"min=0"`
}

// DefaultCacheConfig keeps up to 1000 proposals with no expiry.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: 1000}
}

// Validate checks the bounds.
func (c CacheConfig) Validate() error {
	if c.Size < 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, fmt.Sprintf("cache.size must be at least 1, got %d", c.Size))
	}
	if c.TTL < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "cache.ttl must be non-negative")
	}
	return nil
}

// LRUProposalCache is a bounded, optionally expiring ProposalCache.
type LRUProposalCache struct {
	lru *expirable.LRU[string, *ontology.CandidateSet]
}

// NewLRUProposalCache creates a cache from cfg. A non-positive size falls
// back to the default.
func NewLRUProposalCache(cfg CacheConfig) *LRUProposalCache {
	if cfg.Size < 1 {
		cfg.Size = DefaultCacheConfig().Size
	}
	return &LRUProposalCache{
		lru: expirable.NewLRU[string, *ontology.CandidateSet](cfg.Size, nil, cfg.TTL),
	}
}

func (c *LRUProposalCache) Get(key string) (*ontology.CandidateSet, bool) {
	set, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return set.Clone(), true
}

func (c *LRUProposalCache) Add(key string, set *ontology.CandidateSet) {
	c.lru.Add(key, set.Clone())
}

func (c *LRUProposalCache) Purge() {
	c.lru.Purge()
}

func (c *LRUProposalCache) Len() int {
	return c.lru.Len()
}

var _ ProposalCache = (*LRUProposalCache)(nil)
