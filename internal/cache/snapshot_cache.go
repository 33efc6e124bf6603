package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bbernstein/ambulance-finder/internal/config"
	"github.com/bbernstein/ambulance-finder/internal/models"
	"github.com/bbernstein/ambulance-finder/internal/store"
	"github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// Loader fetches a fresh fleet snapshot from the source of truth
type Loader func(ctx context.Context) ([]models.Ambulance, error)

// SharedSnapshotStore is a cache layer shared between processes
type SharedSnapshotStore interface {
	GetSnapshot(ctx context.Context, key string) ([]models.Ambulance, bool, error)
	SaveSnapshot(ctx context.Context, key string, ambulances []models.Ambulance, ttl time.Duration) error
}

type snapshotEntry struct {
	ambulances []models.Ambulance
	expiresAt  time.Time
}

// SnapshotCache keeps recent fleet snapshots in memory and, optionally, in a
// shared store. Snapshots are handed out as-is and must be treated as
// read-only by callers.
type SnapshotCache struct {
	lru    *lru.Cache[string, *snapshotEntry]
	shared SharedSnapshotStore
	ttl    time.Duration
	clock  clock

	lruHits      atomic.Uint64
	lruMisses    atomic.Uint64
	sharedHits   atomic.Uint64
	sharedMisses atomic.Uint64
}

// NewFromConfig builds a snapshot cache with the shared layer the config
// enables, Redis taking precedence over DynamoDB. A shared layer that cannot
// be reached leaves only the memory layer.
func NewFromConfig(ctx context.Context, cfg *config.CacheConfig) (*SnapshotCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}

	var shared SharedSnapshotStore
	switch {
	case cfg.EnableRedisCache:
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, using memory cache only")
			break
		}
		shared = NewRedisSnapshotStore(client)
	case cfg.EnableDynamoCache:
		client, err := store.NewDynamoClient(ctx)
		if err != nil {
			log.Warn().Err(err).Str("table", cfg.DynamoTable).Msg("DynamoDB unavailable, using memory cache only")
			break
		}
		shared = NewDynamoSnapshotStore(client, cfg.DynamoTable)
	}

	return NewSnapshotCache(cfg, shared)
}

func NewSnapshotCache(cfg *config.CacheConfig, shared SharedSnapshotStore) (*SnapshotCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}

	c := &SnapshotCache{
		ttl:   cfg.GetSnapshotTTL(),
		clock: systemClock{},
	}

	if cfg.EnableLRUCache {
		lruCache, err := lru.New[string, *snapshotEntry](cfg.SnapshotLRUSize)
		if err != nil {
			return nil, fmt.Errorf("creating LRU cache: %w", err)
		}
		c.lru = lruCache
	}

	if cfg.SharedLayerEnabled() {
		c.shared = shared
	}

	return c, nil
}

// Fetch returns the snapshot for key, loading it when no layer holds a fresh copy
func (c *SnapshotCache) Fetch(ctx context.Context, key string, load Loader) ([]models.Ambulance, error) {
	if c.ttl <= 0 {
		return load(ctx)
	}

	if c.lru != nil {
		if entry, ok := c.lru.Get(key); ok {
			if c.clock.Now().Before(entry.expiresAt) {
				c.lruHits.Add(1)
				log.Debug().Str("key", key).Msg("Memory cache HIT for fleet snapshot")
				return entry.ambulances, nil
			}
			c.lru.Remove(key)
		}
		c.lruMisses.Add(1)
	}

	if c.shared != nil {
		ambulances, ok, err := c.shared.GetSnapshot(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Error reading shared snapshot cache")
		} else if ok {
			c.sharedHits.Add(1)
			log.Debug().Str("key", key).Msg("Shared cache HIT for fleet snapshot")
			c.addToLRU(key, ambulances)
			return ambulances, nil
		} else {
			c.sharedMisses.Add(1)
		}
	}

	log.Debug().Str("key", key).Msg("Cache MISS for fleet snapshot, loading from store")
	ambulances, err := load(ctx)
	if err != nil {
		return nil, err
	}

	c.addToLRU(key, ambulances)
	if c.shared != nil {
		if err := c.shared.SaveSnapshot(ctx, key, ambulances, c.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Error writing shared snapshot cache")
		}
	}

	return ambulances, nil
}

func (c *SnapshotCache) addToLRU(key string, ambulances []models.Ambulance) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, &snapshotEntry{
		ambulances: ambulances,
		expiresAt:  c.clock.Now().Add(c.ttl),
	})
}

// Stats returns statistics about cache hits and misses
func (c *SnapshotCache) Stats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      c.lruHits.Load(),
		"lru_misses":    c.lruMisses.Load(),
		"shared_hits":   c.sharedHits.Load(),
		"shared_misses": c.sharedMisses.Load(),
	}
}

// Clear removes all entries from the LRU cache
func (c *SnapshotCache) Clear() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
