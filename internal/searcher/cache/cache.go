// Package cache provides a Redis-backed cache for top-5 query results.
// The index is rebuilt rarely, so query results are safe to cache for a
// short TTL and are invalidated wholesale after every reindex.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/searchlab-dev/keyword-search-engine/pkg/config"
	"github.com/searchlab-dev/keyword-search-engine/pkg/logger"
	pkgredis "github.com/searchlab-dev/keyword-search-engine/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "topsearch:"

// QueryCache caches topSearch results keyed by the keyword pair. Keyword
// order matters — ties favour the first keyword, so (a,b) and (b,a) are
// distinct queries.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache over an open Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: logger.WithComponent("query-cache"),
	}
}

// Get returns the cached result for a keyword pair, if present.
func (c *QueryCache) Get(ctx context.Context, kw1, kw2 string) ([]string, bool) {
	key := buildKey(kw1, kw2)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var docs []string
	if err := json.Unmarshal(data, &docs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return docs, true
}

// Set stores a query result with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, kw1, kw2 string, docs []string) {
	key := buildKey(kw1, kw2)
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and stores it,
// collapsing concurrent identical queries into a single computation.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	kw1, kw2 string,
	computeFn func() []string,
) (docs []string, cacheHit bool) {
	if docs, ok := c.Get(ctx, kw1, kw2); ok {
		return docs, true
	}
	key := buildKey(kw1, kw2)
	val, _, _ := c.group.Do(key, func() (any, error) {
		if docs, ok := c.Get(ctx, kw1, kw2); ok {
			return docs, nil
		}
		docs := computeFn()
		c.Set(ctx, kw1, kw2, docs)
		return docs, nil
	})
	return val.([]string), false
}

// Invalidate removes every cached query result. Called after a reindex.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats reports cumulative hit and miss counts.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func buildKey(kw1, kw2 string) string {
	return fmt.Sprintf("%s%s|%s", keyPrefix, kw1, kw2)
}
