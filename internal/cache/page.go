// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache of rendered sales pages.
// A public request that hits the cache skips the database and the layout
// engine entirely. Saving a design invalidates the formation's entry.
//
// Each formation also has a generation counter that Invalidate bumps. A
// renderer reads the generation before loading the formation and passes it
// to Set; a page rendered from data older than the last invalidation is
// then discarded instead of cached.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached sales pages.
	pageKeyPrefix = "salespage:"

	// genKeyPrefix holds the per-formation generation counters. It is not
	// matched by pageKeyPrefix+"*" so InvalidateAll leaves it alone.
	genKeyPrefix = "salespage-gen:"

	// genTTL bounds how long an idle generation counter is kept.
	genTTL = 24 * time.Hour
)

// setIfCurrent stores the page only while the generation is unchanged.
// KEYS[1] generation, KEYS[2] page; ARGV[1] expected generation, ARGV[2]
// html, ARGV[3] ttl in milliseconds.
var setIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// PageCache manages rendered sales page HTML in Valkey. Cache failures are
// logged and treated as misses; they never fail a request.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a page cache backed by the given Valkey client.
// A non-positive ttl disables caching: Get always misses and Set is a no-op.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

func (pc *PageCache) enabled() bool {
	return pc != nil && pc.client != nil && pc.ttl > 0
}

// Key returns the cache key of a formation's sales page.
func Key(formationID uuid.UUID) string {
	return pageKeyPrefix + formationID.String()
}

func genKey(formationID uuid.UUID) string {
	return genKeyPrefix + formationID.String()
}

// Get retrieves the cached page of a formation.
func (pc *PageCache) Get(ctx context.Context, formationID uuid.UUID) ([]byte, bool) {
	if !pc.enabled() {
		return nil, false
	}
	val, err := pc.client.Get(ctx, Key(formationID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "formation_id", formationID, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "formation_id", formationID)
	return val, true
}

// Generation returns the current generation of a formation's page. Read it
// before loading the data the page is rendered from. Returns -1 when
// Valkey cannot be read, which makes the matching Set a no-op.
func (pc *PageCache) Generation(ctx context.Context, formationID uuid.UUID) int64 {
	if !pc.enabled() {
		return -1
	}
	gen, err := pc.client.Get(ctx, genKey(formationID)).Int64()
	if err == redis.Nil {
		return 0
	}
	if err != nil {
		slog.Warn("page cache generation error", "formation_id", formationID, "error", err)
		return -1
	}
	return gen
}

// Set stores the rendered page of a formation with the configured TTL,
// unless the formation was invalidated since gen was read.
func (pc *PageCache) Set(ctx context.Context, formationID uuid.UUID, gen int64, html []byte) {
	if !pc.enabled() || gen < 0 {
		return
	}
	stored, err := setIfCurrent.Run(ctx, pc.client,
		[]string{genKey(formationID), Key(formationID)},
		strconv.FormatInt(gen, 10), html, pc.ttl.Milliseconds(),
	).Int()
	if err != nil {
		slog.Warn("page cache set error", "formation_id", formationID, "error", err)
		return
	}
	if stored == 0 {
		slog.Debug("page cache set skipped, page is stale", "formation_id", formationID, "generation", gen)
	}
}

// Invalidate removes a formation's cached page and bumps its generation so
// renders already in flight do not store their result. It runs even when
// caching is disabled so entries written under an earlier TTL do not
// linger.
func (pc *PageCache) Invalidate(ctx context.Context, formationID uuid.UUID) {
	if pc == nil || pc.client == nil {
		return
	}
	_, err := pc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(formationID))
		pipe.Expire(ctx, genKey(formationID), genTTL)
		pipe.Del(ctx, Key(formationID))
		return nil
	})
	if err != nil {
		slog.Warn("page cache invalidate error", "formation_id", formationID, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "formation_id", formationID)
}

// InvalidateAll removes every cached sales page by scanning for the prefix.
// Used at startup since a new build may ship changed layouts.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil || pc.client == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
