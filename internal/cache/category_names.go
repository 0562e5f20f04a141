package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "inventory:category:name:"

// LoadFunc fetches names for ids the cache does not hold.
type LoadFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

// CategoryNames resolves category ids to display names, reading through Redis
// when a client is configured. Redis failures fall back to the loader.
type CategoryNames struct {
	client *redis.Client
	load   LoadFunc
	ttl    time.Duration
}

func NewCategoryNames(client *redis.Client, load LoadFunc, ttl time.Duration) *CategoryNames {
	return &CategoryNames{client: client, load: load, ttl: ttl}
}

func key(id uuid.UUID) string { return keyPrefix + id.String() }

func (c *CategoryNames) Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	ids = unique(ids)
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	missing := ids
	if c.client != nil {
		missing = c.fromRedis(ctx, ids, names)
	}
	if len(missing) == 0 {
		return names, nil
	}

	loaded, err := c.load(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, name := range loaded {
		names[id] = name
	}
	if c.client != nil {
		c.store(ctx, loaded)
	}
	return names, nil
}

// Invalidate drops cached names, e.g. after a category rename.
func (c *CategoryNames) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if c.client == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("category cache invalidate failed", "err", err)
	}
}

func (c *CategoryNames) fromRedis(ctx context.Context, ids []uuid.UUID, into map[uuid.UUID]string) []uuid.UUID {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Warn("category cache read failed", "err", err)
		return ids
	}

	var missing []uuid.UUID
	for i, v := range vals {
		if s, ok := v.(string); ok {
			into[ids[i]] = s
			continue
		}
		missing = append(missing, ids[i])
	}
	return missing
}

func (c *CategoryNames) store(ctx context.Context, names map[uuid.UUID]string) {
	if len(names) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, key(id), name, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("category cache write failed", "err", err)
	}
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
