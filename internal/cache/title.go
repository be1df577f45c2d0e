// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// titleKeyPrefix is the Valkey key prefix for cached title bodies.
	titleKeyPrefix = "title:"

	// DefaultTitleTTL is how long a serialized title stays cached.
	DefaultTitleTTL = 5 * time.Minute
)

// TitleCache stores the serialized read shape of single titles. Entries
// hold the rating aggregate, so any review write must invalidate the title.
// Cache failures are logged and treated as misses.
type TitleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTitleCache creates a title cache backed by the given Valkey client.
func NewTitleCache(client *redis.Client, ttl time.Duration) *TitleCache {
	if ttl == 0 {
		ttl = DefaultTitleTTL
	}
	return &TitleCache{client: client, ttl: ttl}
}

func titleKey(id int64) string {
	return titleKeyPrefix + strconv.FormatInt(id, 10)
}

// Get returns the cached body for title id.
func (c *TitleCache) Get(ctx context.Context, id int64) ([]byte, bool) {
	val, err := c.client.Get(ctx, titleKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("title cache get error", "title_id", id, "error", err)
		return nil, false
	}
	slog.Debug("title cache hit", "title_id", id)
	return val, true
}

// Set stores body for title id with the configured TTL.
func (c *TitleCache) Set(ctx context.Context, id int64, body []byte) {
	if err := c.client.Set(ctx, titleKey(id), body, c.ttl).Err(); err != nil {
		slog.Warn("title cache set error", "title_id", id, "error", err)
	}
}

// Invalidate drops the cached body of title id.
func (c *TitleCache) Invalidate(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, titleKey(id)).Err(); err != nil {
		slog.Warn("title cache invalidate error", "title_id", id, "error", err)
	}
}

// InvalidateAll drops every cached title. Used when a category or genre
// is deleted, since any number of titles embed it.
func (c *TitleCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, titleKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("title cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("title cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("title cache cleared", "deleted", deleted)
	}
}
