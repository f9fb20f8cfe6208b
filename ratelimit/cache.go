// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/superb-owl/models"
)

// CachedPayload is the last live payload served for a board.
type CachedPayload struct {
	Data     models.LiveBoardSnapshot `json:"data"`
	CachedAt time.Time                `json:"cachedAt"`
}

// PayloadCache keeps the last live payload per board for rate limited callers.
type PayloadCache interface {
	Set(ctx context.Context, boardID string, payload CachedPayload) error
	// Get returns false when nothing is cached for the board.
	Get(ctx context.Context, boardID string) (CachedPayload, bool, error)
}

// MemoryCache implements PayloadCache in process memory
type MemoryCache struct {
	mu      sync.RWMutex
	byBoard map[string]CachedPayload
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{byBoard: make(map[string]CachedPayload)}
}

func (c *MemoryCache) Set(ctx context.Context, boardID string, payload CachedPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byBoard[boardID] = payload
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, boardID string) (CachedPayload, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	payload, ok := c.byBoard[boardID]
	return payload, ok, nil
}

// RedisCache implements PayloadCache using Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "superbowl:live:"}
}

func (c *RedisCache) Set(ctx context.Context, boardID string, payload CachedPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode live payload: %w", err)
	}
	return c.client.Set(ctx, c.prefix+boardID, data, c.ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, boardID string) (CachedPayload, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+boardID).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedPayload{}, false, nil
	}
	if err != nil {
		return CachedPayload{}, false, err
	}

	var payload CachedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return CachedPayload{}, false, fmt.Errorf("failed to decode live payload: %w", err)
	}
	return payload, true, nil
}
