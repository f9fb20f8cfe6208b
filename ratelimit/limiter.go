// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// Limiter admits at most one request per key per window.
type Limiter interface {
	// Allow reports whether the request may proceed. A rejected request
	// does not extend the window.
	Allow(ctx context.Context, key string) (bool, error)
}

// pruneThreshold is the map size above which expired keys are dropped.
const pruneThreshold = 4096

// MemoryLimiter implements Limiter for a single process
type MemoryLimiter struct {
	mu     sync.Mutex
	window time.Duration
	clock  clockwork.Clock
	last   map[string]time.Time
}

func NewMemoryLimiter(window time.Duration, clock clockwork.Clock) *MemoryLimiter {
	return &MemoryLimiter{window: window, clock: clock, last: make(map[string]time.Time)}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if last, ok := l.last[key]; ok && now.Sub(last) < l.window {
		return false, nil
	}
	l.last[key] = now

	if len(l.last) > pruneThreshold {
		for k, t := range l.last {
			if now.Sub(t) >= l.window {
				delete(l.last, k)
			}
		}
	}
	return true, nil
}

// RedisLimiter implements Limiter shared across processes using SET NX with a TTL
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, window: window, prefix: "superbowl:ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.prefix+key, 1, l.window).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	return ok, nil
}
