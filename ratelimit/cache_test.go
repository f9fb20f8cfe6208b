// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/superb-owl/models"
)

func samplePayload(boardID string, home, away int) CachedPayload {
	return CachedPayload{
		Data: models.LiveBoardSnapshot{
			Board:      models.Board{ID: boardID, Name: "Board"},
			Game:       models.GameSnapshot{GameID: "401", HomeScore: home, AwayScore: away, Status: models.StatusLive},
			LiveStatus: models.LiveStatusOK,
		},
		CachedAt: time.Date(2025, 2, 9, 23, 30, 0, 0, time.UTC),
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "b1", samplePayload("b1", 7, 3)))
	got, ok, err := c.Get(ctx, "b1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, got.Data.Game.HomeScore)

	require.NoError(t, c.Set(ctx, "b1", samplePayload("b1", 14, 3)))
	got, _, _ = c.Get(ctx, "b1")
	assert.Equal(t, 14, got.Data.Game.HomeScore, "last write wins")
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	c := NewRedisCache(client, time.Minute)

	_, ok, err := c.Get(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, ok)

	want := samplePayload("b1", 21, 17)
	require.NoError(t, c.Set(ctx, "b1", want))

	got, ok, err := c.Get(ctx, "b1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Data.Game.HomeScore, got.Data.Game.HomeScore)
	assert.Equal(t, want.Data.Board.ID, got.Data.Board.ID)
	assert.True(t, want.CachedAt.Equal(got.CachedAt))

	mr.FastForward(time.Minute)
	_, ok, err = c.Get(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, ok, "entry expires after ttl")
}

func TestRedisCacheCorruptEntry(t *testing.T) {
	mr, client := newRedis(t)
	c := NewRedisCache(client, time.Minute)
	require.NoError(t, mr.Set("superbowl:live:b1", "not json"))

	_, ok, err := c.Get(context.Background(), "b1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCacheProperties(t *testing.T) {
	_, client := newRedis(t)
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)
	properties.Property("stored scores come back unchanged", prop.ForAll(
		func(boardID string, home, away int) bool {
			if err := c.Set(ctx, boardID, samplePayload(boardID, home, away)); err != nil {
				return false
			}
			got, ok, err := c.Get(ctx, boardID)
			return err == nil && ok && got.Data.Game.HomeScore == home && got.Data.Game.AwayScore == away
		},
		gen.Identifier(),
		gen.IntRange(0, 99),
		gen.IntRange(0, 99),
	))
	properties.TestingRun(t)
}
