// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package espn

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DiscoveryTTL is how long a discovered game id is reused for a season.
const DiscoveryTTL = 10 * time.Minute

type discoveryCache struct {
	mu        sync.Mutex
	season    int
	gameID    string
	expiresAt time.Time
}

// Season returns the NFL season a date belongs to. January and February
// games belong to the previous year's season.
func Season(t time.Time) int {
	t = t.UTC()
	if t.Month() <= time.February {
		return t.Year() - 1
	}
	return t.Year()
}

func (d *discoveryCache) get(season int, now time.Time) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gameID != "" && d.season == season && now.Before(d.expiresAt) {
		return d.gameID, true
	}
	return "", false
}

func (d *discoveryCache) set(season int, gameID string, expiresAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.season = season
	d.gameID = gameID
	d.expiresAt = expiresAt
}

// discover looks up the Super Bowl of the current season, then the previous one.
func (c *Client) discover(ctx context.Context) (string, bool) {
	now := c.clock.Now()
	season := Season(now)
	if id, ok := c.discovery.get(season, now); ok {
		return id, true
	}

	for _, target := range []int{season, season - 1} {
		payload, err := c.getJSON(ctx, "scoreboard", "/scoreboard?seasontype=3&week=5&dates="+strconv.Itoa(target))
		if err != nil {
			log.Debug().Err(err).Int("season", target).Msg("espn discovery failed")
			continue
		}
		if id, ok := firstEventID(payload); ok {
			c.discovery.set(season, id, now.Add(DiscoveryTTL))
			return id, true
		}
	}
	return "", false
}

func firstEventID(payload any) (string, bool) {
	event := object(first(object(payload)["events"]))
	id, ok := event["id"].(string)
	return id, ok && id != ""
}
