// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package espn

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/superb-owl/models"
)

var testNow = time.Date(2025, 2, 9, 23, 45, 0, 0, time.UTC)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func event(state string, completed bool, period int, clock, home, away string) string {
	b, _ := json.Marshal(map[string]any{
		"id":   "123",
		"date": "2025-02-09T23:30Z",
		"competitions": []any{map[string]any{
			"competitors": []any{
				map[string]any{"homeAway": "home", "score": home, "team": map[string]any{"shortDisplayName": "Chiefs"}},
				map[string]any{"homeAway": "away", "score": away, "team": map[string]any{"displayName": "Philadelphia Eagles"}},
			},
			"status": map[string]any{
				"period":       period,
				"displayClock": clock,
				"type":         map[string]any{"state": state, "completed": completed},
			},
		}},
	})
	return string(b)
}

func TestNormalize(t *testing.T) {
	snap := Normalize(decode(t, event("in", false, 3, "04:20", "21", "17")), "fallback", testNow)

	assert.Equal(t, "123", snap.GameID)
	assert.Equal(t, "Chiefs", snap.HomeTeam)
	assert.Equal(t, "Philadelphia Eagles", snap.AwayTeam)
	assert.Equal(t, 21, snap.HomeScore)
	assert.Equal(t, 17, snap.AwayScore)
	assert.Equal(t, 3, snap.Period)
	assert.Equal(t, "04:20", snap.Clock)
	assert.Equal(t, models.StatusLive, snap.Status)
	require.NotNil(t, snap.KickoffAt)
	assert.Equal(t, time.Date(2025, 2, 9, 23, 30, 0, 0, time.UTC), *snap.KickoffAt)
	assert.Equal(t, testNow, snap.LastUpdatedAt)
}

func TestNormalize_Defaults(t *testing.T) {
	for _, raw := range []any{nil, map[string]any{}, "junk", []any{1, 2}} {
		snap := Normalize(raw, "fallback-game", testNow)
		assert.Equal(t, "fallback-game", snap.GameID)
		assert.Equal(t, DefaultHomeTeam, snap.HomeTeam)
		assert.Equal(t, DefaultAwayTeam, snap.AwayTeam)
		assert.Equal(t, 0, snap.HomeScore)
		assert.Equal(t, 0, snap.AwayScore)
		assert.Equal(t, DefaultPeriod, snap.Period)
		assert.Equal(t, DefaultClock, snap.Clock)
		assert.Equal(t, models.StatusPre, snap.Status)
		assert.Nil(t, snap.KickoffAt)
	}
}

func TestNormalize_Status(t *testing.T) {
	tests := []struct {
		name      string
		state     string
		completed bool
		period    int
		clock     string
		home      string
		away      string
		want      string
	}{
		{"completed wins over state", "in", true, 4, "0:00", "24", "20", models.StatusFinal},
		{"completed while pre", "pre", true, 1, "15:00", "0", "0", models.StatusFinal},
		{"post", "POST", false, 4, "0:00", "24", "20", models.StatusFinal},
		{"halftime", "halftime", false, 2, "0:00", "14", "10", models.StatusLive},
		{"delayed", "delayed", false, 1, "15:00", "0", "0", models.StatusLive},
		{"running clock while pre", "pre", false, 1, "12:41", "0", "0", models.StatusLive},
		{"score while pre", "pre", false, 1, "15:00", "7", "0", models.StatusLive},
		{"period while pre", "pre", false, 2, "15:00", "0", "0", models.StatusLive},
		{"pre", "pre", false, 1, "15:00", "0", "0", models.StatusPre},
		{"bad scores parse to zero", "pre", false, 1, "15:00", "abc", "", models.StatusPre},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Normalize(decode(t, event(tt.state, tt.completed, tt.period, tt.clock, tt.home, tt.away)), "x", testNow)
			assert.Equal(t, tt.want, snap.Status)
		})
	}
}

func TestNormalize_EventLevelStatus(t *testing.T) {
	raw := decode(t, `{
		"id": "9",
		"status": {"type": {"state": "post", "completed": true}},
		"competitions": [{"competitors": [
			{"homeAway": "home", "score": 31, "team": {"abbreviation": "KC"}},
			{"homeAway": "away", "score": "28"}
		]}]
	}`)
	snap := Normalize(raw, "x", testNow)

	assert.Equal(t, models.StatusFinal, snap.Status)
	assert.Equal(t, "KC", snap.HomeTeam)
	assert.Equal(t, DefaultAwayTeam, snap.AwayTeam)
	assert.Equal(t, 31, snap.HomeScore)
	assert.Equal(t, 28, snap.AwayScore)
}

func TestScore(t *testing.T) {
	assert.Equal(t, 21, score("21"))
	assert.Equal(t, 21, score(" 21abc"))
	assert.Equal(t, 0, score("abc"))
	assert.Equal(t, 14, score(float64(14)))
	assert.Equal(t, 0, score(nil))
	assert.Equal(t, 0, score(true))
}

func TestFallbackSnapshot(t *testing.T) {
	snap := FallbackSnapshot("g1", testNow)
	assert.Equal(t, models.GameSnapshot{
		GameID:        "g1",
		HomeTeam:      "Home",
		AwayTeam:      "Away",
		Period:        1,
		Clock:         "15:00",
		Status:        models.StatusFallback,
		LastUpdatedAt: testNow,
	}, snap)
}
