// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package espn

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/superb-owl/models"
)

// Defaults used when the payload omits a field
const (
	DefaultHomeTeam = "Home"
	DefaultAwayTeam = "Away"
	DefaultPeriod   = 1
	DefaultClock    = "15:00"
	DefaultState    = "pre"
)

var liveStates = map[string]bool{
	"in":          true,
	"in_progress": true,
	"halftime":    true,
	"end_period":  true,
	"delayed":     true,
	"suspended":   true,
}

var kickoffLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// Normalize turns a decoded ESPN event into a GameSnapshot. Every field is
// optional; missing or mistyped values fall back to the named defaults.
func Normalize(raw any, fallbackGameID string, now time.Time) models.GameSnapshot {
	event := object(raw)
	competition := object(first(event["competitions"]))
	compStatus := object(competition["status"])

	home := competitor(competition, "home")
	away := competitor(competition, "away")

	snap := models.GameSnapshot{
		GameID:        stringOr(event["id"], fallbackGameID),
		HomeTeam:      teamName(home, DefaultHomeTeam),
		AwayTeam:      teamName(away, DefaultAwayTeam),
		HomeScore:     score(home["score"]),
		AwayScore:     score(away["score"]),
		Period:        intOr(compStatus["period"], DefaultPeriod),
		Clock:         stringOr(compStatus["displayClock"], DefaultClock),
		LastUpdatedAt: now,
	}
	if kickoff, ok := parseTime(event["date"]); ok {
		snap.KickoffAt = &kickoff
	}
	snap.Status = resolveStatus(event, compStatus, snap)
	return snap
}

// FallbackSnapshot is the deterministic snapshot served when the feed fails.
func FallbackSnapshot(gameID string, now time.Time) models.GameSnapshot {
	return models.GameSnapshot{
		GameID:        gameID,
		HomeTeam:      DefaultHomeTeam,
		AwayTeam:      DefaultAwayTeam,
		Period:        DefaultPeriod,
		Clock:         DefaultClock,
		Status:        models.StatusFallback,
		LastUpdatedAt: now,
	}
}

func resolveStatus(event, compStatus map[string]any, snap models.GameSnapshot) string {
	compType := object(compStatus["type"])
	eventType := object(object(event["status"])["type"])

	state := DefaultState
	if s, ok := firstString(compType["state"], eventType["state"]); ok {
		state = s
	}
	state = strings.ToLower(state)

	completed := false
	if c, ok := compType["completed"].(bool); ok {
		completed = c
	} else if c, ok := eventType["completed"].(bool); ok {
		completed = c
	}

	switch {
	case completed, state == "post":
		return models.StatusFinal
	case liveStates[state]:
		return models.StatusLive
	case snap.Period > 1, snap.HomeScore > 0, snap.AwayScore > 0:
		return models.StatusLive
	case snap.Period == 1 && snap.Clock != DefaultClock:
		// clock already running while the feed still says pre
		return models.StatusLive
	}
	return models.StatusPre
}

func competitor(competition map[string]any, side string) map[string]any {
	list, _ := competition["competitors"].([]any)
	for _, c := range list {
		team := object(c)
		if s, _ := team["homeAway"].(string); s == side {
			return team
		}
	}
	return nil
}

func teamName(c map[string]any, fallback string) string {
	team := object(c["team"])
	if name, ok := firstString(team["shortDisplayName"], team["displayName"], team["abbreviation"]); ok {
		return name
	}
	return fallback
}

// score parses a score the way parseInt would: leading digits, else 0.
func score(v any) int {
	switch s := v.(type) {
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return 0
		}
		return int(s)
	case string:
		s = strings.TrimSpace(s)
		end := 0
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func first(v any) any {
	list, _ := v.([]any)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

func firstString(values ...any) (string, bool) {
	for _, v := range values {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func intOr(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return fallback
}

func parseTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range kickoffLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
