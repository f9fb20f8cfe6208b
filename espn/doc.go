// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package espn reads NFL game state from the ESPN site API.

GameSnapshot resolves a game id (request, board default, configured default,
then the season's Super Bowl found through the scoreboard, then a historical
game), fetches the summary and normalizes it. It never returns an error: on
timeout or a bad payload the caller gets FallbackSnapshot with
LiveStatus "fallback".

Normalize walks the decoded JSON as map[string]any with a default for every
field, so partial payloads still produce a usable snapshot.
*/
package espn
