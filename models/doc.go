// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, request and response types shared by the
store, the live engine and the HTTP handlers.

# Domain Types

  - Board: grid config, markers, assignment matrix, theme and owners
  - Owner: a guest's claimed slot (initials, colors, lock stamp)
  - GameSnapshot: one normalized reading of the score feed
  - WinningCell, QuarterWinner, LiveBoardSnapshot

# Request Types

ClaimRequest, PickRequest, AdminActionRequest and BoardPatch carry their own
Validate methods. Validation also normalizes: colors are lower-cased, initials
and matrix cells are trimmed.

# Envelope

Every API response is an Envelope:

	{"ok":true,"data":{...}}
	{"ok":false,"error":"Cell is already taken.","code":"CELL_TAKEN"}

Rate limited live responses add meta{stale, rateLimited, cachedAt}.
*/
package models
