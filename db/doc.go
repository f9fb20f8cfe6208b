// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the schema and the board store.

# Schema Creation

CreateSchema initializes all required tables and is safe to call repeatedly:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err := db.CreateSchema(conn); err != nil { ... }

Tables:

  - board: config, markers and the assignment matrix (JSON text columns),
    plus a version counter
  - board_owner: up to six owners per board, unique on initials and on the
    lower-cased display name
  - quarter_winner: one row per (board, quarter)

	board 1──* board_owner
	board 1──* quarter_winner
	board_owner 1──* quarter_winner (ON DELETE SET NULL)

# Store

Store wraps the connection. Boards are created on first reference with
shuffled markers and the defaults from defaults.yaml.

Every board mutation runs in withBoardTx: the transaction first bumps the
board version with UPDATE ... WHERE version = $n, so two writers on the same
board cannot both commit a read-compute-write of the matrix. The loser rolls
back and retries, and after repeated losses ErrBoardBusy is returned.

Quarter winners are written with INSERT ... ON CONFLICT (board_id, quarter)
DO UPDATE, which makes replayed finalizations harmless.

# Drivers

Both modernc.org/sqlite (default) and github.com/lib/pq are registered.
Queries use $n placeholders, which both accept.
*/
package db
