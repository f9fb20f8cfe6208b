// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// JSON columns are stored as TEXT so the same schema runs on sqlite and postgres.
const schema = `
-- Boards
CREATE TABLE IF NOT EXISTS board (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    default_game_id TEXT,
    top_team_label TEXT NOT NULL,
    side_team_label TEXT NOT NULL,
    column_markers TEXT NOT NULL,
    row_markers TEXT NOT NULL,
    assignments TEXT NOT NULL,
    theme_defaults TEXT NOT NULL,
    version INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Owners
CREATE TABLE IF NOT EXISTS board_owner (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL REFERENCES board(id) ON DELETE CASCADE,
    initials TEXT NOT NULL,
    display_name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    bg_color TEXT NOT NULL,
    text_color TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    locked_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (board_id, initials),
    UNIQUE (board_id, name_key)
);

CREATE INDEX IF NOT EXISTS idx_board_owner_board_id ON board_owner(board_id);

-- Quarter winners
CREATE TABLE IF NOT EXISTS quarter_winner (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL REFERENCES board(id) ON DELETE CASCADE,
    quarter INTEGER NOT NULL,
    owner_id TEXT REFERENCES board_owner(id) ON DELETE SET NULL,
    home_score INTEGER NOT NULL,
    away_score INTEGER NOT NULL,
    game_period_recorded INTEGER NOT NULL,
    recorded_at TIMESTAMP NOT NULL,
    UNIQUE (board_id, quarter)
);

CREATE INDEX IF NOT EXISTS idx_quarter_winner_board_id ON quarter_winner(board_id);
`
