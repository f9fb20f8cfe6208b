// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/models"
	"github.com/danielhkuo/superb-owl/squares"
)

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrBoardBusy     = errors.New("board is busy, try again")

	errVersionConflict = errors.New("board version changed")
)

// maxTxAttempts bounds retries of a board transaction that lost its version check.
const maxTxAttempts = 5

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the board repository. Boards are created lazily on first
// reference and never deleted.
type Store struct {
	db       *sql.DB
	clock    clockwork.Clock
	roles    auth.Roles
	defaults Defaults
}

func NewStore(conn *sql.DB, clock clockwork.Clock, roles auth.Roles) (*Store, error) {
	defaults, err := LoadDefaults()
	if err != nil {
		return nil, err
	}
	return &Store{db: conn, clock: clock, roles: roles, defaults: defaults}, nil
}

// GetOrCreateBoard returns the board, creating it with defaults if needed.
func (s *Store) GetOrCreateBoard(ctx context.Context, boardID string) (models.Board, error) {
	if err := s.ensureBoard(ctx, s.db, boardID); err != nil {
		return models.Board{}, err
	}
	b, _, err := s.loadBoard(ctx, s.db, boardID)
	return b, err
}

// GetBoardWithQuarterWinners returns the board and its quarter winners ordered by quarter.
func (s *Store) GetBoardWithQuarterWinners(ctx context.Context, boardID string) (models.Board, []models.QuarterWinner, error) {
	b, err := s.GetOrCreateBoard(ctx, boardID)
	if err != nil {
		return models.Board{}, nil, err
	}
	winners, err := s.loadQuarterWinners(ctx, s.db, boardID)
	if err != nil {
		return models.Board{}, nil, err
	}
	return b, winners, nil
}

// PatchBoard applies a validated patch in one transaction. A non-nil owner
// list replaces the whole roster.
func (s *Store) PatchBoard(ctx context.Context, boardID string, patch models.BoardPatch) (models.Board, error) {
	err := s.withBoardTx(ctx, boardID, func(tx *sql.Tx, b *models.Board) error {
		if patch.Name != nil {
			b.Name = *patch.Name
		}
		if patch.DefaultGameID.Set {
			b.DefaultGameID = patch.DefaultGameID.Value
		}
		if patch.TopTeamLabel != nil {
			b.TopTeamLabel = *patch.TopTeamLabel
		}
		if patch.SideTeamLabel != nil {
			b.SideTeamLabel = *patch.SideTeamLabel
		}
		if patch.ColumnMarkers != nil {
			b.ColumnMarkers = patch.ColumnMarkers
		}
		if patch.RowMarkers != nil {
			b.RowMarkers = patch.RowMarkers
		}
		if patch.Assignments != nil {
			for r, row := range patch.Assignments {
				copy(b.Assignments[r][:], row)
			}
		}
		if patch.ThemeDefaults != nil {
			b.ThemeDefaults = *patch.ThemeDefaults
		}

		if patch.Owners != nil {
			if err := s.deleteOwners(ctx, tx, boardID); err != nil {
				return err
			}
			now := s.clock.Now().UTC()
			for _, o := range *patch.Owners {
				owner := models.Owner{
					ID:          auth.GenerateID(),
					BoardID:     boardID,
					Initials:    o.Initials,
					DisplayName: o.DisplayName,
					BgColor:     o.BgColor,
					TextColor:   o.TextColor,
					SortOrder:   o.SortOrder,
				}
				if err := s.insertOwner(ctx, tx, owner, now); err != nil {
					return err
				}
			}
		}

		return s.saveBoard(ctx, tx, *b)
	})
	if err != nil {
		return models.Board{}, err
	}
	return s.GetOrCreateBoard(ctx, boardID)
}

// UpsertQuarterWinner writes the single record for (board, quarter),
// overwriting any earlier finalization of the same quarter.
func (s *Store) UpsertQuarterWinner(ctx context.Context, in models.QuarterWinnerInput) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quarter_winner (id, board_id, quarter, owner_id, home_score, away_score, game_period_recorded, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (board_id, quarter) DO UPDATE SET
			owner_id = excluded.owner_id,
			home_score = excluded.home_score,
			away_score = excluded.away_score,
			game_period_recorded = excluded.game_period_recorded,
			recorded_at = excluded.recorded_at
	`, auth.GenerateID(), in.BoardID, in.Quarter, in.OwnerID, in.HomeScore, in.AwayScore, in.GamePeriodRecorded, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert quarter %d winner: %w", in.Quarter, err)
	}
	return nil
}

// ResetQuarterWinners deletes every quarter winner of the board.
func (s *Store) ResetQuarterWinners(ctx context.Context, boardID string) error {
	if err := s.ensureBoard(ctx, s.db, boardID); err != nil {
		return err
	}
	return s.deleteQuarterWinners(ctx, s.db, boardID)
}

// withBoardTx loads the board inside a transaction, claims it by bumping
// its version and runs fn. A lost version check rolls back and retries.
func (s *Store) withBoardTx(ctx context.Context, boardID string, fn func(tx *sql.Tx, b *models.Board) error) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.tryBoardTx(ctx, boardID, fn)
		if !errors.Is(err, errVersionConflict) {
			return err
		}
	}
	return ErrBoardBusy
}

func (s *Store) tryBoardTx(ctx context.Context, boardID string, fn func(tx *sql.Tx, b *models.Board) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureBoard(ctx, tx, boardID); err != nil {
		return err
	}
	b, version, err := s.loadBoard(ctx, tx, boardID)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE board SET version = $1, updated_at = $2 WHERE id = $3 AND version = $4
	`, version+1, s.clock.Now().UTC(), boardID, version)
	if err != nil {
		return fmt.Errorf("failed to claim board version: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to claim board version: %w", err)
	}
	if n == 0 {
		return errVersionConflict
	}

	if err := fn(tx, &b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit board transaction: %w", err)
	}
	return nil
}

func (s *Store) ensureBoard(ctx context.Context, q querier, boardID string) error {
	now := s.clock.Now().UTC()
	b := models.Board{
		ID:            boardID,
		Name:          "Board " + boardID,
		TopTeamLabel:  s.defaults.Board.TopTeamLabel,
		SideTeamLabel: s.defaults.Board.SideTeamLabel,
		ColumnMarkers: squares.ShuffledMarkers(),
		RowMarkers:    squares.ShuffledMarkers(),
		ThemeDefaults: s.defaults.Theme,
	}
	cols, rows, assignments, theme, err := encodeBoard(b)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO board (id, name, default_game_id, top_team_label, side_team_label, column_markers, row_markers, assignments, theme_defaults, version, created_at, updated_at)
		VALUES ($1, $2, NULL, $3, $4, $5, $6, $7, $8, 0, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`, b.ID, b.Name, b.TopTeamLabel, b.SideTeamLabel, cols, rows, assignments, theme, now, now)
	if err != nil {
		return fmt.Errorf("failed to create board %s: %w", boardID, err)
	}
	return nil
}

func (s *Store) loadBoard(ctx context.Context, q querier, boardID string) (models.Board, int64, error) {
	var b models.Board
	var defaultGameID sql.NullString
	var cols, rows, assignments, theme string
	var version int64

	err := q.QueryRowContext(ctx, `
		SELECT id, name, default_game_id, top_team_label, side_team_label,
		       column_markers, row_markers, assignments, theme_defaults, version
		FROM board WHERE id = $1
	`, boardID).Scan(&b.ID, &b.Name, &defaultGameID, &b.TopTeamLabel, &b.SideTeamLabel,
		&cols, &rows, &assignments, &theme, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Board{}, 0, ErrBoardNotFound
	}
	if err != nil {
		return models.Board{}, 0, fmt.Errorf("failed to load board %s: %w", boardID, err)
	}

	if defaultGameID.Valid {
		b.DefaultGameID = &defaultGameID.String
	}
	if err := json.Unmarshal([]byte(cols), &b.ColumnMarkers); err != nil {
		return models.Board{}, 0, fmt.Errorf("board %s column markers: %w", boardID, err)
	}
	if err := json.Unmarshal([]byte(rows), &b.RowMarkers); err != nil {
		return models.Board{}, 0, fmt.Errorf("board %s row markers: %w", boardID, err)
	}
	if err := json.Unmarshal([]byte(assignments), &b.Assignments); err != nil {
		return models.Board{}, 0, fmt.Errorf("board %s assignments: %w", boardID, err)
	}
	if err := json.Unmarshal([]byte(theme), &b.ThemeDefaults); err != nil {
		return models.Board{}, 0, fmt.Errorf("board %s theme: %w", boardID, err)
	}

	b.Owners, err = s.loadOwners(ctx, q, boardID)
	if err != nil {
		return models.Board{}, 0, err
	}
	return b, version, nil
}

// loadOwners returns the roster by sort order with the super admin filtered out.
func (s *Store) loadOwners(ctx context.Context, q querier, boardID string) ([]models.Owner, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, board_id, initials, display_name, bg_color, text_color, sort_order, locked_at
		FROM board_owner
		WHERE board_id = $1
		ORDER BY sort_order, created_at
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owners: %w", err)
	}
	defer rows.Close()

	owners := []models.Owner{}
	for rows.Next() {
		var o models.Owner
		var lockedAt sql.NullTime
		if err := rows.Scan(&o.ID, &o.BoardID, &o.Initials, &o.DisplayName, &o.BgColor, &o.TextColor, &o.SortOrder, &lockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		if lockedAt.Valid {
			t := lockedAt.Time.UTC()
			o.LockedAt = &t
		}
		if s.roles.IsReserved(o.DisplayName) {
			continue
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owners: %w", err)
	}
	return owners, nil
}

func (s *Store) loadQuarterWinners(ctx context.Context, q querier, boardID string) ([]models.QuarterWinner, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT qw.id, qw.board_id, qw.quarter, qw.owner_id, o.initials, o.display_name,
		       qw.home_score, qw.away_score, qw.game_period_recorded
		FROM quarter_winner qw
		LEFT JOIN board_owner o ON o.id = qw.owner_id
		WHERE qw.board_id = $1
		ORDER BY qw.quarter
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quarter winners: %w", err)
	}
	defer rows.Close()

	winners := []models.QuarterWinner{}
	for rows.Next() {
		var w models.QuarterWinner
		var ownerID, initials, displayName sql.NullString
		if err := rows.Scan(&w.ID, &w.BoardID, &w.Quarter, &ownerID, &initials, &displayName,
			&w.HomeScore, &w.AwayScore, &w.GamePeriodRecorded); err != nil {
			return nil, fmt.Errorf("failed to scan quarter winner: %w", err)
		}
		w.OwnerID = nullableString(ownerID)
		w.OwnerInitials = nullableString(initials)
		w.OwnerDisplayName = nullableString(displayName)
		winners = append(winners, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quarter winners: %w", err)
	}
	return winners, nil
}

func (s *Store) saveBoard(ctx context.Context, tx *sql.Tx, b models.Board) error {
	cols, rows, assignments, theme, err := encodeBoard(b)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE board SET
			name = $1,
			default_game_id = $2,
			top_team_label = $3,
			side_team_label = $4,
			column_markers = $5,
			row_markers = $6,
			assignments = $7,
			theme_defaults = $8
		WHERE id = $9
	`, b.Name, b.DefaultGameID, b.TopTeamLabel, b.SideTeamLabel, cols, rows, assignments, theme, b.ID)
	if err != nil {
		return fmt.Errorf("failed to save board %s: %w", b.ID, err)
	}
	return nil
}

func (s *Store) insertOwner(ctx context.Context, tx *sql.Tx, o models.Owner, createdAt time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO board_owner (id, board_id, initials, display_name, name_key, bg_color, text_color, sort_order, locked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, o.ID, o.BoardID, o.Initials, o.DisplayName, squares.NameKey(o.DisplayName), o.BgColor, o.TextColor, o.SortOrder, o.LockedAt, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert owner %s: %w", o.Initials, err)
	}
	return nil
}

func (s *Store) deleteOwners(ctx context.Context, q querier, boardID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM board_owner WHERE board_id = $1`, boardID); err != nil {
		return fmt.Errorf("failed to delete owners: %w", err)
	}
	return nil
}

func (s *Store) deleteQuarterWinners(ctx context.Context, q querier, boardID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM quarter_winner WHERE board_id = $1`, boardID); err != nil {
		return fmt.Errorf("failed to delete quarter winners: %w", err)
	}
	return nil
}

func encodeBoard(b models.Board) (cols, rows, assignments, theme string, err error) {
	var buf []byte
	if buf, err = json.Marshal(b.ColumnMarkers); err != nil {
		return
	}
	cols = string(buf)
	if buf, err = json.Marshal(b.RowMarkers); err != nil {
		return
	}
	rows = string(buf)
	if buf, err = json.Marshal(b.Assignments); err != nil {
		return
	}
	assignments = string(buf)
	if buf, err = json.Marshal(b.ThemeDefaults); err != nil {
		return
	}
	theme = string(buf)
	return
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
