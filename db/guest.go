// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/models"
	"github.com/danielhkuo/superb-owl/squares"
)

// ClaimOwner binds guest to an owner slot. Claiming again with the same
// name returns the existing owner.
func (s *Store) ClaimOwner(ctx context.Context, boardID string, guest auth.Guest, req models.ClaimRequest) (models.Owner, error) {
	if guest.IsBoardAdmin() {
		return models.Owner{}, squares.ErrAdminForbidden
	}

	var claimed models.Owner
	err := s.withBoardTx(ctx, boardID, func(tx *sql.Tx, b *models.Board) error {
		if existing, ok := squares.FindOwnerByName(b.Owners, guest.Name); ok {
			claimed = existing
			return nil
		}

		requested := ""
		if req.Initials != nil {
			requested = *req.Initials
		}
		initials := squares.SafeInitials(requested, guest.Name)
		if err := squares.CheckClaim(b.Owners, initials); err != nil {
			return err
		}

		owner := models.Owner{
			ID:          auth.GenerateID(),
			BoardID:     boardID,
			Initials:    initials,
			DisplayName: guest.Name,
			BgColor:     s.defaults.ClaimColors.Bg,
			TextColor:   s.defaults.ClaimColors.Text,
			SortOrder:   len(b.Owners),
		}
		if req.BgColor != nil {
			owner.BgColor = *req.BgColor
		}
		if req.TextColor != nil {
			owner.TextColor = *req.TextColor
		}
		if err := s.insertOwner(ctx, tx, owner, s.clock.Now().UTC()); err != nil {
			return err
		}
		claimed = owner
		return nil
	})
	if err != nil {
		return models.Owner{}, err
	}
	return claimed, nil
}

// SetPick selects or clears one cell for the guest's owner. The check and
// the write happen in the same board transaction.
func (s *Store) SetPick(ctx context.Context, boardID string, guest auth.Guest, row, col int, selected bool) error {
	return s.withBoardTx(ctx, boardID, func(tx *sql.Tx, b *models.Board) error {
		owner, ok := squares.FindOwnerByName(b.Owners, guest.Name)
		if !ok {
			return squares.ErrOwnerNotFound
		}
		changed, err := squares.ApplyPick(&b.Assignments, owner, row, col, selected)
		if err != nil || !changed {
			return err
		}
		return s.saveBoard(ctx, tx, *b)
	})
}

// LockPicks freezes the guest's picks once all of them are placed.
// Locking an already locked owner returns it unchanged.
func (s *Store) LockPicks(ctx context.Context, boardID string, guest auth.Guest) (models.Owner, error) {
	var locked models.Owner
	err := s.withBoardTx(ctx, boardID, func(tx *sql.Tx, b *models.Board) error {
		owner, ok := squares.FindOwnerByName(b.Owners, guest.Name)
		if !ok {
			return squares.ErrOwnerNotFound
		}
		if owner.Locked() {
			locked = owner
			return nil
		}
		if err := squares.CheckLock(b.Assignments, owner); err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		if _, err := tx.ExecContext(ctx, `UPDATE board_owner SET locked_at = $1 WHERE id = $2`, now, owner.ID); err != nil {
			return fmt.Errorf("failed to lock owner %s: %w", owner.Initials, err)
		}
		owner.LockedAt = &now
		locked = owner
		return nil
	})
	if err != nil {
		return models.Owner{}, err
	}
	return locked, nil
}

// RunAdminAction applies one board reset action atomically.
func (s *Store) RunAdminAction(ctx context.Context, boardID string, guest auth.Guest, action string) (models.AdminActionResult, error) {
	if !guest.IsBoardAdmin() {
		return models.AdminActionResult{}, squares.ErrNotBoardAdmin
	}

	err := s.withBoardTx(ctx, boardID, func(tx *sql.Tx, b *models.Board) error {
		switch action {
		case models.ActionClearPicks:
			b.Assignments = models.Matrix{}

		case models.ActionClearWinners:
			return s.deleteQuarterWinners(ctx, tx, boardID)

		case models.ActionClearAll:
			if err := s.deleteQuarterWinners(ctx, tx, boardID); err != nil {
				return err
			}
			if err := s.deleteOwners(ctx, tx, boardID); err != nil {
				return err
			}
			b.Assignments = models.Matrix{}
			b.RowMarkers = squares.ShuffledMarkers()
			b.ColumnMarkers = squares.ShuffledMarkers()

		case models.ActionSeedDemo:
			if err := s.deleteOwners(ctx, tx, boardID); err != nil {
				return err
			}
			if err := s.deleteQuarterWinners(ctx, tx, boardID); err != nil {
				return err
			}
			now := s.clock.Now().UTC()
			for i, demo := range s.defaults.DemoRoster {
				owner := models.Owner{
					ID:          auth.GenerateID(),
					BoardID:     boardID,
					Initials:    demo.Initials,
					DisplayName: demo.DisplayName,
					BgColor:     demo.BgColor,
					TextColor:   demo.TextColor,
					SortOrder:   i,
					LockedAt:    &now,
				}
				if err := s.insertOwner(ctx, tx, owner, now); err != nil {
					return err
				}
			}
			b.Assignments = squares.SeedDemoAssignments(s.defaults.demoInitials())
			b.RowMarkers = squares.ShuffledMarkers()
			b.ColumnMarkers = squares.ShuffledMarkers()

		default:
			return fmt.Errorf("unknown admin action %q", action)
		}
		return s.saveBoard(ctx, tx, *b)
	})
	if err != nil {
		return models.AdminActionResult{}, err
	}
	return models.AdminActionResult{Action: action, OK: true}, nil
}
