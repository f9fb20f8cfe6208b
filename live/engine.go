// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/superb-owl/espn"
	"github.com/danielhkuo/superb-owl/metrics"
	"github.com/danielhkuo/superb-owl/models"
	"github.com/danielhkuo/superb-owl/squares"
)

// Repository is the storage the engine reads boards from and writes
// finalized quarters to.
type Repository interface {
	GetBoardWithQuarterWinners(ctx context.Context, boardID string) (models.Board, []models.QuarterWinner, error)
	UpsertQuarterWinner(ctx context.Context, in models.QuarterWinnerInput) error
}

// ScoreProvider returns the current game state. It must not fail.
type ScoreProvider interface {
	GameSnapshot(ctx context.Context, req espn.Request) espn.Result
}

type Options struct {
	// FinalizeSkippedQuarters also finalizes quarters the feed skipped
	// (period 1 -> 3 finalizes 1 and 2) with the pre-transition score.
	// Off by default: only the previous period is finalized.
	FinalizeSkippedQuarters bool
}

// Engine reconciles a board against the live score once per poll.
type Engine struct {
	repo     Repository
	provider ScoreProvider
	memory   *SnapshotMemory
	clock    clockwork.Clock
	opts     Options
}

func NewEngine(repo Repository, provider ScoreProvider, memory *SnapshotMemory, clock clockwork.Clock, opts Options) *Engine {
	return &Engine{repo: repo, provider: provider, memory: memory, clock: clock, opts: opts}
}

// Snapshot runs one poll step for the board: load, fetch, map, finalize any
// ended quarter, remember the snapshot and return the refreshed board.
func (e *Engine) Snapshot(ctx context.Context, boardID, gameID string) (models.LiveBoardSnapshot, error) {
	board, _, err := e.repo.GetBoardWithQuarterWinners(ctx, boardID)
	if err != nil {
		return models.LiveBoardSnapshot{}, fmt.Errorf("failed to load board: %w", err)
	}

	result := e.provider.GameSnapshot(ctx, espn.Request{GameID: gameID, BoardDefaultGameID: board.DefaultGameID})
	current := result.Snapshot

	cell := squares.BoardWinningCell(current.HomeScore, current.AwayScore, board)
	owner := squares.ComputeWinningOwner(board.Assignments, cell, board.Owners)

	previous := e.memory.Previous(boardID)
	e.finalize(ctx, board, previous, current)
	// Advances even when finalization failed.
	e.memory.Store(boardID, current)

	refreshed, winners, err := e.repo.GetBoardWithQuarterWinners(ctx, boardID)
	if err != nil {
		return models.LiveBoardSnapshot{}, fmt.Errorf("failed to reload board: %w", err)
	}

	return models.LiveBoardSnapshot{
		Board:          refreshed,
		Game:           current,
		WinningCell:    cell,
		WinningOwner:   owner,
		QuarterWinners: winners,
		LiveStatus:     result.LiveStatus,
	}, nil
}

// finalize records the winner of every quarter that ended between previous
// and current, scored with previous. Upsert failures are logged and dropped.
func (e *Engine) finalize(ctx context.Context, board models.Board, previous *models.GameSnapshot, current models.GameSnapshot) {
	quarter, ok := squares.DetectQuarterTransition(previous, current)
	if !ok {
		return
	}
	quarters := []int{quarter}
	if e.opts.FinalizeSkippedQuarters {
		quarters = squares.SkippedQuarters(previous, current)
	}

	cell := squares.BoardWinningCell(previous.HomeScore, previous.AwayScore, board)
	owner := squares.ComputeWinningOwner(board.Assignments, cell, board.Owners)
	var ownerID *string
	if owner != nil {
		ownerID = &owner.ID
	}

	for _, q := range quarters {
		metrics.QuarterFinalizationsTotal.Inc()
		err := e.repo.UpsertQuarterWinner(ctx, models.QuarterWinnerInput{
			BoardID:            board.ID,
			Quarter:            q,
			OwnerID:            ownerID,
			HomeScore:          previous.HomeScore,
			AwayScore:          previous.AwayScore,
			GamePeriodRecorded: q,
		})
		if err != nil {
			metrics.QuarterFinalizationErrorsTotal.Inc()
			log.Error().Err(err).
				Str("boardId", board.ID).
				Int("quarter", q).
				Msg("quarter finalization failed")
			continue
		}
		log.Info().Str("boardId", board.ID).Int("quarter", q).Msg("quarter finalized")
	}
}

// TestSnapshot serves a synthetic live game derived from the clock. It never
// finalizes quarters or touches SnapshotMemory.
func (e *Engine) TestSnapshot(ctx context.Context, boardID string) (models.LiveBoardSnapshot, error) {
	board, winners, err := e.repo.GetBoardWithQuarterWinners(ctx, boardID)
	if err != nil {
		return models.LiveBoardSnapshot{}, fmt.Errorf("failed to load board: %w", err)
	}

	game := TestGame(e.clock.Now().UTC())
	cell := squares.BoardWinningCell(game.HomeScore, game.AwayScore, board)
	return models.LiveBoardSnapshot{
		Board:          board,
		Game:           game,
		WinningCell:    cell,
		WinningOwner:   squares.ComputeWinningOwner(board.Assignments, cell, board.Owners),
		QuarterWinners: winners,
		LiveStatus:     models.LiveStatusOK,
	}, nil
}

// TestGameID identifies the synthetic test mode game.
const TestGameID = "test-mode"

// TestGame derives a moving live game from now so embeds can be exercised
// without a real feed.
func TestGame(now time.Time) models.GameSnapshot {
	ms := now.UnixMilli()
	period := int((ms/90000)%4) + 1
	period = min(max(period, 1), 4)
	kickoff := now.Add(30 * time.Minute)

	return models.GameSnapshot{
		GameID:        TestGameID,
		HomeTeam:      "Home Testers",
		AwayTeam:      "Away Testers",
		HomeScore:     int((ms / 1200) % 35),
		AwayScore:     int((ms / 1000) % 37),
		Period:        period,
		Clock:         "TEST",
		Status:        models.StatusLive,
		KickoffAt:     &kickoff,
		LastUpdatedAt: now,
	}
}
