// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package live runs the per-poll reconciliation: fetch the score, map it to
// a cell and owner, finalize any quarter that ended since the board's last
// snapshot and return the composed LiveBoardSnapshot.
package live
