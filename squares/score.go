// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package squares

import (
	"math"

	"github.com/danielhkuo/superb-owl/models"
)

// NotFound is returned by MapScoreDigit when the digit has no grid index.
const NotFound = -1

// LastDigit returns abs(floor(score)) % 10. Non-finite scores count as 0.
func LastDigit(score float64) int {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return int(math.Mod(math.Abs(math.Floor(score)), 10))
}

// MapScoreDigit returns the index of digit within markers, or NotFound when
// markers is not exactly ten entries long or does not contain the digit.
func MapScoreDigit(digit int, markers []int) int {
	if digit < 0 || digit > 9 {
		return NotFound
	}
	if len(markers) != models.GridSize {
		return NotFound
	}
	for i, m := range markers {
		if m == digit {
			return i
		}
	}
	return NotFound
}

// ComputeWinningCell maps the home score onto rows and the away score onto
// columns. It returns nil when either marker lookup fails.
func ComputeWinningCell(homeScore, awayScore int, rowMarkers, columnMarkers []int) *models.WinningCell {
	rowMarker := LastDigit(float64(homeScore))
	colMarker := LastDigit(float64(awayScore))

	row := MapScoreDigit(rowMarker, rowMarkers)
	col := MapScoreDigit(colMarker, columnMarkers)
	if row == NotFound || col == NotFound {
		return nil
	}

	return &models.WinningCell{
		Row:       row,
		Col:       col,
		RowMarker: rowMarker,
		ColMarker: colMarker,
	}
}

// BoardWinningCell is ComputeWinningCell over a board's markers.
func BoardWinningCell(homeScore, awayScore int, board models.Board) *models.WinningCell {
	return ComputeWinningCell(homeScore, awayScore, board.RowMarkers, board.ColumnMarkers)
}
