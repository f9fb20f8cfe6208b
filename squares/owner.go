// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package squares

import (
	"strings"

	"github.com/danielhkuo/superb-owl/models"
)

// ComputeWinningOwner returns the owner whose initials fill the winning cell.
func ComputeWinningOwner(assignments models.Matrix, cell *models.WinningCell, owners []models.Owner) *models.Owner {
	if cell == nil {
		return nil
	}
	if cell.Row < 0 || cell.Row >= models.GridSize || cell.Col < 0 || cell.Col >= models.GridSize {
		return nil
	}

	initials := strings.TrimSpace(assignments[cell.Row][cell.Col])
	if initials == "" {
		return nil
	}

	for i := range owners {
		if owners[i].Initials == initials {
			owner := owners[i]
			return &owner
		}
	}
	return nil
}
