// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package squares

import (
	"errors"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/danielhkuo/superb-owl/models"
)

var (
	ErrOwnerNotFound     = errors.New("owner not found for guest")
	ErrPicksLocked       = errors.New("picks are locked")
	ErrInvalidCell       = errors.New("invalid cell coordinates")
	ErrCellTaken         = errors.New("cell is already taken")
	ErrPickLimitReached  = errors.New("pick limit reached")
	ErrPicksIncomplete   = errors.New("picks incomplete")
	ErrOwnerLimitReached = errors.New("board owner limit reached")
	ErrInitialsTaken     = errors.New("initials already taken")
	ErrAdminForbidden    = errors.New("admin cannot claim an owner slot")
	ErrNotBoardAdmin     = errors.New("board admin required")
)

// DefaultInitials is used when neither the request nor the name yields any.
const DefaultInitials = "GU"

// demoStride is coprime with 100 so seeded picks spread across the grid.
const demoStride = 37

// NormalizeName trims a display name and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NameKey is the case-insensitive identity of a display name.
func NameKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}

func cleanInitials(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	return b.String()
}

// NameToInitials takes the first letter of up to two words of name.
func NameToInitials(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	var first strings.Builder
	for _, w := range words {
		r := []rune(w)[0]
		first.WriteRune(unicode.ToUpper(r))
	}
	if initials := cleanInitials(first.String()); initials != "" {
		return initials
	}
	return DefaultInitials
}

// SafeInitials returns the requested initials reduced to at most four
// uppercase alphanumerics, deriving them from name when nothing survives.
func SafeInitials(requested, name string) string {
	if clean := cleanInitials(strings.TrimSpace(requested)); clean != "" {
		return clean
	}
	return NameToInitials(name)
}

// FindOwnerByName matches owners by case-insensitive display name.
func FindOwnerByName(owners []models.Owner, name string) (models.Owner, bool) {
	key := NameKey(name)
	for _, o := range owners {
		if NameKey(o.DisplayName) == key {
			return o, true
		}
	}
	return models.Owner{}, false
}

// CheckClaim validates a new owner against the current roster.
func CheckClaim(owners []models.Owner, initials string) error {
	if len(owners) >= models.MaxOwners {
		return ErrOwnerLimitReached
	}
	for _, o := range owners {
		if o.Initials == initials {
			return ErrInitialsTaken
		}
	}
	return nil
}

// CountPicks counts the cells holding initials.
func CountPicks(m models.Matrix, initials string) int {
	count := 0
	for _, row := range m {
		for _, cell := range row {
			if strings.TrimSpace(cell) == initials {
				count++
			}
		}
	}
	return count
}

// ApplyPick selects or clears one cell for owner. It reports whether the
// matrix changed. Clearing a cell the owner does not hold is a silent no-op.
func ApplyPick(m *models.Matrix, owner models.Owner, row, col int, selected bool) (bool, error) {
	if owner.Locked() {
		return false, ErrPicksLocked
	}
	if row < 0 || row >= models.GridSize || col < 0 || col >= models.GridSize {
		return false, ErrInvalidCell
	}

	current := strings.TrimSpace(m[row][col])
	if !selected {
		if current != owner.Initials {
			return false, nil
		}
		m[row][col] = ""
		return true, nil
	}

	if current == owner.Initials {
		return false, nil
	}
	if current != "" {
		return false, ErrCellTaken
	}
	if CountPicks(*m, owner.Initials) >= models.MaxPicksPerOwner {
		return false, ErrPickLimitReached
	}
	m[row][col] = owner.Initials
	return true, nil
}

// CheckLock reports whether owner has placed every pick.
func CheckLock(m models.Matrix, owner models.Owner) error {
	if CountPicks(m, owner.Initials) < models.MaxPicksPerOwner {
		return ErrPicksIncomplete
	}
	return nil
}

// SeedDemoAssignments gives each owner MaxPicksPerOwner cells, walking the
// grid with a fixed stride so the result is deterministic.
func SeedDemoAssignments(initials []string) models.Matrix {
	var m models.Matrix
	total := min(models.GridSize*models.GridSize, len(initials)*models.MaxPicksPerOwner)
	for i := 0; i < total; i++ {
		owner := i / models.MaxPicksPerOwner
		cell := (i * demoStride) % (models.GridSize * models.GridSize)
		m[cell/models.GridSize][cell%models.GridSize] = initials[owner]
	}
	return m
}

// ShuffledMarkers returns a random permutation of the digits 0-9.
func ShuffledMarkers() []int {
	return rand.Perm(models.GridSize)
}
