package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

var (
	boardIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
)

// ValidationError reports a malformed field in a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NullableString distinguishes an absent JSON field from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func ValidateBoardID(id string) error {
	if !lengthBetween(id, 1, 80) || !boardIDPattern.MatchString(id) {
		return invalid("boardId", "must be 1-80 characters of letters, digits, '_' or '-'")
	}
	return nil
}

func ValidateGameID(id string) error {
	if !lengthBetween(id, 1, 40) {
		return invalid("gameId", "must be 1-40 characters")
	}
	return nil
}

func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// IsPermutation reports whether markers holds each digit 0-9 exactly once.
func IsPermutation(markers []int) bool {
	if len(markers) != GridSize {
		return false
	}
	var seen [GridSize]bool
	for _, m := range markers {
		if m < 0 || m >= GridSize || seen[m] {
			return false
		}
		seen[m] = true
	}
	return true
}

func validTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Validate checks the patch and normalizes colors and assignment cells in place.
func (p *BoardPatch) Validate() error {
	if p.Name != nil && !lengthBetween(*p.Name, 1, 120) {
		return invalid("name", "must be 1-120 characters")
	}
	if p.DefaultGameID.Set && p.DefaultGameID.Value != nil {
		if err := ValidateGameID(*p.DefaultGameID.Value); err != nil {
			return invalid("defaultGameId", "must be 1-40 characters or null")
		}
	}
	if p.TopTeamLabel != nil && !lengthBetween(*p.TopTeamLabel, 1, 64) {
		return invalid("topTeamLabel", "must be 1-64 characters")
	}
	if p.SideTeamLabel != nil && !lengthBetween(*p.SideTeamLabel, 1, 64) {
		return invalid("sideTeamLabel", "must be 1-64 characters")
	}
	if p.ColumnMarkers != nil && !IsPermutation(p.ColumnMarkers) {
		return invalid("columnMarkers", "must be a permutation of 0-9")
	}
	if p.RowMarkers != nil && !IsPermutation(p.RowMarkers) {
		return invalid("rowMarkers", "must be a permutation of 0-9")
	}
	if p.Assignments != nil {
		if len(p.Assignments) != GridSize {
			return invalid("assignments", "must have %d rows", GridSize)
		}
		for r, row := range p.Assignments {
			if len(row) != GridSize {
				return invalid("assignments", "row %d must have %d cells", r, GridSize)
			}
			for c, cell := range row {
				cell = strings.TrimSpace(cell)
				if utf8.RuneCountInString(cell) > 4 {
					return invalid("assignments", "cell [%d][%d] longer than 4 characters", r, c)
				}
				row[c] = cell
			}
		}
	}
	if p.ThemeDefaults != nil {
		t := p.ThemeDefaults
		if !validTheme(t.Theme) {
			return invalid("themeDefaults.theme", "must be light, dark or auto")
		}
		for field, color := range map[string]*string{"accent": &t.Accent, "bg": &t.Bg, "text": &t.Text} {
			if !IsHexColor(*color) {
				return invalid("themeDefaults."+field, "must be a hex color")
			}
			*color = strings.ToLower(*color)
		}
	}
	if p.Owners != nil {
		owners := *p.Owners
		if len(owners) > MaxOwners {
			return invalid("owners", "at most %d owners allowed", MaxOwners)
		}
		initials := make(map[string]bool, len(owners))
		names := make(map[string]bool, len(owners))
		for i := range owners {
			o := &owners[i]
			if !lengthBetween(o.Initials, 1, 4) {
				return invalid("owners.initials", "must be 1-4 characters")
			}
			if !lengthBetween(o.DisplayName, 1, 64) {
				return invalid("owners.displayName", "must be 1-64 characters")
			}
			if !IsHexColor(o.BgColor) || !IsHexColor(o.TextColor) {
				return invalid("owners.color", "must be a hex color")
			}
			if o.SortOrder < 0 {
				return invalid("owners.sortOrder", "must be >= 0")
			}
			name := strings.ToLower(strings.Join(strings.Fields(o.DisplayName), " "))
			if initials[o.Initials] || names[name] {
				return invalid("owners", "initials and display names must be unique")
			}
			initials[o.Initials] = true
			names[name] = true
			o.BgColor = strings.ToLower(o.BgColor)
			o.TextColor = strings.ToLower(o.TextColor)
		}
	}
	return nil
}

// Validate trims the requested initials and lower-cases colors.
func (r *ClaimRequest) Validate() error {
	if r.Initials != nil {
		initials := strings.TrimSpace(*r.Initials)
		if !lengthBetween(initials, 1, 4) {
			return invalid("initials", "must be 1-4 characters")
		}
		r.Initials = &initials
	}
	for field, color := range map[string]*string{"bgColor": r.BgColor, "textColor": r.TextColor} {
		if color == nil {
			continue
		}
		if !IsHexColor(*color) {
			return invalid(field, "must be a hex color")
		}
		*color = strings.ToLower(*color)
	}
	return nil
}

func (r PickRequest) Validate() error {
	if r.Row == nil {
		return invalid("row", "is required")
	}
	if r.Col == nil {
		return invalid("col", "is required")
	}
	if r.Selected == nil {
		return invalid("selected", "is required")
	}
	return nil
}

func (r AdminActionRequest) Validate() error {
	switch r.Action {
	case ActionClearPicks, ActionClearWinners, ActionClearAll, ActionSeedDemo:
		return nil
	}
	return invalid("action", "must be one of clear_picks, clear_winners, clear_all, seed_demo")
}
