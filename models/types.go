package models

import "time"

// Grid and roster limits
const (
	GridSize         = 10
	MaxOwners        = 6
	MaxPicksPerOwner = 16
)

// Game status constants
const (
	StatusPre      = "pre"
	StatusLive     = "live"
	StatusFinal    = "final"
	StatusFallback = "fallback"
)

// Live status constants
const (
	LiveStatusOK       = "ok"
	LiveStatusFallback = "fallback"
)

// Guest admin actions
const (
	ActionClearPicks   = "clear_picks"
	ActionClearWinners = "clear_winners"
	ActionClearAll     = "clear_all"
	ActionSeedDemo     = "seed_demo"
)

// Theme constants
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Domain types

// Matrix holds owner initials per cell, indexed [row][col]. Empty string means unassigned.
type Matrix [GridSize][GridSize]string

type ThemeDefaults struct {
	Theme  string `json:"theme" yaml:"theme"`
	Accent string `json:"accent" yaml:"accent"`
	Bg     string `json:"bg" yaml:"bg"`
	Text   string `json:"text" yaml:"text"`
}

type Owner struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"boardId"`
	Initials    string     `json:"initials"`
	DisplayName string     `json:"displayName"`
	BgColor     string     `json:"bgColor"`
	TextColor   string     `json:"textColor"`
	SortOrder   int        `json:"sortOrder"`
	LockedAt    *time.Time `json:"lockedAt"`
}

func (o Owner) Locked() bool {
	return o.LockedAt != nil
}

type Board struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	DefaultGameID *string       `json:"defaultGameId"`
	TopTeamLabel  string        `json:"topTeamLabel"`
	SideTeamLabel string        `json:"sideTeamLabel"`
	ColumnMarkers []int         `json:"columnMarkers"`
	RowMarkers    []int         `json:"rowMarkers"`
	Assignments   Matrix        `json:"assignments"`
	ThemeDefaults ThemeDefaults `json:"themeDefaults"`
	Owners        []Owner       `json:"owners"`
}

type GameSnapshot struct {
	GameID        string     `json:"gameId"`
	HomeTeam      string     `json:"homeTeam"`
	AwayTeam      string     `json:"awayTeam"`
	HomeScore     int        `json:"homeScore"`
	AwayScore     int        `json:"awayScore"`
	Period        int        `json:"period"`
	Clock         string     `json:"clock"`
	Status        string     `json:"status"`
	KickoffAt     *time.Time `json:"kickoffAt"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt"`
}

type WinningCell struct {
	Row       int `json:"row"`
	Col       int `json:"col"`
	RowMarker int `json:"rowMarker"`
	ColMarker int `json:"colMarker"`
}

type QuarterWinner struct {
	ID                 string  `json:"id"`
	BoardID            string  `json:"boardId"`
	Quarter            int     `json:"quarter"`
	OwnerID            *string `json:"ownerId"`
	OwnerInitials      *string `json:"ownerInitials"`
	OwnerDisplayName   *string `json:"ownerDisplayName"`
	HomeScore          int     `json:"homeScore"`
	AwayScore          int     `json:"awayScore"`
	GamePeriodRecorded int     `json:"gamePeriodRecorded"`
}

// QuarterWinnerInput is the finalization record written once per (board, quarter).
type QuarterWinnerInput struct {
	BoardID            string
	Quarter            int
	OwnerID            *string
	HomeScore          int
	AwayScore          int
	GamePeriodRecorded int
}

type LiveBoardSnapshot struct {
	Board          Board           `json:"board"`
	Game           GameSnapshot    `json:"game"`
	WinningCell    *WinningCell    `json:"winningCell"`
	WinningOwner   *Owner          `json:"winningOwner"`
	QuarterWinners []QuarterWinner `json:"quarterWinners"`
	LiveStatus     string          `json:"liveStatus"`
}

// Request types

type ClaimRequest struct {
	Initials  *string `json:"initials"`
	BgColor   *string `json:"bgColor"`
	TextColor *string `json:"textColor"`
}

type PickRequest struct {
	Row      *int  `json:"row"`
	Col      *int  `json:"col"`
	Selected *bool `json:"selected"`
}

type AdminActionRequest struct {
	Action string `json:"action"`
}

type OwnerPatch struct {
	Initials    string `json:"initials"`
	DisplayName string `json:"displayName"`
	BgColor     string `json:"bgColor"`
	TextColor   string `json:"textColor"`
	SortOrder   int    `json:"sortOrder"`
}

// BoardPatch carries a partial board update. Nil fields are left untouched.
type BoardPatch struct {
	Name          *string        `json:"name"`
	DefaultGameID NullableString `json:"defaultGameId"`
	TopTeamLabel  *string        `json:"topTeamLabel"`
	SideTeamLabel *string        `json:"sideTeamLabel"`
	ColumnMarkers []int          `json:"columnMarkers"`
	RowMarkers    []int          `json:"rowMarkers"`
	Assignments   [][]string     `json:"assignments"`
	ThemeDefaults *ThemeDefaults `json:"themeDefaults"`
	Owners        *[]OwnerPatch  `json:"owners"`
}

// Response types

type PickResponse struct {
	BoardID  string `json:"boardId"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Selected bool   `json:"selected"`
}

type AdminActionResult struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
}

type ResetResponse struct {
	BoardID string `json:"boardId"`
	Reset   bool   `json:"reset"`
}

type LiveMeta struct {
	Stale       bool      `json:"stale"`
	RateLimited bool      `json:"rateLimited"`
	CachedAt    time.Time `json:"cachedAt"`
}

// Envelope is the uniform response body for every API route.
type Envelope struct {
	OK    bool      `json:"ok"`
	Data  any       `json:"data,omitempty"`
	Meta  *LiveMeta `json:"meta,omitempty"`
	Error string    `json:"error,omitempty"`
	Code  string    `json:"code,omitempty"`
}
