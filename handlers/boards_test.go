// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/cliparse"
	"github.com/danielhkuo/superb-owl/db"
	"github.com/danielhkuo/superb-owl/models"
	"github.com/danielhkuo/superb-owl/testutil"
)

type testEnv struct {
	store *db.Store
	clock *clockwork.FakeClock
	cfg   cliparse.Config
	roles auth.Roles
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	clock := testutil.NewTestClock()
	cfg := testutil.GetTestConfig()
	return testEnv{
		store: testutil.NewTestStore(t, conn, clock),
		clock: clock,
		cfg:   cfg,
		roles: auth.NewRoles(cfg.SuperAdminName),
	}
}

func boardRequest(method, boardID, suffix string, body interface{}, headers map[string]string) *http.Request {
	req := testutil.MakeRequest(method, "/api/boards/"+boardID+suffix, body, headers)
	req.SetPathValue("boardId", boardID)
	return req
}

func adminHeaders(token string) map[string]string {
	return map[string]string{auth.AdminTokenHeader: token}
}

func TestGetBoard(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewBoardHandler(env.store, env.cfg)

	t.Run("creates board lazily with defaults", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetBoard(w, boardRequest("GET", "family-2025", "", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		resp := testutil.DecodeEnvelope[models.Board](t, w)
		assert.True(t, resp.OK)
		assert.Equal(t, "family-2025", resp.Data.ID)
		assert.Equal(t, "Board family-2025", resp.Data.Name)
		assert.Equal(t, "Away", resp.Data.TopTeamLabel)
		assert.Equal(t, "Home", resp.Data.SideTeamLabel)
		assert.True(t, models.IsPermutation(resp.Data.RowMarkers))
		assert.True(t, models.IsPermutation(resp.Data.ColumnMarkers))
		assert.Equal(t, models.ThemeLight, resp.Data.ThemeDefaults.Theme)
		assert.Empty(t, resp.Data.Owners)
	})

	t.Run("repeated reads return the same markers", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		handler.GetBoard(w1, boardRequest("GET", "stable", "", nil, nil))
		w2 := httptest.NewRecorder()
		handler.GetBoard(w2, boardRequest("GET", "stable", "", nil, nil))

		first := testutil.DecodeEnvelope[models.Board](t, w1)
		second := testutil.DecodeEnvelope[models.Board](t, w2)
		assert.Equal(t, first.Data.RowMarkers, second.Data.RowMarkers)
		assert.Equal(t, first.Data.ColumnMarkers, second.Data.ColumnMarkers)
	})

	t.Run("invalid board id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetBoard(w, boardRequest("GET", "bad.id", "", nil, nil))
		testutil.AssertErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")
	})

	t.Run("board id too long", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetBoard(w, boardRequest("GET", strings.Repeat("a", 81), "", nil, nil))
		testutil.AssertErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")
	})
}

func TestPatchBoard(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewBoardHandler(env.store, env.cfg)
	boardKey := auth.GenerateBoardKey("patched", env.cfg.AdminToken)

	name := "Super Bowl LIX"
	markers := []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

	tests := []struct {
		name           string
		headers        map[string]string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "missing token",
			body:           map[string]any{"name": name},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "wrong token",
			headers:        adminHeaders("nope"),
			body:           map[string]any{"name": name},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "markers not a permutation",
			headers:        adminHeaders(env.cfg.AdminToken),
			body:           map[string]any{"rowMarkers": []int{0, 0, 1, 2, 3, 4, 5, 6, 7, 8}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:           "bad theme color",
			headers:        adminHeaders(env.cfg.AdminToken),
			body:           map[string]any{"themeDefaults": map[string]string{"theme": "dark", "accent": "red", "bg": "#fff", "text": "#000"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:           "global token",
			headers:        adminHeaders(env.cfg.AdminToken),
			body:           map[string]any{"name": name, "rowMarkers": markers},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "board scoped key",
			headers:        adminHeaders(boardKey),
			body:           map[string]any{"defaultGameId": "401671789"},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.PatchBoard(w, boardRequest("PATCH", "patched", "", tt.body, tt.headers))

			if tt.expectedCode != "" {
				testutil.AssertErrorCode(t, w, tt.expectedStatus, tt.expectedCode)
				return
			}
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	board, err := env.store.GetOrCreateBoard(context.Background(), "patched")
	require.NoError(t, err)
	assert.Equal(t, name, board.Name)
	assert.Equal(t, markers, board.RowMarkers)
	require.NotNil(t, board.DefaultGameID)
	assert.Equal(t, "401671789", *board.DefaultGameID)
}

func TestPatchBoardClearsDefaultGame(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewBoardHandler(env.store, env.cfg)
	headers := adminHeaders(env.cfg.AdminToken)

	w := httptest.NewRecorder()
	handler.PatchBoard(w, boardRequest("PATCH", "b1", "", map[string]any{"defaultGameId": "401"}, headers))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.PatchBoard(w, boardRequest("PATCH", "b1", "", map[string]any{"defaultGameId": nil}, headers))
	testutil.AssertStatus(t, w, http.StatusOK)

	resp := testutil.DecodeEnvelope[models.Board](t, w)
	assert.Nil(t, resp.Data.DefaultGameID)
}

func TestPatchBoardReplacesOwners(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewBoardHandler(env.store, env.cfg)
	testutil.ClaimTestOwner(t, env.store, "b1", "Jordan Lee")

	body := map[string]any{
		"owners": []map[string]any{
			{"initials": "AA", "displayName": "Avery Adams", "bgColor": "#ABCDEF", "textColor": "#000000", "sortOrder": 0},
			{"initials": "BB", "displayName": "Blake Brooks", "bgColor": "#123456", "textColor": "#FFFFFF", "sortOrder": 1},
		},
	}
	w := httptest.NewRecorder()
	handler.PatchBoard(w, boardRequest("PATCH", "b1", "", body, adminHeaders(env.cfg.AdminToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	resp := testutil.DecodeEnvelope[models.Board](t, w)
	require.Len(t, resp.Data.Owners, 2)
	assert.Equal(t, "AA", resp.Data.Owners[0].Initials)
	assert.Equal(t, "#abcdef", resp.Data.Owners[0].BgColor, "colors are lower-cased")
	assert.Equal(t, "BB", resp.Data.Owners[1].Initials)

	t.Run("duplicate initials rejected", func(t *testing.T) {
		dup := map[string]any{
			"owners": []map[string]any{
				{"initials": "AA", "displayName": "One", "bgColor": "#000000", "textColor": "#ffffff", "sortOrder": 0},
				{"initials": "AA", "displayName": "Two", "bgColor": "#000000", "textColor": "#ffffff", "sortOrder": 1},
			},
		}
		w := httptest.NewRecorder()
		handler.PatchBoard(w, boardRequest("PATCH", "b1", "", dup, adminHeaders(env.cfg.AdminToken)))
		testutil.AssertErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")
	})
}

func TestPatchBoardWithoutAdminToken(t *testing.T) {
	env := setupTestEnv(t)
	env.cfg.AdminToken = ""
	handler := NewBoardHandler(env.store, env.cfg)

	w := httptest.NewRecorder()
	handler.PatchBoard(w, boardRequest("PATCH", "b1", "", map[string]any{"name": "x"}, adminHeaders("anything")))
	testutil.AssertErrorCode(t, w, http.StatusInternalServerError, "CONFIG_ERROR")
}

func TestResetBoard(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewBoardHandler(env.store, env.cfg)
	ctx := context.Background()

	_, err := env.store.GetOrCreateBoard(ctx, "b1")
	require.NoError(t, err)
	for q := 1; q <= 3; q++ {
		require.NoError(t, env.store.UpsertQuarterWinner(ctx, models.QuarterWinnerInput{
			BoardID: "b1", Quarter: q, HomeScore: 7 * q, AwayScore: 3 * q, GamePeriodRecorded: q,
		}))
	}

	t.Run("unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ResetBoard(w, boardRequest("POST", "b1", "/reset", nil, nil))
		testutil.AssertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

		_, winners, err := env.store.GetBoardWithQuarterWinners(ctx, "b1")
		require.NoError(t, err)
		assert.Len(t, winners, 3)
	})

	t.Run("deletes quarter winners", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ResetBoard(w, boardRequest("POST", "b1", "/reset", nil, adminHeaders(env.cfg.AdminToken)))
		testutil.AssertStatus(t, w, http.StatusOK)

		resp := testutil.DecodeEnvelope[models.ResetResponse](t, w)
		assert.Equal(t, models.ResetResponse{BoardID: "b1", Reset: true}, resp.Data)

		_, winners, err := env.store.GetBoardWithQuarterWinners(ctx, "b1")
		require.NoError(t, err)
		assert.Empty(t, winners)
	})
}
