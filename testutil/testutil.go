// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/cliparse"
	"github.com/danielhkuo/superb-owl/db"
	"github.com/danielhkuo/superb-owl/models"
)

// Fixed credentials used by GetTestConfig
const (
	TestAdminToken     = "test-admin-token"
	TestSuperAdminName = "admin adminson"
)

// TestStart is the instant every fake test clock starts at (Super Bowl LIX kickoff)
var TestStart = time.Date(2025, 2, 9, 23, 30, 0, 0, time.UTC)

// SetupTestDB creates a fresh sqlite database with the full schema in a temp dir
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "superbowl.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           cliparse.DefaultPort,
		DatabaseURL:    "file::memory:",
		DatabaseType:   "sqlite",
		AdminToken:     TestAdminToken,
		SuperAdminName: TestSuperAdminName,
		ESPNBaseURL:    cliparse.DefaultESPNBaseURL,
		ESPNTimeout:    time.Second,
		LiveRateLimit:  cliparse.DefaultLiveRateLimit,
		LogLevel:       "debug",
	}
}

// NewTestClock returns a fake clock set to TestStart
func NewTestClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(TestStart)
}

// NewTestStore builds a store over conn using the test config roles
func NewTestStore(t *testing.T, conn *sql.DB, clock clockwork.Clock) *db.Store {
	t.Helper()

	store, err := db.NewStore(conn, clock, auth.NewRoles(TestSuperAdminName))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

// ClaimTestOwner claims an owner slot for name and returns it
func ClaimTestOwner(t *testing.T, store *db.Store, boardID, name string) models.Owner {
	t.Helper()

	guest := auth.NewRoles(TestSuperAdminName).Resolve(name)
	owner, err := store.ClaimOwner(context.Background(), boardID, guest, models.ClaimRequest{})
	if err != nil {
		t.Fatalf("Failed to claim owner %q: %v", name, err)
	}
	return owner
}

// FillTestPicks selects the first n free cells for name in row-major order
func FillTestPicks(t *testing.T, store *db.Store, boardID, name string, n int) {
	t.Helper()

	ctx := context.Background()
	board, err := store.GetOrCreateBoard(ctx, boardID)
	if err != nil {
		t.Fatalf("Failed to load board: %v", err)
	}

	guest := auth.NewRoles(TestSuperAdminName).Resolve(name)
	picked := 0
	for cell := 0; cell < models.GridSize*models.GridSize && picked < n; cell++ {
		row, col := cell/models.GridSize, cell%models.GridSize
		if board.Assignments[row][col] != "" {
			continue
		}
		if err := store.SetPick(ctx, boardID, guest, row, col, true); err != nil {
			t.Fatalf("Failed to pick [%d][%d]: %v", row, col, err)
		}
		picked++
	}
	if picked != n {
		t.Fatalf("Only %d of %d picks placed", picked, n)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// GuestHeaders returns the identity header for a guest name
func GuestHeaders(name string) map[string]string {
	return map[string]string{auth.GuestNameHeader: name}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// Envelope mirrors models.Envelope with a typed payload for decoding
type Envelope[T any] struct {
	OK    bool             `json:"ok"`
	Data  T                `json:"data"`
	Meta  *models.LiveMeta `json:"meta"`
	Error string           `json:"error"`
	Code  string           `json:"code"`
}

// DecodeEnvelope decodes the response body into an envelope carrying T
func DecodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	AssertJSON(t, w, &env)
	return env
}

// AssertErrorCode checks status and envelope error code together
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, w, status)
	env := DecodeEnvelope[json.RawMessage](t, w)
	if env.OK {
		t.Errorf("Expected ok=false, got ok=true")
	}
	if env.Code != code {
		t.Errorf("Expected code %q, got %q (error %q)", code, env.Code, env.Error)
	}
}
