// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/danielhkuo/superb-owl/models"
	"github.com/danielhkuo/superb-owl/testutil"
)

// TestFullGameWorkflow walks a board from claim to final:
// 1. Guests claim owners
// 2. Guests place and lock their picks
// 3. Live polls cross every quarter boundary
// 4. Quarter winners are recorded once each, Q4 only when overtime starts
// 5. Admin reset clears the winners
func TestFullGameWorkflow(t *testing.T) {
	le := setupLive(t, nil)
	guestHandler := NewGuestHandler(le.store, le.roles)
	boardHandler := NewBoardHandler(le.store, le.cfg)
	const boardID = "party-2025"

	// Step 1: claims
	guests := []string{"Jordan Lee", "Casey Morgan"}
	for _, g := range guests {
		w := httptest.NewRecorder()
		guestHandler.Claim(w, boardRequest("POST", boardID, "/guest/claim", map[string]any{}, testutil.GuestHeaders(g)))
		if w.Code != http.StatusOK {
			t.Fatalf("Step 1 - Claim for %s failed: %d - %s", g, w.Code, w.Body.String())
		}
	}

	// Step 2: Jordan takes the first 16 cells, Casey the next 16
	for i, g := range guests {
		for n := 0; n < models.MaxPicksPerOwner; n++ {
			cell := i*models.MaxPicksPerOwner + n
			w := httptest.NewRecorder()
			guestHandler.Pick(w, boardRequest("POST", boardID, "/guest/pick",
				pick(cell/models.GridSize, cell%models.GridSize, true), testutil.GuestHeaders(g)))
			if w.Code != http.StatusOK {
				t.Fatalf("Step 2 - Pick %d for %s failed: %d - %s", cell, g, w.Code, w.Body.String())
			}
		}
		w := httptest.NewRecorder()
		guestHandler.Lock(w, boardRequest("POST", boardID, "/guest/lock", nil, testutil.GuestHeaders(g)))
		if w.Code != http.StatusOK {
			t.Fatalf("Step 2 - Lock for %s failed: %d - %s", g, w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	boardHandler.GetBoard(w, boardRequest("GET", boardID, "", nil, nil))
	board := testutil.DecodeEnvelope[models.Board](t, w).Data

	// Row 0 belongs to Jordan; put the Q1 score there.
	homeDigit := board.RowMarkers[0]
	awayDigit := board.ColumnMarkers[0]

	poll := func(home, away, period int, status string) models.LiveBoardSnapshot {
		t.Helper()
		le.clock.Advance(time.Second)
		le.provider.set(home, away, period, status)
		w := httptest.NewRecorder()
		le.handler.GetLive(w, liveRequest(boardID, "", "203.0.113.9", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Step 3 - Poll failed: %d - %s", w.Code, w.Body.String())
		}
		return testutil.DecodeEnvelope[models.LiveBoardSnapshot](t, w).Data
	}

	// Step 3: quarters
	snap := poll(homeDigit, awayDigit, 1, models.StatusLive)
	if snap.WinningOwner == nil || snap.WinningOwner.Initials != "JL" {
		t.Fatalf("Step 3 - Expected JL to hold the Q1 cell, got %+v", snap.WinningOwner)
	}
	poll(homeDigit+10, awayDigit, 2, models.StatusLive)
	poll(homeDigit+10, awayDigit+10, 3, models.StatusLive)
	poll(homeDigit+20, awayDigit+10, 4, models.StatusLive)
	snap = poll(homeDigit+20, awayDigit+10, 4, models.StatusFinal)
	if len(snap.QuarterWinners) != 3 {
		t.Fatalf("Step 4 - Expected Q1-Q3 after regulation, got %d winners", len(snap.QuarterWinners))
	}
	snap = poll(homeDigit+20, awayDigit+10, 5, models.StatusLive)

	// Step 4: each period change records the quarter that ended
	quarters := make([]int, 0, len(snap.QuarterWinners))
	for _, qw := range snap.QuarterWinners {
		quarters = append(quarters, qw.Quarter)
	}
	if !slices.Equal(quarters, []int{1, 2, 3, 4}) {
		t.Fatalf("Step 4 - Expected quarters [1 2 3 4], got %v", quarters)
	}
	for _, qw := range snap.QuarterWinners {
		if qw.OwnerInitials == nil || *qw.OwnerInitials != "JL" {
			t.Errorf("Step 4 - Quarter %d expected JL, got %v", qw.Quarter, qw.OwnerInitials)
		}
	}

	// Polling the same period again changes nothing.
	snap = poll(homeDigit+20, awayDigit+10, 5, models.StatusFinal)
	if len(snap.QuarterWinners) != 4 {
		t.Errorf("Step 4 - Expected 4 winners after repeat poll, got %d", len(snap.QuarterWinners))
	}

	// Step 5: reset
	w = httptest.NewRecorder()
	boardHandler.ResetBoard(w, boardRequest("POST", boardID, "/reset", nil, adminHeaders(le.cfg.AdminToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	snap = poll(homeDigit+20, awayDigit+10, 5, models.StatusFinal)
	if len(snap.QuarterWinners) != 0 {
		t.Errorf("Step 5 - Expected no winners after reset, got %d", len(snap.QuarterWinners))
	}
}
