// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/superb-owl/models"
	"github.com/danielhkuo/superb-owl/testutil"
)

// TestConcurrentPicksSameCell verifies that two guests racing for one cell
// produce exactly one winner and one CELL_TAKEN
func TestConcurrentPicksSameCell(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewGuestHandler(env.store, env.roles)

	guests := []string{"Jordan Lee", "Casey Morgan"}
	for _, g := range guests {
		testutil.ClaimTestOwner(t, env.store, "b1", g)
	}

	var okCount, takenCount atomic.Int32
	var wg sync.WaitGroup
	for _, g := range guests {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.Pick(w, boardRequest("POST", "b1", "/guest/pick", pick(4, 4, true), testutil.GuestHeaders(name)))

			switch w.Code {
			case http.StatusOK:
				okCount.Add(1)
			case http.StatusConflict:
				takenCount.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(g)
	}
	wg.Wait()

	if okCount.Load() != 1 || takenCount.Load() != 1 {
		t.Fatalf("Expected 1 success and 1 conflict, got %d and %d", okCount.Load(), takenCount.Load())
	}

	board, err := env.store.GetOrCreateBoard(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Failed to load board: %v", err)
	}
	if cell := board.Assignments[4][4]; cell != "JL" && cell != "CM" {
		t.Errorf("Expected cell to hold one owner's initials, got %q", cell)
	}
}

// TestConcurrentClaims verifies the owner limit holds under a burst of claims
func TestConcurrentClaims(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewGuestHandler(env.store, env.roles)

	numGuests := 10
	var okCount, limitCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numGuests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			name := fmt.Sprintf("Guest %c", 'A'+idx)
			w := httptest.NewRecorder()
			handler.Claim(w, boardRequest("POST", "b1", "/guest/claim", map[string]any{}, testutil.GuestHeaders(name)))

			switch w.Code {
			case http.StatusOK:
				okCount.Add(1)
			case http.StatusConflict:
				limitCount.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if int(okCount.Load()) != models.MaxOwners {
		t.Errorf("Expected %d claims, got %d", models.MaxOwners, okCount.Load())
	}
	if int(limitCount.Load()) != numGuests-models.MaxOwners {
		t.Errorf("Expected %d limited claims, got %d", numGuests-models.MaxOwners, limitCount.Load())
	}

	board, _ := env.store.GetOrCreateBoard(context.Background(), "b1")
	if len(board.Owners) != models.MaxOwners {
		t.Errorf("Expected %d owners stored, got %d", models.MaxOwners, len(board.Owners))
	}
}

// TestConcurrentLivePolls verifies that simultaneous pollers crossing a
// quarter boundary leave exactly one record for that quarter
func TestConcurrentLivePolls(t *testing.T) {
	le := setupLive(t, nil)

	le.provider.set(7, 0, 1, models.StatusLive)
	w := httptest.NewRecorder()
	le.handler.GetLive(w, liveRequest("b1", "", "10.0.0.1", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	le.clock.Advance(time.Second)
	le.provider.set(7, 3, 2, models.StatusLive)

	numPollers := 8
	var wg sync.WaitGroup
	for i := 0; i < numPollers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			le.handler.GetLive(w, liveRequest("b1", "", fmt.Sprintf("10.0.1.%d", idx), nil))
			if w.Code != http.StatusOK {
				t.Errorf("Poller %d got status %d", idx, w.Code)
			}
		}(i)
	}
	wg.Wait()

	_, winners, err := le.store.GetBoardWithQuarterWinners(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Failed to load winners: %v", err)
	}
	if len(winners) != 1 {
		t.Fatalf("Expected exactly one quarter winner, got %d", len(winners))
	}
	if winners[0].Quarter != 1 || winners[0].HomeScore != 7 || winners[0].AwayScore != 0 {
		t.Errorf("Unexpected winner record: %+v", winners[0])
	}
}
