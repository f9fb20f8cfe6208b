// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/superb-owl/db"
	"github.com/danielhkuo/superb-owl/metrics"
	"github.com/danielhkuo/superb-owl/middleware"
	"github.com/danielhkuo/superb-owl/squares"
)

type apiError struct {
	status  int
	message string
	code    string
}

// guestErrors maps store sentinels to the response sent to the guest.
var guestErrors = []struct {
	err error
	apiError
}{
	{squares.ErrOwnerLimitReached, apiError{http.StatusConflict, "Board owner limit (6) reached.", "OWNER_LIMIT_REACHED"}},
	{squares.ErrInitialsTaken, apiError{http.StatusConflict, "Initials already taken.", "INITIALS_TAKEN"}},
	{squares.ErrAdminForbidden, apiError{http.StatusForbidden, "Admin user cannot claim an owner slot.", "ADMIN_FORBIDDEN"}},
	{squares.ErrNotBoardAdmin, apiError{http.StatusForbidden, "Admin testing actions are restricted.", middleware.CodeForbidden}},
	{squares.ErrOwnerNotFound, apiError{http.StatusNotFound, "Owner not found for guest.", "OWNER_NOT_FOUND"}},
	{squares.ErrCellTaken, apiError{http.StatusConflict, "Cell is already taken.", "CELL_TAKEN"}},
	{squares.ErrPickLimitReached, apiError{http.StatusConflict, "Pick limit reached for this guest.", "PICK_LIMIT_REACHED"}},
	{squares.ErrPicksLocked, apiError{http.StatusConflict, "Picks are locked and can no longer be changed.", "PICKS_LOCKED"}},
	{squares.ErrPicksIncomplete, apiError{http.StatusConflict, "You must place all picks before locking.", "PICKS_INCOMPLETE"}},
	{squares.ErrInvalidCell, apiError{http.StatusBadRequest, "Invalid cell coordinates.", "INVALID_CELL"}},
	{db.ErrBoardBusy, apiError{http.StatusConflict, "Board is busy, try again.", "BOARD_BUSY"}},
}

// writeStoreError translates a store error into a response. Unknown errors
// are logged and answered with fallback as a 500.
func writeStoreError(w http.ResponseWriter, op string, err error, fallback string) {
	for _, e := range guestErrors {
		if errors.Is(err, e.err) {
			metrics.GuestOperationsTotal.WithLabelValues(op, e.code).Inc()
			middleware.ErrorResponse(w, e.status, e.message, e.code)
			return
		}
	}

	metrics.GuestOperationsTotal.WithLabelValues(op, middleware.CodeInternal).Inc()
	log.Error().Err(err).Str("operation", op).Msg("store operation failed")
	middleware.ErrorResponse(w, http.StatusInternalServerError, fallback, middleware.CodeInternal)
}
