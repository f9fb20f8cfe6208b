// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/cliparse"
	"github.com/danielhkuo/superb-owl/db"
	"github.com/danielhkuo/superb-owl/middleware"
	"github.com/danielhkuo/superb-owl/models"
)

type BoardHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewBoardHandler(store *db.Store, cfg cliparse.Config) *BoardHandler {
	return &BoardHandler{store: store, cfg: cfg}
}

// boardID reads and validates the {boardId} path value, writing a 400 when
// it is malformed.
func boardID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("boardId")
	if err := models.ValidateBoardID(id); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid board id.", middleware.CodeBadRequest)
		return "", false
	}
	return id, true
}

// authorizeAdmin checks X-Admin-Token against the global token or the board key
func (h *BoardHandler) authorizeAdmin(w http.ResponseWriter, r *http.Request, id, action string) bool {
	err := auth.ValidateAdminKey(id, r.Header.Get(auth.AdminTokenHeader), h.cfg.AdminToken)
	if err == nil {
		return true
	}
	if errors.Is(err, auth.ErrNotConfigured) {
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error(), middleware.CodeConfigError)
		return false
	}
	log.Warn().Str("boardId", id).Str("action", action).Msg("unauthorized board admin request")
	middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized.", middleware.CodeUnauthorized)
	return false
}

// GetBoard handles GET /api/boards/{boardId}
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := boardID(w, r)
	if !ok {
		return
	}

	board, err := h.store.GetOrCreateBoard(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("boardId", id).Msg("failed to load board")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load board.", middleware.CodeInternal)
		return
	}

	middleware.OK(w, http.StatusOK, board)
}

// PatchBoard handles PATCH /api/boards/{boardId}
func (h *BoardHandler) PatchBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := boardID(w, r)
	if !ok {
		return
	}
	if !h.authorizeAdmin(w, r, id, "patch") {
		return
	}

	var patch models.BoardPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body.", middleware.CodeBadRequest)
		return
	}
	if err := patch.Validate(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request payload: "+err.Error(), middleware.CodeBadRequest)
		return
	}

	board, err := h.store.PatchBoard(r.Context(), id, patch)
	if err != nil {
		log.Error().Err(err).Str("boardId", id).Msg("failed to patch board")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update board.", middleware.CodeInternal)
		return
	}

	log.Info().Str("boardId", id).Msg("board updated")
	middleware.OK(w, http.StatusOK, board)
}

// ResetBoard handles POST /api/boards/{boardId}/reset
func (h *BoardHandler) ResetBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := boardID(w, r)
	if !ok {
		return
	}
	if !h.authorizeAdmin(w, r, id, "reset") {
		return
	}

	if err := h.store.ResetQuarterWinners(r.Context(), id); err != nil {
		log.Error().Err(err).Str("boardId", id).Msg("failed to reset quarter winners")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset board quarter winners.", middleware.CodeInternal)
		return
	}

	log.Info().Str("boardId", id).Msg("quarter winners reset")
	middleware.OK(w, http.StatusOK, models.ResetResponse{BoardID: id, Reset: true})
}
