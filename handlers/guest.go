// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/db"
	"github.com/danielhkuo/superb-owl/metrics"
	"github.com/danielhkuo/superb-owl/middleware"
	"github.com/danielhkuo/superb-owl/models"
)

// Guest operation labels
const (
	opClaim = "claim"
	opPick  = "pick"
	opLock  = "lock"
	opAdmin = "admin"
)

type GuestHandler struct {
	store *db.Store
	roles auth.Roles
}

func NewGuestHandler(store *db.Store, roles auth.Roles) *GuestHandler {
	return &GuestHandler{store: store, roles: roles}
}

// guest resolves the caller from X-Superbowl-Guest-Name, writing a 401 when
// the header is blank.
func (h *GuestHandler) guest(w http.ResponseWriter, r *http.Request) (auth.Guest, bool) {
	name := strings.TrimSpace(r.Header.Get(auth.GuestNameHeader))
	if name == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Guest authentication required.", middleware.CodeUnauthorized)
		return auth.Guest{}, false
	}
	return h.roles.Resolve(name), true
}

// parseGuestRequest reads the path, identity and body shared by the guest routes
func (h *GuestHandler) parseGuestRequest(w http.ResponseWriter, r *http.Request, body interface{}) (string, auth.Guest, bool) {
	id, ok := boardID(w, r)
	if !ok {
		return "", auth.Guest{}, false
	}
	guest, ok := h.guest(w, r)
	if !ok {
		return "", auth.Guest{}, false
	}
	if body != nil {
		if err := middleware.ParseJSONBody(r, body); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body.", middleware.CodeBadRequest)
			return "", auth.Guest{}, false
		}
	}
	return id, guest, true
}

func badPayload(w http.ResponseWriter, err error) {
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request payload: "+err.Error(), middleware.CodeBadRequest)
}

// Claim handles POST /api/boards/{boardId}/guest/claim
func (h *GuestHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req models.ClaimRequest
	id, guest, ok := h.parseGuestRequest(w, r, &req)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		badPayload(w, err)
		return
	}

	owner, err := h.store.ClaimOwner(r.Context(), id, guest, req)
	if err != nil {
		writeStoreError(w, opClaim, err, "Failed to claim owner.")
		return
	}

	metrics.GuestOperationsTotal.WithLabelValues(opClaim, "OK").Inc()
	log.Info().Str("boardId", id).Str("initials", owner.Initials).Msg("owner claimed")
	middleware.OK(w, http.StatusOK, owner)
}

// Pick handles POST /api/boards/{boardId}/guest/pick
func (h *GuestHandler) Pick(w http.ResponseWriter, r *http.Request) {
	var req models.PickRequest
	id, guest, ok := h.parseGuestRequest(w, r, &req)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		badPayload(w, err)
		return
	}

	if err := h.store.SetPick(r.Context(), id, guest, *req.Row, *req.Col, *req.Selected); err != nil {
		writeStoreError(w, opPick, err, "Failed to update guest pick.")
		return
	}

	metrics.GuestOperationsTotal.WithLabelValues(opPick, "OK").Inc()
	middleware.OK(w, http.StatusOK, models.PickResponse{
		BoardID:  id,
		Row:      *req.Row,
		Col:      *req.Col,
		Selected: *req.Selected,
	})
}

// Lock handles POST /api/boards/{boardId}/guest/lock
func (h *GuestHandler) Lock(w http.ResponseWriter, r *http.Request) {
	id, guest, ok := h.parseGuestRequest(w, r, nil)
	if !ok {
		return
	}

	owner, err := h.store.LockPicks(r.Context(), id, guest)
	if err != nil {
		writeStoreError(w, opLock, err, "Failed to lock picks.")
		return
	}

	metrics.GuestOperationsTotal.WithLabelValues(opLock, "OK").Inc()
	log.Info().Str("boardId", id).Str("initials", owner.Initials).Msg("picks locked")
	middleware.OK(w, http.StatusOK, owner)
}

// Admin handles POST /api/boards/{boardId}/guest/admin
func (h *GuestHandler) Admin(w http.ResponseWriter, r *http.Request) {
	id, ok := boardID(w, r)
	if !ok {
		return
	}
	guest, ok := h.guest(w, r)
	if !ok {
		return
	}
	// Non-admins are rejected before the body is read.
	if !guest.IsBoardAdmin() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin testing actions are restricted.", middleware.CodeForbidden)
		return
	}

	var req models.AdminActionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body.", middleware.CodeBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		badPayload(w, err)
		return
	}

	result, err := h.store.RunAdminAction(r.Context(), id, guest, req.Action)
	if err != nil {
		writeStoreError(w, opAdmin, err, "Failed to run admin action.")
		return
	}

	metrics.GuestOperationsTotal.WithLabelValues(opAdmin, "OK").Inc()
	log.Info().Str("boardId", id).Str("action", req.Action).Msg("admin action completed")
	middleware.OK(w, http.StatusOK, result)
}
