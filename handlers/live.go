// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/live"
	"github.com/danielhkuo/superb-owl/metrics"
	"github.com/danielhkuo/superb-owl/middleware"
	"github.com/danielhkuo/superb-owl/models"
	"github.com/danielhkuo/superb-owl/ratelimit"
)

type LiveHandler struct {
	engine  *live.Engine
	limiter ratelimit.Limiter
	cache   ratelimit.PayloadCache
	roles   auth.Roles
	clock   clockwork.Clock
}

func NewLiveHandler(engine *live.Engine, limiter ratelimit.Limiter, cache ratelimit.PayloadCache, roles auth.Roles, clock clockwork.Clock) *LiveHandler {
	return &LiveHandler{engine: engine, limiter: limiter, cache: cache, roles: roles, clock: clock}
}

// GetLive handles GET /api/boards/{boardId}/live
func (h *LiveHandler) GetLive(w http.ResponseWriter, r *http.Request) {
	id, ok := boardID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	key := id + ":" + auth.HashIP(middleware.GetClientIP(r), id)
	allowed, err := h.limiter.Allow(ctx, key)
	if err != nil {
		// Fail open when the limiter store is down.
		log.Warn().Err(err).Str("boardId", id).Msg("rate limiter unavailable")
		allowed = true
	}
	if !allowed {
		h.serveCached(w, r, id)
		return
	}

	query := r.URL.Query()
	gameID := query.Get("gameId")
	if query.Has("gameId") {
		if err := models.ValidateGameID(gameID); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request query.", middleware.CodeBadRequest)
			return
		}
	}
	testMode := query.Get("testMode")
	if testMode != "" && testMode != "0" && testMode != "1" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request query.", middleware.CodeBadRequest)
		return
	}

	var data models.LiveBoardSnapshot
	if testMode == "1" {
		if !h.roles.Resolve(r.Header.Get(auth.GuestNameHeader)).IsBoardAdmin() {
			middleware.ErrorResponse(w, http.StatusForbidden, "Test mode is restricted.", middleware.CodeForbidden)
			return
		}
		data, err = h.engine.TestSnapshot(ctx, id)
	} else {
		data, err = h.engine.Snapshot(ctx, id, gameID)
	}
	if err != nil {
		log.Error().Err(err).Str("boardId", id).Msg("failed to build live snapshot")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load live board snapshot.", middleware.CodeInternal)
		return
	}

	if err := h.cache.Set(ctx, id, ratelimit.CachedPayload{Data: data, CachedAt: h.clock.Now().UTC()}); err != nil {
		log.Warn().Err(err).Str("boardId", id).Msg("failed to cache live payload")
	}

	metrics.LiveSnapshotsTotal.WithLabelValues(metrics.SourceFresh).Inc()
	middleware.OK(w, http.StatusOK, data)
}

// serveCached answers a rate limited request with the board's last payload
func (h *LiveHandler) serveCached(w http.ResponseWriter, r *http.Request, id string) {
	cached, ok, err := h.cache.Get(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Str("boardId", id).Msg("failed to read cached live payload")
	}
	if !ok {
		metrics.LiveSnapshotsTotal.WithLabelValues(metrics.SourceRateLimited).Inc()
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Too many requests.", middleware.CodeRateLimited)
		return
	}

	metrics.LiveSnapshotsTotal.WithLabelValues(metrics.SourceCached).Inc()
	middleware.OKWithMeta(w, cached.Data, models.LiveMeta{
		Stale:       true,
		RateLimited: true,
		CachedAt:    cached.CachedAt,
	})
}
