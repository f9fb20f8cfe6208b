// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/cliparse"
	"github.com/danielhkuo/superb-owl/db"
	"github.com/danielhkuo/superb-owl/handlers"
	"github.com/danielhkuo/superb-owl/live"
	"github.com/danielhkuo/superb-owl/middleware"
	"github.com/danielhkuo/superb-owl/ratelimit"
)

// Deps are the long-lived components the handlers share
type Deps struct {
	Store   *db.Store
	Engine  *live.Engine
	Limiter ratelimit.Limiter
	Cache   ratelimit.PayloadCache
	Clock   clockwork.Clock
}

func NewRouter(deps Deps, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()
	roles := auth.NewRoles(cfg.SuperAdminName)

	// Initialize handlers
	boardHandler := handlers.NewBoardHandler(deps.Store, cfg)
	liveHandler := handlers.NewLiveHandler(deps.Engine, deps.Limiter, deps.Cache, roles, deps.Clock)
	guestHandler := handlers.NewGuestHandler(deps.Store, roles)

	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireConfig(cfg.CheckAdminToken, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Board config (admin token for writes)
	mux.HandleFunc("GET /api/boards/{boardId}", middleware.WithLogging(boardHandler.GetBoard))
	mux.HandleFunc("PATCH /api/boards/{boardId}", adminOnly(boardHandler.PatchBoard))
	mux.HandleFunc("POST /api/boards/{boardId}/reset", adminOnly(boardHandler.ResetBoard))

	// Live score
	mux.HandleFunc("GET /api/boards/{boardId}/live", middleware.WithLogging(liveHandler.GetLive))

	// Guest operations (X-Superbowl-Guest-Name)
	mux.HandleFunc("POST /api/boards/{boardId}/guest/claim", middleware.WithLogging(guestHandler.Claim))
	mux.HandleFunc("POST /api/boards/{boardId}/guest/pick", middleware.WithLogging(guestHandler.Pick))
	mux.HandleFunc("POST /api/boards/{boardId}/guest/lock", middleware.WithLogging(guestHandler.Lock))
	mux.HandleFunc("POST /api/boards/{boardId}/guest/admin", middleware.WithLogging(guestHandler.Admin))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("superb-owl API v1"))
	})

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
		},
		AllowedHeaders: []string{"Content-Type", auth.AdminTokenHeader, auth.GuestNameHeader},
	})

	return c.Handler(mux)
}
