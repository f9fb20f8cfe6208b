// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the superb-owl API.

	handler := router.NewRouter(router.Deps{...}, cfg)

# Endpoints

	GET   /health
	GET   /metrics                            - Prometheus
	GET   /api/boards/{boardId}               - Board config
	PATCH /api/boards/{boardId}               - Update board (X-Admin-Token)
	POST  /api/boards/{boardId}/reset         - Clear quarter winners (X-Admin-Token)
	GET   /api/boards/{boardId}/live          - Live snapshot (?gameId, ?testMode)
	POST  /api/boards/{boardId}/guest/claim   - Claim an owner slot
	POST  /api/boards/{boardId}/guest/pick    - Select or clear a cell
	POST  /api/boards/{boardId}/guest/lock    - Lock all 16 picks
	POST  /api/boards/{boardId}/guest/admin   - Super admin board actions

Admin token routes are wrapped in middleware.RequireConfig. The whole mux is
wrapped in rs/cors; CORS_ORIGINS restricts origins, otherwise any origin may
embed the board.
*/
package router
