// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs method, path, status and duration_ms through zerolog.

# Config Guard

	middleware.RequireConfig(cfg.CheckAdminToken, handler)

Answers 500 CONFIG_ERROR before the handler runs when the check fails.

# Envelope Helpers

	middleware.OK(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusConflict, "Cell is already taken.", "CELL_TAKEN")

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
