// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the superb-owl API server.

superb-owl hosts embeddable "squares pool" boards for the Super Bowl: a 10x10
grid whose rows and columns are labelled with shuffled digits, where the owner
of the cell matching the last digits of the home and away scores wins each
quarter. The server follows the live NFL score and records quarter winners
as the game advances.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=superbowl.db go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -t postgres

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SUPERBOWL_ADMIN_TOKEN (-admin-token): enables board PATCH and reset
  - SUPERBOWL_DEFAULT_GAME_ID (-game): ESPN event id used when a board has none
  - SUPER_ADMIN_NAME (-super-admin): reserved guest name with admin actions
  - REDIS_URL (-redis): shares rate limits and the live cache across processes
  - CORS_ORIGINS (-cors), LOG_LEVEL (-log-level)
  - ESPN_BASE_URL, ESPN_TIMEOUT, LIVE_RATE_LIMIT

# Architecture

  - squares: pure board rules (score mapping, winners, picks)
  - espn: score feed client and payload normalization
  - live: per-poll reconciliation and quarter finalization
  - db: schema and the transactional board store
  - ratelimit: live endpoint limiter and payload cache (memory or Redis)
  - handlers, router, middleware: HTTP surface
  - auth, cliparse, metrics, models: supporting packages

See package documentation for each component.
*/
package main
