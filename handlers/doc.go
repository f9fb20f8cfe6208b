// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the superb-owl API.

# Handler Types

  - BoardHandler: board config read, admin patch and quarter winner reset
  - LiveHandler: the polled live snapshot, rate limited per board and client
  - GuestHandler: claim, pick, lock and super admin actions

Handlers are created via constructor functions:

	boardHandler := handlers.NewBoardHandler(store, cfg)

# Errors

Store errors are sentinels from package squares. writeStoreError maps them
to status and code in one place:

	OWNER_LIMIT_REACHED, INITIALS_TAKEN, CELL_TAKEN, PICK_LIMIT_REACHED,
	PICKS_LOCKED, PICKS_INCOMPLETE, BOARD_BUSY  → 409
	ADMIN_FORBIDDEN, FORBIDDEN                  → 403
	OWNER_NOT_FOUND                             → 404
	INVALID_CELL                                → 400

Anything else is logged and answered with 500 INTERNAL.

# Live Rate Limiting

A client polling a board more often than the configured window gets the
board's last payload with meta.stale and meta.rateLimited set, or 429
RATE_LIMITED when nothing has been cached yet.
*/
package handlers
