// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity resolution and admin key utilities.

# Guests

Guests identify themselves by display name in the X-Superbowl-Guest-Name
header. Roles resolves a name once into a Guest; the configured super admin
name maps to RoleBoardAdmin:

	roles := auth.NewRoles(cfg.SuperAdminName)
	guest := roles.Resolve(r.Header.Get(auth.GuestNameHeader))
	if guest.IsBoardAdmin() { ... }

# Admin Keys

Board writes require X-Admin-Token. Either the global token or a board key
is accepted. Board keys are HMAC-SHA256 of the board id keyed by the global
token, so they never need to be stored:

	key := auth.GenerateBoardKey(boardID, adminToken)
	err := auth.ValidateAdminKey(boardID, provided, adminToken)

# IP Hashing

Rate limit keys hold a hash of the client address rather than the address:

	hash := auth.HashIP(ip, boardID)
*/
package auth
