// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Request headers carrying identity
const (
	GuestNameHeader  = "X-Superbowl-Guest-Name"
	AdminTokenHeader = "X-Admin-Token"
)

var (
	ErrInvalidAdminKey   = errors.New("invalid admin key")
	ErrMissingAdminToken = errors.New("admin token required")
	ErrNotConfigured     = errors.New("admin token not configured")
)

// GenerateID returns a new random UUID string
func GenerateID() string {
	return uuid.NewString()
}

// GenerateBoardKey creates an HMAC-based admin key scoped to one board.
// It is deterministic, so it never needs to be stored.
func GenerateBoardKey(boardID, adminToken string) string {
	h := hmac.New(sha256.New, []byte(adminToken))
	h.Write([]byte(boardID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey accepts either the global admin token or the board's scoped key
func ValidateAdminKey(boardID, provided, adminToken string) error {
	if adminToken == "" {
		return ErrNotConfigured
	}
	if provided == "" {
		return ErrMissingAdminToken
	}
	if hmac.Equal([]byte(provided), []byte(adminToken)) {
		return nil
	}
	if hmac.Equal([]byte(provided), []byte(GenerateBoardKey(boardID, adminToken))) {
		return nil
	}
	return ErrInvalidAdminKey
}

// HashIP creates a one-way hash of an IP address so rate limit keys
// never hold raw client addresses
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) are enough for bucketing
	return hex.EncodeToString(sum[:8])
}
