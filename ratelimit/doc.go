// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ratelimit limits live polling per board and client and keeps the
// last live payload per board. Both come in an in-process and a Redis
// flavor; main picks Redis when REDIS_URL is set.
package ratelimit
