// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package squares holds the board rules: mapping scores to cells, resolving
// cell owners, detecting quarter transitions and the guest pick state
// machine. Everything here is pure; the db package applies the rules inside
// transactions.
package squares
