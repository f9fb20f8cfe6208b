// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"sync"

	"github.com/danielhkuo/superb-owl/models"
)

// SnapshotMemory holds the last game snapshot seen per board for the life of
// the process. Entries are never evicted. Each process keeps its own copy;
// quarter finalization converges because the upsert is keyed by
// (board, quarter).
//
// The mutex only makes the map safe for concurrent use. It is not held across
// a reconciliation step, so two pollers may observe the same previous
// snapshot and both finalize the same quarter.
type SnapshotMemory struct {
	mu      sync.RWMutex
	byBoard map[string]models.GameSnapshot
}

func NewSnapshotMemory() *SnapshotMemory {
	return &SnapshotMemory{byBoard: make(map[string]models.GameSnapshot)}
}

// Previous returns the last snapshot stored for the board, or nil.
func (m *SnapshotMemory) Previous(boardID string) *models.GameSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.byBoard[boardID]
	if !ok {
		return nil
	}
	return &snap
}

func (m *SnapshotMemory) Store(boardID string, snap models.GameSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byBoard[boardID] = snap
}
