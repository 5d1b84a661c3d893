package syncmon

import (
	"sync"

	"github.com/dtran/maildash/internal/model"
)

// StatusStore caches the last known sync status per account ID. It is
// written only by the polling subsystem and read by views and the
// fast-timer gate. Every write is a wholesale swap: a poll batch is
// assembled off-store and replaces the whole mapping at once, so
// readers never observe a partially applied batch. An account with no
// entry is implicitly idle.
type StatusStore struct {
	mu       sync.RWMutex
	statuses map[string]model.SyncStatus
}

// NewStatusStore creates an empty store.
func NewStatusStore() *StatusStore {
	return &StatusStore{statuses: make(map[string]model.SyncStatus)}
}

// ReplaceAll swaps the entire mapping. Accounts absent from entries
// are dropped, reverting them to implicit idle. The argument is
// copied, so the caller may keep mutating its map.
func (s *StatusStore) ReplaceAll(entries map[string]model.SyncStatus) {
	next := make(map[string]model.SyncStatus, len(entries))
	for id, st := range entries {
		next[id] = st
	}

	s.mu.Lock()
	s.statuses = next
	s.mu.Unlock()
}

// Get returns the cached status for an account, or ok=false when no
// record exists.
func (s *StatusStore) Get(accountID string) (model.SyncStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.statuses[accountID]
	return st, ok
}

// StateFor returns the derived state for an account, mapping a
// missing record to the explicit idle state.
func (s *StatusStore) StateFor(accountID string) model.SyncState {
	st, ok := s.Get(accountID)
	if !ok {
		return model.StateIdle
	}
	return st.State
}

// AnyRunning reports whether at least one cached status is RUNNING.
// The fast poll timer uses this to decide whether a tick does any
// network work at all.
func (s *StatusStore) AnyRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.statuses {
		if st.State == model.StateRunning {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current mapping.
func (s *StatusStore) Snapshot() map[string]model.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.SyncStatus, len(s.statuses))
	for id, st := range s.statuses {
		out[id] = st
	}
	return out
}

// Len returns the number of cached status records.
func (s *StatusStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.statuses)
}
