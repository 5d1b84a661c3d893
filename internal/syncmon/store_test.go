package syncmon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtran/maildash/internal/model"
)

func TestReplaceAllDropsAbsentAccounts(t *testing.T) {
	s := NewStatusStore()

	s.ReplaceAll(map[string]model.SyncStatus{
		"a": {AccountID: "a", State: model.StateRunning},
		"b": {AccountID: "b", State: model.StateCompleted},
	})
	assert.Equal(t, 2, s.Len())

	// The next batch no longer contains "b"; it must revert to idle.
	s.ReplaceAll(map[string]model.SyncStatus{
		"a": {AccountID: "a", State: model.StatePaused},
	})

	require.Equal(t, 1, s.Len())
	_, ok := s.Get("b")
	assert.False(t, ok)
	assert.Equal(t, model.StateIdle, s.StateFor("b"))

	st, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.StatePaused, st.State)
}

func TestReplaceAllCopiesInput(t *testing.T) {
	s := NewStatusStore()

	batch := map[string]model.SyncStatus{
		"a": {AccountID: "a", State: model.StateRunning},
	}
	s.ReplaceAll(batch)

	// Mutating the caller's map after the swap must not leak through.
	batch["a"] = model.SyncStatus{AccountID: "a", State: model.StateError}
	delete(batch, "a")

	st, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.StateRunning, st.State)
}

func TestAnyRunning(t *testing.T) {
	s := NewStatusStore()
	assert.False(t, s.AnyRunning())

	s.ReplaceAll(map[string]model.SyncStatus{
		"a": {State: model.StateCompleted},
		"b": {State: model.StatePaused},
	})
	assert.False(t, s.AnyRunning())

	s.ReplaceAll(map[string]model.SyncStatus{
		"a": {State: model.StateCompleted},
		"b": {State: model.StateRunning},
	})
	assert.True(t, s.AnyRunning())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStatusStore()
	s.ReplaceAll(map[string]model.SyncStatus{
		"a": {State: model.StateRunning},
	})

	snap := s.Snapshot()
	delete(snap, "a")

	assert.Equal(t, 1, s.Len())
}
