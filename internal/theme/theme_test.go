package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtran/maildash/internal/model"
)

func TestStateColorTotal(t *testing.T) {
	states := []model.SyncState{
		model.StateRunning, model.StatePaused, model.StateCompleted,
		model.StateError, model.StateIdle,
	}

	seen := map[string]bool{}
	for _, s := range states {
		c := StateColor(s)
		assert.NotEmpty(t, c.Dark, "state %s has no color", s)
		assert.NotEmpty(t, StateIcon(s), "state %s has no icon", s)
		seen[c.Dark] = true
	}

	// Idle shares the fallback color; the four server states are
	// visually distinct from each other.
	assert.GreaterOrEqual(t, len(seen), 4)

	// Unknown states degrade to the idle treatment.
	assert.Equal(t, StateColor(model.StateIdle), StateColor(model.SyncState("???")))
	assert.Equal(t, StateIcon(model.StateIdle), StateIcon(model.SyncState("???")))
}

func TestStateBadgeContainsStateName(t *testing.T) {
	badge := StateBadge(model.StateRunning)
	assert.True(t, strings.Contains(badge, "RUNNING"))
}
