package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushAssignsDistinctIDs(t *testing.T) {
	c := NewCenter(time.Second)

	// Identical content twice must yield two live entries.
	c.Push(KindSuccess, "Sync Started", "Email sync has started.")
	c.Push(KindSuccess, "Sync Started", "Email sync has started.")

	items := c.Items()
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestItemsOldestFirst(t *testing.T) {
	c := NewCenter(time.Second)

	c.Push(KindInfo, "first", "")
	c.Push(KindInfo, "second", "")
	c.Push(KindError, "third", "")

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
	assert.Equal(t, "third", items[2].Title)
}

func TestDismiss(t *testing.T) {
	c := NewCenter(time.Second)

	c.Push(KindInfo, "keep", "")
	c.Push(KindInfo, "drop", "")

	items := c.Items()
	require.Len(t, items, 2)

	c.Dismiss(items[1].ID)
	remaining := c.Items()
	require.Len(t, remaining, 1)
	assert.Equal(t, "keep", remaining[0].Title)

	// Dismissing the same ID again, or an unknown one, changes nothing.
	c.Dismiss(items[1].ID)
	c.Dismiss("no-such-id")
	assert.Equal(t, 1, c.Len())
}

func TestDismissOldest(t *testing.T) {
	c := NewCenter(time.Second)

	c.DismissOldest() // empty queue is a no-op
	assert.Equal(t, 0, c.Len())

	c.Push(KindInfo, "first", "")
	c.Push(KindInfo, "second", "")

	c.DismissOldest()
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "second", items[0].Title)
}

func TestPushReturnsExpiryCommand(t *testing.T) {
	c := NewCenter(10 * time.Millisecond)

	cmd := c.Push(KindInfo, "ephemeral", "")
	require.NotNil(t, cmd)

	msg := cmd()
	expired, ok := msg.(ExpiredMsg)
	require.True(t, ok)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, items[0].ID, expired.ID)

	c.Dismiss(expired.ID)
	assert.Equal(t, 0, c.Len())
}
