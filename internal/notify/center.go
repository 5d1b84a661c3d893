package notify

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Kind classifies a notification for rendering.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindInfo
)

// Notification is one ephemeral toast. IDs are unique per creation;
// two pushes with identical content still yield two distinct entries.
type Notification struct {
	ID        string
	Kind      Kind
	Title     string
	Message   string
	CreatedAt time.Time
}

// ExpiredMsg is a tea.Msg sent when a notification's lifetime has
// elapsed. The app routes it back to Dismiss.
type ExpiredMsg struct {
	ID string
}

// Center is an ordered queue of live notifications. Pushes may come
// from commands settling on runtime goroutines, so access is guarded.
type Center struct {
	mu    sync.Mutex
	items []Notification
	ttl   time.Duration
}

// NewCenter creates a Center whose notifications expire after ttl.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Center{ttl: ttl}
}

// Push appends a notification with a fresh unique ID and returns a
// command that expires it after the configured lifetime. Callers
// never see the ID; dismissal before expiry happens through the
// rendered queue.
func (c *Center) Push(kind Kind, title, message string) tea.Cmd {
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()

	id := n.ID
	return tea.Tick(c.ttl, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Dismiss removes the notification with the given ID. Dismissing an
// ID that is no longer (or never was) present is a no-op.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// DismissOldest drops the front of the queue, if any.
func (c *Center) DismissOldest() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) > 0 {
		c.items = c.items[1:]
	}
}

// Items returns the live notifications, oldest first.
func (c *Center) Items() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of live notifications.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
