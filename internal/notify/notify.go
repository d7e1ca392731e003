// Package notify keeps the single transient notification shown to the reader.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays visible
const DefaultTTL = 5 * time.Second

// Kind styles a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Notification is a transient message
type Notification struct {
	ID        uint64    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Listener is called for every new notification
type Listener func(Notification)

// Center holds at most one live notification. Showing a new one replaces
// the previous; it disappears on its own after the TTL or when dismissed.
type Center struct {
	ttl       time.Duration
	now       func() time.Time
	listeners []Listener

	mu      sync.Mutex
	seq     uint64
	current *Notification
}

// NewCenter creates a notification center. A non-positive ttl means DefaultTTL.
func NewCenter(ttl time.Duration, listeners ...Listener) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:       ttl,
		now:       time.Now,
		listeners: listeners,
	}
}

// Show replaces the current notification and returns the new one
func (c *Center) Show(kind Kind, message string) Notification {
	c.mu.Lock()
	c.seq++
	now := c.now()
	n := Notification{
		ID:        c.seq,
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.current = &n
	c.mu.Unlock()

	for _, l := range c.listeners {
		l(n)
	}
	return n
}

// Current returns the live notification, if any
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Notification{}, false
	}
	if !c.now().Before(c.current.ExpiresAt) {
		c.current = nil
		return Notification{}, false
	}
	return *c.current, true
}

// Dismiss closes the notification with the given id.
// It reports false when that notification was already replaced or gone.
func (c *Center) Dismiss(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.current.ID != id {
		return false
	}
	c.current = nil
	return true
}
