// Package notify implements the notification relay: a bounded queue of
// transient user-facing messages, decoupled from the components that raise
// them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification for display
type Type string

const (
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Notification is one transient user-facing message
type Notification struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Message     string    `json:"message"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// DefaultCapacity bounds the queue; the oldest entries are dropped first
const DefaultCapacity = 100

// Relay queues notifications until a consumer drains them.
// Safe for concurrent use; publishers never block and never learn who reads.
type Relay struct {
	mu       sync.Mutex
	queue    []Notification
	capacity int
}

// NewRelay creates a relay with the default capacity
func NewRelay() *Relay {
	return &Relay{capacity: DefaultCapacity}
}

// NewRelayWithCapacity creates a relay holding at most capacity entries
func NewRelayWithCapacity(capacity int) *Relay {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Relay{capacity: capacity}
}

// Publish enqueues a notification and returns its assigned ID.
// When the queue is full the oldest entry is dropped.
func (r *Relay) Publish(t Type, message, description string) string {
	n := Notification{
		ID:          uuid.New().String(),
		Type:        t,
		Message:     message,
		Description: description,
		Timestamp:   time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.queue = append(r.queue, n)
	if len(r.queue) > r.capacity {
		r.queue = r.queue[len(r.queue)-r.capacity:]
	}
	return n.ID
}

// Error publishes an error notification
func (r *Relay) Error(message, description string) string {
	return r.Publish(TypeError, message, description)
}

// Success publishes a success notification
func (r *Relay) Success(message, description string) string {
	return r.Publish(TypeSuccess, message, description)
}

// Drain returns all queued notifications in publish order and empties the
// queue. Returns an empty slice, never nil, so handlers can encode it
// directly.
func (r *Relay) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.queue
	if out == nil {
		out = []Notification{}
	}
	r.queue = nil
	return out
}

// Remove drops a single notification by ID
func (r *Relay) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.queue {
		if n.ID == id {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			return
		}
	}
}

// Clear empties the queue
func (r *Relay) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = nil
}

// Len reports the number of queued notifications
func (r *Relay) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}
