package server

import (
	"sync"
	"time"
)

// Registry tracks connected clients so a process shutdown can notify them
// and wait for them to leave.
type Registry struct {
	mu     sync.RWMutex
	nextID int
	notify map[int]chan struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{nextID: 1, notify: make(map[int]chan struct{})}
}

// Register adds a client. The returned channel closes when shutdown begins.
func (r *Registry) Register() (int, <-chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	ch := make(chan struct{})
	r.notify[id] = ch
	return id, ch
}

// Unregister removes a client. Unknown ids are ignored.
func (r *Registry) Unregister(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notify, id)
}

// Len returns the number of connected clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notify)
}

// Shutdown notifies every connected client and waits for all of them to
// unregister, or for timeout. Safe to call more than once.
func (r *Registry) Shutdown(timeout time.Duration) {
	r.mu.Lock()
	for _, ch := range r.notify {
		select {
		case <-ch:
		default:
			close(ch)
		}
	}
	r.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Len() == 0 {
			return
		}
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
