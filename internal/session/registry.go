package session

import (
	"sync"
	"time"
)

// Registry tracks live session machines by ID for the duration of the
// process. Finished sessions are removed once their result is collected;
// nothing here outlives the service (history persistence is the repository's
// job).
type Registry struct {
	mu           sync.Mutex
	machines     map[string]*Machine
	advanceDelay time.Duration
}

func NewRegistry(advanceDelay time.Duration) *Registry {
	return &Registry{
		machines:     make(map[string]*Machine),
		advanceDelay: advanceDelay,
	}
}

// Create registers a fresh machine under the given ID.
func (r *Registry) Create(id string) *Machine {
	m := NewMachine(r.advanceDelay)
	r.mu.Lock()
	r.machines[id] = m
	r.mu.Unlock()
	return m
}

func (r *Registry) Get(id string) (*Machine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.machines[id]
	return m, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.machines, id)
	r.mu.Unlock()
}
