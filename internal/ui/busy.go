package ui

import (
	"errors"
	"sync"
)

// ErrBusy is returned when a trigger fires while its previous request is
// still outstanding.
var ErrBusy = errors.New("a request is already in progress")

// Busy disables a trigger while its work runs. The trigger is re-enabled
// even when the work fails or panics.
type Busy struct {
	mu     sync.Mutex
	active map[string]bool
}

// NewBusy creates an idle guard.
func NewBusy() *Busy {
	return &Busy{active: make(map[string]bool)}
}

// Run executes fn unless key is already running.
func (b *Busy) Run(key string, fn func() error) error {
	b.mu.Lock()
	if b.active[key] {
		b.mu.Unlock()
		return ErrBusy
	}
	b.active[key] = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.active, key)
		b.mu.Unlock()
	}()
	return fn()
}
