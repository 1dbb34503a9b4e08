// Package registry provides the concurrent connection-id → nickname mapping
// shared across every dispatched command.
package registry

import (
	"sync"

	"github.com/google/uuid"
)

// Anonymous is the nickname sentinel returned for any connection id that has
// never called NICK.
const Anonymous = "Anonymous"

// Users is a concurrent map from connection identity to nickname. Reads may
// proceed concurrently with other reads; writes are mutually exclusive and
// never observed partially by a concurrent read.
type Users struct {
	mu    sync.RWMutex
	names map[uuid.UUID]string
}

// New creates an empty Users registry.
func New() *Users {
	return &Users{names: make(map[uuid.UUID]string)}
}

// Set records nick as the nickname for id, replacing any previous value.
func (u *Users) Set(id uuid.UUID, nick string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.names[id] = nick
}

// Get returns the nickname registered for id, or Anonymous if id has no
// recorded nickname (including if it was never registered at all).
func (u *Users) Get(id uuid.UUID) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if nick, ok := u.names[id]; ok {
		return nick
	}
	return Anonymous
}

// Remove deletes id from the registry. Removing an unknown id is a no-op.
func (u *Users) Remove(id uuid.UUID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.names, id)
}

// Has reports whether id currently has a recorded entry. A default
// "Anonymous" entry counts as recorded; Get alone cannot tell it apart from
// an absent id.
func (u *Users) Has(id uuid.UUID) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.names[id]
	return ok
}
