// Package session broadcasts authentication state changes to interested connections.
//
// Handlers publish an Event whenever a user signs in, signs out or edits their profile.
// Long lived connections subscribe for their user on open and unsubscribe on close.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names an authentication state change.
type EventType string

// Supported event types.
const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventProfileUpdated EventType = "profile_updated"
)

// Event describes a change in a user's session.
type Event struct {
	Type   EventType `json:"type"`
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, userID uuid.UUID, email, role string) Event {
	return Event{Type: t, UserID: userID, Email: email, Role: role, At: time.Now().UTC()}
}

// Broker fans events out to subscribers of the same user.
type Broker interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe registers fn for userID's events. Calling the returned function removes
	// the subscription; it is safe to call more than once.
	Subscribe(userID uuid.UUID, fn func(Event)) (unsubscribe func())
}

// registry keeps the local callbacks per user.
type registry struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uuid.UUID]map[uint64]func(Event)
}

func newRegistry() *registry {
	return &registry{subs: make(map[uuid.UUID]map[uint64]func(Event))}
}

// add registers fn and reports whether it is the first subscriber for userID.
func (r *registry) add(userID uuid.UUID, fn func(Event)) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	byID, ok := r.subs[userID]
	if !ok {
		byID = make(map[uint64]func(Event))
		r.subs[userID] = byID
	}
	byID[r.nextID] = fn
	return r.nextID, len(byID) == 1
}

// remove drops a subscription and reports whether userID has no subscribers left.
func (r *registry) remove(userID uuid.UUID, id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.subs[userID]
	if !ok {
		return false
	}
	if _, ok := byID[id]; !ok {
		return false
	}
	delete(byID, id)
	if len(byID) == 0 {
		delete(r.subs, userID)
		return true
	}
	return false
}

func (r *registry) deliver(event Event) {
	r.mu.RLock()
	fns := make([]func(Event), 0, len(r.subs[event.UserID]))
	for _, fn := range r.subs[event.UserID] {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (r *registry) count(userID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[userID])
}

// MemoryBroker delivers events within a single process.
type MemoryBroker struct {
	reg *registry
}

// NewMemoryBroker returns an empty in-process broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{reg: newRegistry()}
}

// Publish delivers event synchronously to every local subscriber of its user.
func (b *MemoryBroker) Publish(_ context.Context, event Event) error {
	b.reg.deliver(event)
	return nil
}

// Subscribe implements Broker.
func (b *MemoryBroker) Subscribe(userID uuid.UUID, fn func(Event)) func() {
	id, _ := b.reg.add(userID, fn)
	var once sync.Once
	return func() {
		once.Do(func() { b.reg.remove(userID, id) })
	}
}

// Subscribers returns the number of live subscriptions for userID.
func (b *MemoryBroker) Subscribers(userID uuid.UUID) int {
	return b.reg.count(userID)
}
