// Package event dispatches registry and account changes to in-process
// listeners (audit log, metrics).
package event

import (
	"context"
	"sync"
)

// Name identifies an event.
type Name string

const (
	UserRegistered Name = "user.registered"
	CafeAdded      Name = "cafe.added"
	CafeRemoved    Name = "cafe.removed"
)

// Payload describes what changed and who changed it.
type Payload struct {
	ActorID  uint
	UserID   uint
	CafeID   uint
	CafeName string
}

// Handler receives a fired event. It runs on the caller's goroutine and must
// not block.
type Handler func(ctx context.Context, name Name, p Payload)

// Bus holds listeners by event name. A nil *Bus drops every event.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
}

func New() *Bus {
	return &Bus{handlers: map[Name][]Handler{}}
}

// Listen registers a handler for the given events.
func (b *Bus) Listen(h Handler, names ...Name) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		b.handlers[n] = append(b.handlers[n], h)
	}
}

// Fire dispatches an event synchronously to all registered listeners.
func (b *Bus) Fire(ctx context.Context, name Name, p Payload) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[name]))
	copy(hs, b.handlers[name])
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, name, p)
	}
}
