// Package events carries hunt progress between the engine and whatever
// front end is watching it.
package events

import (
	"sync"
	"time"
)

// Bus provides publish/subscribe for hunt events.
type Bus interface {
	Publish(event Event)
	Subscribe(filter ...EventType) <-chan Event
	Unsubscribe(ch <-chan Event)
}

type subscription struct {
	ch   chan Event
	only map[EventType]bool // nil means every event
}

// MemoryBus is the in-process Bus implementation.
type MemoryBus struct {
	mu   sync.Mutex
	subs []subscription
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

// Publish delivers the event to every matching subscriber. Slow
// subscribers are skipped rather than blocking a hunt step.
func (b *MemoryBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		if sub.only != nil && !sub.only[event.Type] {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel receiving events of the given types, or
// every event when no filter is given.
func (b *MemoryBus) Subscribe(filter ...EventType) <-chan Event {
	sub := subscription{ch: make(chan Event, 32)}
	if len(filter) > 0 {
		sub.only = make(map[EventType]bool, len(filter))
		for _, typ := range filter {
			sub.only[typ] = true
		}
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub.ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *MemoryBus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.ch == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(sub.ch)
			return
		}
	}
}
