// Package bus is the in-process event bus for progression events.
// The engine publishes after each mutating operation; any number of
// subscribers (stat panels, the SSE feed) may attach.
package bus

import (
	"sync"

	"github.com/ember-labs/ember/internal/domain"
)

// defaultBuffer is the per-subscriber channel depth. Slow subscribers
// drop events rather than block the publisher.
const defaultBuffer = 16

// Bus fans progression events out to subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan domain.Event
	next int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan domain.Event)}
}

// Subscribe registers a new subscriber and returns its channel plus an
// unsubscribe function. The channel is closed on unsubscribe.
func (b *Bus) Subscribe() (<-chan domain.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan domain.Event, defaultBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber. Never blocks: a
// subscriber with a full buffer misses the event.
func (b *Bus) Publish(e domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// SubscriberCount reports how many subscribers are attached.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
