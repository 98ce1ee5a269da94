package queue

import (
	"sync"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
)

// ListenerID identifies a registered listener for Off.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	fn core.Listener
}

// bus maps event types to listeners and fans events out to channel subscribers.
type bus struct {
	mu        sync.RWMutex
	nextID    ListenerID
	listeners map[core.EventType][]listenerEntry
	subs      []chan core.Event
}

func newBus() *bus {
	return &bus{listeners: make(map[core.EventType][]listenerEntry)}
}

func (b *bus) on(t core.EventType, fn core.Listener) ListenerID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.listeners[t] = append(b.listeners[t], listenerEntry{id: b.nextID, fn: fn})
	return b.nextID
}

func (b *bus) off(t core.EventType, id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.listeners[t]
	for i, e := range entries {
		if e.id == id {
			b.listeners[t] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

func (b *bus) subscribe(buffer int) <-chan core.Event {
	ch := make(chan core.Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *bus) unsubscribe(ch <-chan core.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// publish calls listeners synchronously, in registration order, then
// offers the event to every channel subscriber without blocking.
func (b *bus) publish(e core.Event) {
	b.mu.RLock()
	entries := make([]listenerEntry, len(b.listeners[e.Type]))
	copy(entries, b.listeners[e.Type])
	subs := make([]chan core.Event, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, entry := range entries {
		entry.fn(e)
	}

	for _, ch := range subs {
		select {
		case ch <- e:
		default:
			// Drop if full - this prevents blocking on slow consumers
		}
	}
}
