package events

import "sync"

// Bus fans events out to in-process subscribers.
// Slow subscribers miss events rather than stall the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel receiving future events, buffered by size
func (b *Bus) Subscribe(size int) <-chan Event {
	ch := make(chan Event, size)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers ev to every subscriber with room for it
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close closes every subscriber channel
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

// Publisher is anything that accepts events without blocking
type Publisher interface {
	Publish(ev Event)
}

// Fanout publishes to several publishers in order
type Fanout []Publisher

// Publish implements Publisher
func (f Fanout) Publish(ev Event) {
	for _, p := range f {
		p.Publish(ev)
	}
}
