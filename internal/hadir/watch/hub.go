// Package watch provides cancellable snapshot streams: each subscriber
// receives the current value on subscription and the latest value after
// every publish. Intermediate values may be coalesced away; a subscriber
// is only guaranteed to eventually observe the newest snapshot.
package watch

import "sync"

// Hub fans a stream of snapshots out to any number of subscribers.
// The zero value is not usable; call NewHub.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[uint64]chan T
	next uint64
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[uint64]chan T)}
}

// Subscribe registers a subscriber and queues initial as its first
// delivery. The returned cancel func removes the subscriber and closes
// its channel; it is safe to call more than once and must be called even
// if no value was ever received, or the subscriber leaks.
func (h *Hub[T]) Subscribe(initial T) (<-chan T, func()) {
	// Buffer of one: the pending delivery is always the newest snapshot,
	// never a backlog.
	ch := make(chan T, 1)
	ch <- initial

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish replaces any undelivered snapshot with v for every subscriber.
// It never blocks on slow consumers.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
			// Drop the stale pending snapshot, then queue the fresh one.
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

// Len reports the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
