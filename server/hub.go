package main

import "sync"

// hub fans values out to any number of subscribers. A slow subscriber drops
// values rather than blocking the producer.
type hub[T any] struct {
	mu   sync.RWMutex
	subs map[chan T]struct{}
}

func newHub[T any]() *hub[T] {
	return &hub[T]{subs: make(map[chan T]struct{})}
}

// subscribe registers a buffered channel and returns it with its
// unsubscribe function. Unsubscribing closes the channel.
func (h *hub[T]) subscribe(buffer int) (<-chan T, func()) {
	ch := make(chan T, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

func (h *hub[T]) broadcast(value T) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- value:
		default:
		}
	}
}
