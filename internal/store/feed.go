package store

import (
	"sync"

	"github.com/google/uuid"
)

// Feed is an in-process change notification stream. Publish calls every
// handler synchronously on the publishing goroutine, in no particular order.
// Handlers that do slow work should hand it off.
type Feed[T any] struct {
	mu       sync.RWMutex
	handlers map[string]func(T)
}

// NewFeed returns an empty feed.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{handlers: make(map[string]func(T))}
}

// Subscribe registers handler and returns a function that removes it.
// The returned function is safe to call more than once.
func (f *Feed[T]) Subscribe(handler func(T)) (unsubscribe func()) {
	id := uuid.NewString()

	f.mu.Lock()
	f.handlers[id] = handler
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

// Publish delivers event to all current subscribers.
func (f *Feed[T]) Publish(event T) {
	f.mu.RLock()
	handlers := make([]func(T), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// Len returns the number of subscribers.
func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.handlers)
}
