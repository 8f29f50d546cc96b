// ABOUTME: Typed fan-out bus carrying mood snapshots from an engine to its collaborators
// ABOUTME: Handlers run synchronously in subscription order; unsubscribe is idempotent

package eventbus

import (
	"slices"
	"sync"
)

// Handler receives one published value.
type Handler[T any] func(T)

type subscriber[T any] struct {
	id int
	h  Handler[T]
}

// Bus delivers every published value to all current subscribers.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []subscriber[T]
	nextID int
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus[T]) Subscribe(h Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber[T]{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.subs = slices.DeleteFunc(b.subs, func(s subscriber[T]) bool { return s.id == id })
			b.mu.Unlock()
		})
	}
}

// Publish calls every handler with v, oldest subscription first.
// The lock is not held while handlers run, so a handler may unsubscribe itself.
func (b *Bus[T]) Publish(v T) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.h(v)
	}
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
