package settings

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Change is delivered to subscribers after every successful write.
type Change[T any] struct {
	Updates Updates
	Config  T
}

// Hub fans changes out to in-process subscribers, in subscription order.
type Hub[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Change[T])
	log  *zap.Logger
}

func newHub[T any](log *zap.Logger) *Hub[T] {
	return &Hub[T]{subs: map[int]func(Change[T]){}, log: log}
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub[T]) Subscribe(fn func(Change[T])) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish calls every subscriber synchronously. A panicking subscriber is logged
// and does not stop delivery to the rest.
func (h *Hub[T]) Publish(c Change[T]) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change[T]), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		h.deliver(fn, c)
	}
}

func (h *Hub[T]) deliver(fn func(Change[T]), c Change[T]) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("config subscriber panicked", zap.Any("panic", r))
		}
	}()
	fn(c)
}
