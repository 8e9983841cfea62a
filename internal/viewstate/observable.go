// Package viewstate holds the presentation state of the notes list and the
// note editor, and the controllers that drive it from user intents.
package viewstate

import "sync"

// Observable holds a current value and fans every change out to its
// subscribers. A slow subscriber only ever sees the latest value.
type Observable[T any] struct {
	mu          sync.Mutex
	value       T
	subscribers map[chan T]struct{}
	closed      bool
}

// NewObservable creates an Observable holding initial.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value:       initial,
		subscribers: make(map[chan T]struct{}),
	}
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Publish replaces the current value and notifies all subscribers.
func (o *Observable[T]) Publish(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.value = v
	for ch := range o.subscribers {
		offerLatest(ch, v)
	}
}

// Subscribe returns a channel that receives the current value right away and
// every later one, plus a func that ends the subscription and closes the
// channel. After Close the returned channel is already closed.
func (o *Observable[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		close(ch)
		return ch, func() {}
	}
	ch <- o.value
	o.subscribers[ch] = struct{}{}

	return ch, func() { o.unsubscribe(ch) }
}

func (o *Observable[T]) unsubscribe(ch chan T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.subscribers[ch]; ok {
		delete(o.subscribers, ch)
		close(ch)
	}
}

// Close closes every subscriber channel. Further publishes are ignored.
func (o *Observable[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	for ch := range o.subscribers {
		close(ch)
		delete(o.subscribers, ch)
	}
}

// offerLatest puts v into the single-slot channel, replacing a value the
// subscriber has not read yet.
func offerLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
