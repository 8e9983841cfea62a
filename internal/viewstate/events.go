package viewstate

import (
	"context"
	"sync"
)

// EventKind identifies a one-shot UI event.
type EventKind int

const (
	// EventSaved reports that the edited note was stored.
	EventSaved EventKind = iota + 1
	// EventShowMessage asks the UI to show Message to the user.
	EventShowMessage
)

func (k EventKind) String() string {
	switch k {
	case EventSaved:
		return "saved"
	case EventShowMessage:
		return "show_message"
	default:
		return "unknown"
	}
}

// UIEvent is a one-shot message from a controller to its UI.
type UIEvent struct {
	Kind    EventKind
	Message string
}

// ShowMessage builds an EventShowMessage event.
func ShowMessage(msg string) UIEvent {
	return UIEvent{Kind: EventShowMessage, Message: msg}
}

const eventBuffer = 16

// taskQueue runs submitted funcs one at a time in submission order.
type taskQueue struct {
	mu      sync.Mutex
	pending []func(context.Context)
	wake    chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{wake: make(chan struct{}, 1)}
}

func (q *taskQueue) push(fn func(context.Context)) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *taskQueue) pop() (func(context.Context), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, false
	}
	fn := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return fn, true
}

// run executes tasks until ctx is done.
func (q *taskQueue) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if fn, ok := q.pop(); ok {
			fn(ctx)
			continue
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return
		}
	}
}
