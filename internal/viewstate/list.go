package viewstate

import (
	"context"
	"log/slog"
	"sync"

	"notes-app/internal/contextutil"
	"notes-app/internal/model"
	"notes-app/internal/service"
)

// ListState is what the notes list screen renders.
type ListState struct {
	Notes             []model.Note
	Order             model.Order
	OrderPanelVisible bool
}

// ListController keeps the notes list in sync with storage and applies the
// user's list intents.
type ListController struct {
	notes  service.NoteService
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu              sync.Mutex
	current         ListState
	requested       model.Order
	requestFailed   bool
	generation      uint64
	cancelSub       context.CancelFunc
	recentlyDeleted *model.Note
	closed          bool

	tasks  *taskQueue
	state  *Observable[ListState]
	events chan UIEvent
}

// NewListController creates a ListController and starts listening to the
// notes in the default order. ctx carries the logger and bounds the
// controller's background work; Close must still be called.
func NewListController(ctx context.Context, notes service.NoteService) *ListController {
	ctx, cancel := context.WithCancel(ctx)

	initial := ListState{Notes: []model.Note{}, Order: model.DefaultOrder}
	c := &ListController{
		notes:     notes,
		logger:    contextutil.LoggerFromContext(ctx).With("component", "notes_list"),
		ctx:       ctx,
		cancel:    cancel,
		current:   initial,
		requested: model.DefaultOrder,
		tasks:     newTaskQueue(),
		state:     NewObservable(initial),
		events:    make(chan UIEvent, eventBuffer),
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.tasks.run(ctx)
	}()

	c.mu.Lock()
	c.subscribeLocked(model.DefaultOrder)
	c.mu.Unlock()

	return c
}

// ChangeOrder switches the list to order. Asking for the order that was
// last asked for does nothing, unless subscribing to it failed.
func (c *ListController) ChangeOrder(order model.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || (order == c.requested && !c.requestFailed) {
		return
	}
	c.requested = order
	c.requestFailed = false
	c.subscribeLocked(order)
}

// DeleteNote deletes note and keeps it as the one note RestoreNote brings back.
func (c *ListController) DeleteNote(note model.Note) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	deleted := note
	c.recentlyDeleted = &deleted
	c.mu.Unlock()

	c.tasks.push(func(ctx context.Context) {
		if err := c.notes.DeleteNote(ctx, note); err != nil {
			c.fail(ctx, "failed to delete note", "Couldn't delete note", err)
		}
	})
}

// RestoreNote re-adds the most recently deleted note, once.
func (c *ListController) RestoreNote() {
	c.mu.Lock()
	if c.closed || c.recentlyDeleted == nil {
		c.mu.Unlock()
		return
	}
	note := *c.recentlyDeleted
	c.recentlyDeleted = nil
	c.mu.Unlock()

	c.tasks.push(func(ctx context.Context) {
		if err := c.notes.AddNote(ctx, &note); err != nil {
			c.fail(ctx, "failed to restore note", "Couldn't restore note", err)
		}
	})
}

// ToggleOrderPanel shows or hides the order selection panel.
func (c *ListController) ToggleOrderPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.current.OrderPanelVisible = !c.current.OrderPanelVisible
	c.state.Publish(c.current)
}

// State returns the current list state.
func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Updates streams list states, starting with the current one.
func (c *ListController) Updates() (<-chan ListState, func()) {
	return c.state.Subscribe()
}

// Events returns the controller's one-shot events.
func (c *ListController) Events() <-chan UIEvent {
	return c.events
}

// Close stops all background work and closes the update and event streams.
func (c *ListController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.state.Close()
	close(c.events)
}

// subscribeLocked replaces the running subscription with one for order.
// c.mu must be held.
func (c *ListController) subscribeLocked(order model.Order) {
	if c.cancelSub != nil {
		c.cancelSub()
	}
	c.generation++
	gen := c.generation

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelSub = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.collect(ctx, gen, order)
	}()
}

func (c *ListController) collect(ctx context.Context, gen uint64, order model.Order) {
	feed, err := c.notes.ListNotes(ctx, order)
	if err != nil {
		c.mu.Lock()
		if gen == c.generation {
			c.requestFailed = true
		}
		c.mu.Unlock()
		c.fail(ctx, "failed to list notes", "Couldn't load notes", err)
		return
	}

	for {
		var notes []model.Note
		select {
		case n, ok := <-feed:
			if !ok {
				return
			}
			notes = n
		case <-ctx.Done():
			return
		}

		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		c.current.Notes = notes
		c.current.Order = order
		c.state.Publish(c.current)
		c.mu.Unlock()
	}
}

// fail logs err and tells the UI, unless the work was cancelled.
func (c *ListController) fail(ctx context.Context, logMsg, userMsg string, err error) {
	if ctx.Err() != nil {
		return
	}
	c.logger.ErrorContext(ctx, logMsg, "error", err)
	c.emit(ctx, ShowMessage(userMsg))
}

func (c *ListController) emit(ctx context.Context, ev UIEvent) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
