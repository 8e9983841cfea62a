package viewstate

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"

	"notes-app/internal/contextutil"
	"notes-app/internal/model"
	"notes-app/internal/service"
)

const (
	titleHint   = "Enter a title..."
	contentHint = "Enter some content..."

	saveFailedMessage = "Couldn't save note"
)

// TextField is an editable text with a placeholder hint.
type TextField struct {
	Text        string
	Hint        string
	HintVisible bool
}

// EditDraft is the note being edited. NoteID is 0 for a note that has not
// been stored yet.
type EditDraft struct {
	Title   TextField
	Content TextField
	Color   model.Color
	NoteID  int64
}

// EditOption configures an EditController.
type EditOption func(*editOptions)

type editOptions struct {
	color *model.Color
	rand  *rand.Rand
}

// WithInitialColor starts the draft with c instead of a random palette color.
func WithInitialColor(c model.Color) EditOption {
	return func(o *editOptions) {
		o.color = &c
	}
}

// WithRand sets the source used to pick the initial palette color.
func WithRand(r *rand.Rand) EditOption {
	return func(o *editOptions) {
		o.rand = r
	}
}

// EditController drives the note editor: it loads the note being edited,
// applies edits to the draft and saves it.
type EditController struct {
	notes  service.NoteService
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	draft  EditDraft
	closed bool

	state  *Observable[EditDraft]
	events chan UIEvent
}

// NewEditController creates an editor for the note with the given id. An id
// of 0 or less opens a new note. An existing note is loaded in the
// background; if it does not exist the draft stays a new note.
func NewEditController(ctx context.Context, notes service.NoteService, id int64, opts ...EditOption) *EditController {
	options := editOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	color := pickColor(options)
	ctx, cancel := context.WithCancel(ctx)

	draft := EditDraft{
		Title:   TextField{Hint: titleHint, HintVisible: true},
		Content: TextField{Hint: contentHint, HintVisible: true},
		Color:   color,
	}
	c := &EditController{
		notes:  notes,
		logger: contextutil.LoggerFromContext(ctx).With("component", "note_editor"),
		ctx:    ctx,
		cancel: cancel,
		draft:  draft,
		state:  NewObservable(draft),
		events: make(chan UIEvent, eventBuffer),
	}

	if id > 0 {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.load(id)
		}()
	}

	return c
}

func pickColor(o editOptions) model.Color {
	if o.color != nil {
		return *o.color
	}
	if o.rand != nil {
		return model.Palette[o.rand.IntN(len(model.Palette))]
	}
	return model.Palette[rand.IntN(len(model.Palette))]
}

func (c *EditController) load(id int64) {
	note, err := c.notes.GetNote(c.ctx, id)
	if err != nil {
		if c.ctx.Err() == nil {
			c.logger.ErrorContext(c.ctx, "failed to load note", "id", id, "error", err)
			c.emit(ShowMessage("Couldn't load note"))
		}
		return
	}
	if note == nil {
		c.logger.DebugContext(c.ctx, "note not found, editing a new note", "id", id)
		return
	}

	c.update(func(d *EditDraft) {
		d.Title.Text = note.Title
		d.Title.HintVisible = false
		d.Content.Text = note.Content
		d.Content.HintVisible = false
		d.Color = note.Color
		d.NoteID = note.ID
	})
}

// EnterTitle replaces the title text.
func (c *EditController) EnterTitle(text string) {
	c.update(func(d *EditDraft) { d.Title.Text = text })
}

// EnterContent replaces the content text.
func (c *EditController) EnterContent(text string) {
	c.update(func(d *EditDraft) { d.Content.Text = text })
}

// TitleFocusChanged shows the title hint when the field is blurred and blank.
func (c *EditController) TitleFocusChanged(focused bool) {
	c.update(func(d *EditDraft) {
		d.Title.HintVisible = !focused && model.IsBlank(d.Title.Text)
	})
}

// ContentFocusChanged shows the content hint when the field is blurred and blank.
func (c *EditController) ContentFocusChanged(focused bool) {
	c.update(func(d *EditDraft) {
		d.Content.HintVisible = !focused && model.IsBlank(d.Content.Text)
	})
}

// ChangeColor sets the note color.
func (c *EditController) ChangeColor(color model.Color) {
	c.update(func(d *EditDraft) { d.Color = color })
}

// Save stores the draft in the background and reports the outcome as an
// EventSaved or EventShowMessage event on Events. The returned channel
// receives the outcome of this call only; it is closed without a value if
// the editor is closed first.
func (c *EditController) Save() <-chan UIEvent {
	result := make(chan UIEvent, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(result)
		return result
	}
	d := c.draft
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer close(result)

		note := model.Note{
			ID:        d.NoteID,
			Title:     d.Title.Text,
			Content:   d.Content.Text,
			Timestamp: model.NowMillis(),
			Color:     d.Color,
		}
		ev := UIEvent{Kind: EventSaved}
		if err := c.notes.AddNote(c.ctx, &note); err != nil {
			ev = ShowMessage(c.saveErrorMessage(err))
		} else {
			c.update(func(d *EditDraft) { d.NoteID = note.ID })
		}

		if c.ctx.Err() == nil {
			result <- ev
		}
		c.emit(ev)
	}()

	return result
}

func (c *EditController) saveErrorMessage(err error) string {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		if vErr.Message != "" {
			return vErr.Message
		}
		return saveFailedMessage
	}
	if c.ctx.Err() == nil {
		c.logger.ErrorContext(c.ctx, "failed to save note", "error", err)
	}
	return saveFailedMessage
}

// Draft returns the current draft.
func (c *EditController) Draft() EditDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Updates streams drafts, starting with the current one.
func (c *EditController) Updates() (<-chan EditDraft, func()) {
	return c.state.Subscribe()
}

// Events returns the editor's one-shot events.
func (c *EditController) Events() <-chan UIEvent {
	return c.events
}

// Close cancels pending loads and saves and closes the streams.
func (c *EditController) Close() {
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

func (c *EditController) update(fn func(*EditDraft)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	fn(&c.draft)
	c.state.Publish(c.draft)
}

func (c *EditController) emit(ev UIEvent) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}
