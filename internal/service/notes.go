package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks notes-app/internal/service NoteStore
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_service.go -package=mocks -mock_names=NoteService=MockNoteService notes-app/internal/service NoteService

import (
	"context"
	"errors"
	"log/slog"

	"notes-app/internal/contextutil"
	"notes-app/internal/model"
	"notes-app/internal/storage"
)

// NoteStore is the persistence port used by the note use cases.
// This interface is defined from the service layer's perspective (consumer-first).
type NoteStore interface {
	// SubscribeAll streams the full set of notes, once immediately and again
	// after every change, until ctx is done.
	SubscribeAll(ctx context.Context) (<-chan []model.Note, error)
	// GetByID returns the note with the given ID or storage.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Note, error)
	// Upsert inserts the note or replaces the stored note with the same ID.
	Upsert(ctx context.Context, note *model.Note) error
	// Delete removes the note with the given ID.
	Delete(ctx context.Context, id int64) error
}

// NoteService exposes the note use cases.
type NoteService interface {
	// ListNotes streams the stored notes sorted by order until ctx is done.
	ListNotes(ctx context.Context, order model.Order) (<-chan []model.Note, error)
	// GetNote returns the note with the given ID, or nil if there is none.
	GetNote(ctx context.Context, id int64) (*model.Note, error)
	// AddNote validates and stores the note, assigning an ID to new notes.
	AddNote(ctx context.Context, note *model.Note) error
	// DeleteNote removes the note.
	DeleteNote(ctx context.Context, note model.Note) error
}

// noteService implements NoteService.
type noteService struct {
	store NoteStore
	now   func() int64
}

// NewNoteService creates a new NoteService.
func NewNoteService(store NoteStore) NoteService {
	return &noteService{
		store: store,
		now:   model.NowMillis,
	}
}

// ListNotes subscribes to the store and re-sorts every snapshot it emits.
func (s *noteService) ListNotes(ctx context.Context, order model.Order) (<-chan []model.Note, error) {
	feed, err := s.store.SubscribeAll(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to subscribe to notes", "order", order.String(), "error", err)
		return nil, storageError(err, "failed to subscribe to notes")
	}

	out := make(chan []model.Note)
	go func() {
		defer close(out)
		for notes := range feed {
			sorted := model.Sort(notes, order)
			select {
			case out <- sorted:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// GetNote returns the stored note. A missing note is not an error.
func (s *noteService) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	note, err := s.store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to get note", "id", id, "error", err)
		return nil, storageError(err, "failed to get note")
	}
	return note, nil
}

// AddNote checks the title, then the content, and only then writes the note.
func (s *noteService) AddNote(ctx context.Context, note *model.Note) error {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if model.IsBlank(note.Title) {
		logger.WarnContext(ctx, "rejected note with empty title", "id", note.ID)
		return &ValidationError{
			Field:   "title",
			Message: "The title of the note can't be empty.",
		}
	}
	if model.IsBlank(note.Content) {
		logger.WarnContext(ctx, "rejected note with empty content", "id", note.ID)
		return &ValidationError{
			Field:   "content",
			Message: "The note has no content.",
		}
	}

	if note.Timestamp == 0 {
		note.Timestamp = s.now()
	}

	if err := s.store.Upsert(ctx, note); err != nil {
		logger.ErrorContext(ctx, "failed to save note", "id", note.ID, "error", err)
		return storageError(err, "failed to save note")
	}

	logger.InfoContext(ctx, "note saved", "id", note.ID, "title_length", len(note.Title), "content_length", len(note.Content))
	return nil
}

// DeleteNote removes the note by ID.
func (s *noteService) DeleteNote(ctx context.Context, note model.Note) error {
	if err := s.store.Delete(ctx, note.ID); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to delete note", "id", note.ID, "error", err)
		return storageError(err, "failed to delete note")
	}

	slog.Default().DebugContext(ctx, "note deleted", "id", note.ID)
	return nil
}
