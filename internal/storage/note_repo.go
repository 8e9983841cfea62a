package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notes-app/internal/contextutil"
	"notes-app/internal/model"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// NoteRepo provides methods for note operations and live note feeds.
type NoteRepo struct {
	db      *sql.DB
	changes *changeNotifier
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{
		db:      db,
		changes: newChangeNotifier(),
	}
}

// GetByID gets a note by its ID.
// Returns nil and ErrNotFound if not found.
func (r *NoteRepo) GetByID(ctx context.Context, id int64) (*model.Note, error) {
	var note model.Note
	var color int64

	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, content, timestamp, color FROM notes WHERE id = ?",
		id,
	).Scan(&note.ID, &note.Title, &note.Content, &note.Timestamp, &color)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}

	note.Color = model.Color(uint32(color))
	return &note, nil
}

// List returns every stored note in storage order.
func (r *NoteRepo) List(ctx context.Context) ([]model.Note, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, content, timestamp, color FROM notes")
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	notes := []model.Note{}
	for rows.Next() {
		var note model.Note
		var color int64
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.Timestamp, &color); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		note.Color = model.Color(uint32(color))
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

// Upsert inserts a new note or replaces an existing one.
// A note without ID gets a new ID assigned, which is written back to note.
// A note with an ID replaces the row with that ID, or is inserted under it.
func (r *NoteRepo) Upsert(ctx context.Context, note *model.Note) error {
	if note.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			"INSERT INTO notes (title, content, timestamp, color) VALUES (?, ?, ?, ?)",
			note.Title, note.Content, note.Timestamp, int64(note.Color),
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get note id: %w", err)
		}
		note.ID = id
	} else {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO notes (id, title, content, timestamp, color)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			 title = excluded.title, content = excluded.content,
			 timestamp = excluded.timestamp, color = excluded.color`,
			note.ID, note.Title, note.Content, note.Timestamp, int64(note.Color),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert note: %w", err)
		}
	}

	r.changes.publish()
	return nil
}

// Delete removes the note with the given ID. Deleting a missing note is a no-op.
func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		r.changes.publish()
	}
	return nil
}

// SubscribeAll returns a feed of the full note table. The current notes are
// sent right away and again after every change made through this repo.
// The channel is closed once ctx is done.
func (r *NoteRepo) SubscribeAll(ctx context.Context) (<-chan []model.Note, error) {
	// Subscribe before the first read so no change can slip in between.
	signal := r.changes.subscribe()

	notes, err := r.List(ctx)
	if err != nil {
		r.changes.unsubscribe(signal)
		return nil, err
	}

	out := make(chan []model.Note, 1)
	go func() {
		defer close(out)
		defer r.changes.unsubscribe(signal)

		logger := contextutil.LoggerFromContext(ctx)
		pending := true
		for {
			if pending {
				select {
				case out <- notes:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}

			next, err := r.List(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.ErrorContext(ctx, "failed to refresh note feed", "error", err)
				pending = false
				continue
			}
			notes, pending = next, true
		}
	}()

	return out, nil
}

// Subscribers returns the number of open feeds.
func (r *NoteRepo) Subscribers() int {
	return r.changes.count()
}

