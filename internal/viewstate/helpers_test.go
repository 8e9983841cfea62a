package viewstate

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"notes-app/internal/model"
	"notes-app/internal/service"
	"notes-app/internal/storage"

	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestService returns a NoteService backed by a fresh SQLite database.
func newTestService(t *testing.T) service.NoteService {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, storage.Migrate(context.Background(), db))

	return service.NewNoteService(storage.NewNoteRepo(db))
}

// nextEvent waits for the next one-shot event.
func nextEvent(t *testing.T, events <-chan UIEvent) UIEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "events channel closed unexpectedly")
		return ev
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for event")
	}
	return UIEvent{}
}

func noteTitles(notes []model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func feedOf(ch chan []model.Note) <-chan []model.Note {
	return ch
}
