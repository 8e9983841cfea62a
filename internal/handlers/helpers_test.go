package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"notes-app/internal/service"
	"notes-app/internal/storage"
	"notes-app/internal/viewstate"
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

// newTestNotesHandler wires a NotesHandler to a live list controller.
func newTestNotesHandler(t *testing.T, notes service.NoteService) *NotesHandler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	list := viewstate.NewListController(ctx, notes)
	t.Cleanup(list.Close)

	h := NewNotesHandler(notes, list)
	go h.Run(ctx)
	return h
}

// newRequest builds a request with chi URL params set.
func newRequest(method, target, body string, params map[string]string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
