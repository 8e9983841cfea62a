package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"notes-app/internal/contextutil"
	"notes-app/internal/model"
	"notes-app/internal/service"
	"notes-app/internal/viewstate"
)

// NotesList is the list view-state the notes endpoints drive.
// This interface is defined from the handler's perspective (consumer-first).
type NotesList interface {
	State() viewstate.ListState
	Updates() (<-chan viewstate.ListState, func())
	Events() <-chan viewstate.UIEvent
	ChangeOrder(order model.Order)
	ToggleOrderPanel()
	DeleteNote(note model.Note)
	RestoreNote()
}

// NotesHandler serves the notes list endpoints.
type NotesHandler struct {
	notes  service.NoteService
	list   NotesList
	logger *slog.Logger

	mu        sync.RWMutex
	listeners map[chan viewstate.UIEvent]struct{}
}

// NewNotesHandler creates a new NotesHandler.
func NewNotesHandler(notes service.NoteService, list NotesList) *NotesHandler {
	return &NotesHandler{
		notes:     notes,
		list:      list,
		logger:    slog.Default(),
		listeners: make(map[chan viewstate.UIEvent]struct{}),
	}
}

// Run forwards the list's one-shot events to connected streams until the
// events channel closes or ctx is done.
func (h *NotesHandler) Run(ctx context.Context) {
	events := h.list.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.logger.InfoContext(ctx, "list event", "kind", ev.Kind.String(), "message", ev.Message)
			h.broadcast(ev)
		case <-ctx.Done():
			return
		}
	}
}

func (h *NotesHandler) subscribe() chan viewstate.UIEvent {
	ch := make(chan viewstate.UIEvent, 10)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[ch] = struct{}{}
	return ch
}

func (h *NotesHandler) unsubscribe(ch chan viewstate.UIEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, ch)
}

// broadcast sends ev to every stream; a full stream misses it.
func (h *NotesHandler) broadcast(ev viewstate.UIEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// GetState returns the current list state.
//
// swagger:route GET /api/notes notes getNotes
//
// Returns the notes in the current order together with the order panel state.
//
// responses:
//
//	'200':
//	  description: Current list state
//	  schema:
//	    "$ref": "#/definitions/ListStateResponse"
func (h *NotesHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, toListStateResponse(h.list.State()))
}

// Stream sends list states and list messages as Server-Sent Events.
func (h *NotesHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	updates, unsubscribe := h.list.Updates()
	defer unsubscribe()
	messages := h.subscribe()
	defer h.unsubscribe(messages)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		var (
			event string
			data  any
		)
		select {
		case state, ok := <-updates:
			if !ok {
				return
			}
			event, data = "state", toListStateResponse(state)
		case ev := <-messages:
			event, data = "message", MessageResponse{Message: ev.Message}
		case <-ctx.Done():
			return
		}

		if err := writeEvent(w, event, data); err != nil {
			logger.DebugContext(ctx, "stream closed", "error", err)
			return
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}

// ChangeOrder switches the list order.
//
// swagger:route PUT /api/notes/order notes changeOrder
//
// responses:
//
//	'202':
//	  description: Order change accepted
//	'400':
//	  description: Unknown field or direction
func (h *NotesHandler) ChangeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OrderDTO
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(ctx, w, err, "Invalid request body")
		return
	}

	order, err := req.toOrder()
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid order", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.list.ChangeOrder(order)
	writeJSON(ctx, w, http.StatusAccepted, toOrderDTO(order))
}

// ToggleOrderPanel shows or hides the order panel.
func (h *NotesHandler) ToggleOrderPanel(w http.ResponseWriter, r *http.Request) {
	h.list.ToggleOrderPanel()
	writeJSON(r.Context(), w, http.StatusOK, toListStateResponse(h.list.State()))
}

// Delete deletes a note. It can be undone once with Restore.
//
// swagger:route DELETE /api/notes/{id} notes deleteNote
//
// responses:
//
//	'202':
//	  description: Delete accepted
//	  schema:
//	    "$ref": "#/definitions/NoteResponse"
//	'404':
//	  description: No note with this ID
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := noteIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid note ID")
		return
	}

	note, err := h.notes.GetNote(ctx, id)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load note")
		return
	}
	if note == nil {
		handleServiceError(ctx, w, service.WrapError(service.ErrNotFound, fmt.Sprintf("note %d", id)), "")
		return
	}

	h.list.DeleteNote(*note)
	writeJSON(ctx, w, http.StatusAccepted, toNoteResponse(*note))
}

// Restore brings back the most recently deleted note.
func (h *NotesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.list.RestoreNote()
	w.WriteHeader(http.StatusAccepted)
}

func noteIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}
