package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"notes-app/internal/contextutil"
	"notes-app/internal/model"
	"notes-app/internal/service"
	"notes-app/internal/viewstate"
)

// DefaultSaveTimeout bounds how long a save request waits for the editor.
const DefaultSaveTimeout = 5 * time.Second

// editSession is one open note editor.
type editSession struct {
	ctrl *viewstate.EditController
	// save serializes save requests on one session.
	save sync.Mutex
}

// discardEvents drains the editor's event stream. HTTP clients get each
// save's outcome from its own request, so buffered events are only logged.
func discardEvents(ctx context.Context, session string, ctrl *viewstate.EditController) {
	logger := contextutil.LoggerFromContext(ctx)
	for ev := range ctrl.Events() {
		logger.DebugContext(ctx, "editor event", "session", session, "kind", ev.Kind.String(), "message", ev.Message)
	}
}

// EditHandler serves note editor sessions. Sessions outlive the request
// that opened them and are closed on save, on delete or by CloseAll.
type EditHandler struct {
	notes       service.NoteService
	saveTimeout time.Duration
	baseCtx     context.Context

	mu       sync.Mutex
	sessions map[string]*editSession
}

// NewEditHandler creates a new EditHandler. ctx bounds every session's
// background work.
func NewEditHandler(ctx context.Context, notes service.NoteService, saveTimeout time.Duration) *EditHandler {
	return &EditHandler{
		notes:       notes,
		saveTimeout: saveTimeout,
		baseCtx:     ctx,
		sessions:    make(map[string]*editSession),
	}
}

// CreateEditRequest opens an editor.
type CreateEditRequest struct {
	// ID of the note to edit; omit for a new note
	NoteID *int64 `json:"note_id,omitempty"`
	// Initial color (palette name or hex)
	Color *string `json:"color,omitempty"`
}

// PatchEditRequest applies editor intents. Fields are applied in the order
// title, content, title focus, content focus, color.
type PatchEditRequest struct {
	Title          *string `json:"title,omitempty"`
	Content        *string `json:"content,omitempty"`
	TitleFocused   *bool   `json:"title_focused,omitempty"`
	ContentFocused *bool   `json:"content_focused,omitempty"`
	Color          *string `json:"color,omitempty"`
}

// SaveResponse is returned by a successful save.
type SaveResponse struct {
	Saved bool         `json:"saved"`
	Note  NoteResponse `json:"note"`
}

// Create opens an edit session.
//
// swagger:route POST /api/edits edits createEdit
//
// responses:
//
//	'201':
//	  description: Session opened
//	  schema:
//	    "$ref": "#/definitions/DraftResponse"
func (h *EditHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CreateEditRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(ctx, w, err, "Invalid request body")
			return
		}
	}

	var opts []viewstate.EditOption
	if req.Color != nil {
		c, err := model.ParseColor(*req.Color)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts = append(opts, viewstate.WithInitialColor(c))
	}

	noteID := int64(-1)
	var existing *model.Note
	if req.NoteID != nil && *req.NoteID > 0 {
		noteID = *req.NoteID
		note, err := h.notes.GetNote(ctx, noteID)
		if err != nil {
			handleServiceError(ctx, w, err, "Failed to load note")
			return
		}
		existing = note
		if existing != nil && req.Color == nil {
			opts = append(opts, viewstate.WithInitialColor(existing.Color))
		}
	}

	sessionCtx := contextutil.WithLogger(h.baseCtx, logger)
	ctrl := viewstate.NewEditController(sessionCtx, h.notes, noteID, opts...)
	id := uuid.NewString()
	go discardEvents(sessionCtx, id, ctrl)

	h.mu.Lock()
	h.sessions[id] = &editSession{ctrl: ctrl}
	h.mu.Unlock()

	draft := ctrl.Draft()
	if existing != nil {
		draft = h.awaitLoad(ctx, ctrl, existing.ID)
	}

	logger.InfoContext(ctx, "edit session opened", "session", id, "note_id", draft.NoteID)
	writeJSON(ctx, w, http.StatusCreated, toDraftResponse(id, draft))
}

// awaitLoad waits until the editor has loaded note id, or gives up after
// the save timeout and returns the draft as it is.
func (h *EditHandler) awaitLoad(ctx context.Context, ctrl *viewstate.EditController, id int64) viewstate.EditDraft {
	updates, unsubscribe := ctrl.Updates()
	defer unsubscribe()

	timer := time.NewTimer(h.saveTimeout)
	defer timer.Stop()

	for {
		select {
		case d, ok := <-updates:
			if !ok || d.NoteID == id {
				return ctrl.Draft()
			}
		case <-timer.C:
			return ctrl.Draft()
		case <-ctx.Done():
			return ctrl.Draft()
		}
	}
}

func (h *EditHandler) session(w http.ResponseWriter, r *http.Request) (string, *editSession, bool) {
	id := chi.URLParam(r, "session")
	h.mu.Lock()
	s, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Edit session not found")
		return id, nil, false
	}
	return id, s, true
}

// Get returns the session's draft.
func (h *EditHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toDraftResponse(id, s.ctrl.Draft()))
}

// Patch applies edits to the session's draft.
func (h *EditHandler) Patch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PatchEditRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(ctx, w, err, "Invalid request body")
		return
	}

	var color *model.Color
	if req.Color != nil {
		c, err := model.ParseColor(*req.Color)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		color = &c
	}

	if req.Title != nil {
		s.ctrl.EnterTitle(*req.Title)
	}
	if req.Content != nil {
		s.ctrl.EnterContent(*req.Content)
	}
	if req.TitleFocused != nil {
		s.ctrl.TitleFocusChanged(*req.TitleFocused)
	}
	if req.ContentFocused != nil {
		s.ctrl.ContentFocusChanged(*req.ContentFocused)
	}
	if color != nil {
		s.ctrl.ChangeColor(*color)
	}

	writeJSON(ctx, w, http.StatusOK, toDraftResponse(id, s.ctrl.Draft()))
}

// Save stores the draft. On success the session is closed.
//
// swagger:route POST /api/edits/{session}/save edits saveEdit
//
// responses:
//
//	'200':
//	  description: Note saved
//	'422':
//	  description: Note rejected; the message is meant for the user
//	'504':
//	  description: Save did not finish in time
func (h *EditHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.save.Lock()
	defer s.save.Unlock()

	timer := time.NewTimer(h.saveTimeout)
	defer timer.Stop()

	result := s.ctrl.Save()

	select {
	case ev, ok := <-result:
		if !ok {
			writeError(w, http.StatusNotFound, "Edit session not found")
			return
		}
		if ev.Kind != viewstate.EventSaved {
			writeJSON(ctx, w, http.StatusUnprocessableEntity, MessageResponse{Message: ev.Message})
			return
		}
	case <-timer.C:
		logger.WarnContext(ctx, "save timed out", "session", id, "timeout", h.saveTimeout)
		writeError(w, http.StatusGatewayTimeout, "Save timed out")
		return
	case <-ctx.Done():
		return
	}

	d := s.ctrl.Draft()
	h.closeSession(id)
	logger.InfoContext(ctx, "note saved from editor", "session", id, "note_id", d.NoteID)

	saved := model.Note{ID: d.NoteID, Title: d.Title.Text, Content: d.Content.Text, Color: d.Color}
	if stored, err := h.notes.GetNote(ctx, d.NoteID); err == nil && stored != nil {
		saved = *stored
	}
	writeJSON(ctx, w, http.StatusOK, SaveResponse{
		Saved: true,
		Note:  toNoteResponse(saved),
	})
}

// Delete closes a session without saving.
func (h *EditHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.session(w, r)
	if !ok {
		return
	}
	h.closeSession(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *EditHandler) closeSession(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		s.ctrl.Close()
	}
}

// Sessions returns the number of open sessions.
func (h *EditHandler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// CloseAll closes every open session.
func (h *EditHandler) CloseAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*editSession)
	h.mu.Unlock()

	for _, s := range sessions {
		s.ctrl.Close()
	}
}
