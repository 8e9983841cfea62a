package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notes-app/internal/handlers"
	"notes-app/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	NoteService  service.NoteService
	NotesHandler *handlers.NotesHandler
	EditHandler  *handlers.EditHandler
	DB           handlers.Pinger

	// ImportHandler is nil when no import directory is configured.
	ImportHandler http.Handler
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	healthHandler := handlers.NewHealthHandler(deps.DB)
	noteHandler := handlers.NewNoteHandler(deps.NoteService)
	notes := deps.NotesHandler
	edits := deps.EditHandler

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notes.GetState)
			r.Get("/stream", notes.Stream)
			r.Put("/order", notes.ChangeOrder)
			r.Post("/order-panel", notes.ToggleOrderPanel)
			r.Post("/restore", notes.Restore)
			r.Delete("/{id}", notes.Delete)
		})

		r.Route("/edits", func(r chi.Router) {
			r.Post("/", edits.Create)
			r.Get("/{session}", edits.Get)
			r.Patch("/{session}", edits.Patch)
			r.Delete("/{session}", edits.Delete)
			r.Post("/{session}/save", edits.Save)
		})

		if deps.ImportHandler != nil {
			r.Method(http.MethodPost, "/import", deps.ImportHandler)
		}
	})

	r.Get("/notes/{id}", noteHandler.ServeHTTP)

	return r
}
