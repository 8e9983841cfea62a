package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"notes-app/internal/importer"
)

// DirImporter imports a directory of markdown files.
type DirImporter interface {
	ImportDir(ctx context.Context, dir string) (importer.Stats, error)
}

// ImportHandler handles HTTP requests for importing the configured directory.
type ImportHandler struct {
	importer DirImporter
	dir      string
	baseCtx  context.Context
	logger   *slog.Logger
}

// NewImportHandler creates a new ImportHandler for dir. Imports run under
// ctx so they continue after the request completes.
func NewImportHandler(ctx context.Context, imp DirImporter, dir string) *ImportHandler {
	return &ImportHandler{
		importer: imp,
		dir:      dir,
		baseCtx:  ctx,
		logger:   slog.Default(),
	}
}

// ImportResponse represents the response from the import endpoint.
type ImportResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP starts an import in the background.
//
// swagger:route POST /api/import notes importNotes
//
// responses:
//
//	'202':
//	  description: Import started
func (h *ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "import triggered via API", "dir", h.dir)

	go func() {
		stats, err := h.importer.ImportDir(h.baseCtx, h.dir)
		if err != nil {
			h.logger.ErrorContext(h.baseCtx, "import failed", "dir", h.dir, "error", err)
			return
		}
		h.logger.InfoContext(h.baseCtx, "import completed", "dir", h.dir,
			"scanned", stats.Scanned, "imported", stats.Imported, "skipped", stats.Skipped)
	}()

	writeJSON(ctx, w, http.StatusAccepted, ImportResponse{
		Message: "Import started. Check server logs for progress.",
		Status:  "accepted",
	})
}
