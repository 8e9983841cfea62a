package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"notes-app/internal/contextutil"
	"notes-app/internal/service"
)

// NoteHandler serves stored notes as rendered HTML pages.
type NoteHandler struct {
	notes    service.NoteService
	parser   goldmark.Markdown
	template *template.Template
	logger   *slog.Logger
}

// notePageData holds template data for rendered note pages.
type notePageData struct {
	Title     string
	Date      string
	Color     string
	ColorName string
	Content   template.HTML
}

// NewNoteHandler creates a new handler for serving notes.
func NewNoteHandler(notes service.NoteService) *NoteHandler {
	tmpl := template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #f8fafc;
      color: #1e293b;
    }
    article {
      border-radius: 16px;
      padding: 2rem;
      box-shadow: 0 10px 25px rgba(15, 23, 42, 0.15);
    }
    h1 {
      margin-top: 0;
      font-size: 2rem;
    }
    pre {
      background: rgba(15, 23, 42, 0.08);
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
    }
    .meta {
      color: #475569;
      font-size: 0.95rem;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
      article {
        padding: 1.25rem;
      }
    }
  </style>
</head>
<body>
  <article style="background: {{.Color}}">
    <h1>{{.Title}}</h1>
    <p class="meta">{{.Date}} &middot; {{.ColorName}}</p>
    {{.Content}}
  </article>
</body>
</html>`))

	return &NoteHandler{
		notes: notes,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
		logger:   slog.Default(),
	}
}

// ServeHTTP renders the requested note as HTML.
func (h *NoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.getLogger(ctx)

	id, err := noteIDParam(r)
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}

	note, err := h.notes.GetNote(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load note", "id", id, "error", err)
		http.Error(w, "failed to load note", http.StatusInternalServerError)
		return
	}
	if note == nil {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}

	htmlContent, err := h.renderMarkdown([]byte(note.Content))
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "id", id, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	pageData := notePageData{
		Title:     note.Title,
		Date:      note.Time().Format("Jan 2, 2006 15:04"),
		Color:     note.Color.Hex(),
		ColorName: note.Color.Name(),
		Content:   template.HTML(htmlContent),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, pageData); err != nil {
		logger.ErrorContext(ctx, "failed to execute note template", "id", id, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}
}

func (h *NoteHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.parser.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func (h *NoteHandler) getLogger(ctx context.Context) *slog.Logger {
	if ctxLogger := ctx.Value(contextutil.LoggerKey()); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return h.logger
}
