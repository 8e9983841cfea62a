// Package importer creates notes from a directory of markdown files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"notes-app/internal/contextutil"
	"notes-app/internal/model"
	"notes-app/internal/service"
)

// Stats summarizes an import run.
type Stats struct {
	// Scanned is the number of markdown files found.
	Scanned int `json:"scanned"`
	// Imported is the number of notes created.
	Imported int `json:"imported"`
	// Skipped is the number of files that did not make a valid note.
	Skipped int `json:"skipped"`
}

// Importer turns markdown files into notes.
type Importer struct {
	notes  service.NoteService
	parser *MarkdownParser
	logger *slog.Logger
}

// New creates a new Importer that stores notes through notes.
func New(notes service.NoteService) *Importer {
	return &Importer{
		notes:  notes,
		parser: NewMarkdownParser(),
		logger: slog.Default(),
	}
}

// getLogger extracts logger from context or returns default logger.
func (i *Importer) getLogger(ctx context.Context) *slog.Logger {
	if ctxLogger := ctx.Value(contextutil.LoggerKey()); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return i.logger
}

// ImportDir creates one note per markdown file under dir. Files that fail
// validation (no title or no content) are skipped; a storage failure stops
// the run.
func (i *Importer) ImportDir(ctx context.Context, dir string) (Stats, error) {
	logger := i.getLogger(ctx)

	files, err := Scan(ctx, dir)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Scanned: len(files)}
	logger.InfoContext(ctx, "starting import", "dir", dir, "total_files", len(files))

	for idx, file := range files {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		imported, err := i.importFile(ctx, file, model.Palette[idx%len(model.Palette)])
		if err != nil {
			return stats, err
		}
		if imported {
			stats.Imported++
		} else {
			stats.Skipped++
		}
	}

	logger.InfoContext(ctx, "import completed", "dir", dir, "imported", stats.Imported, "skipped", stats.Skipped)
	return stats, nil
}

func (i *Importer) importFile(ctx context.Context, file ScannedFile, color model.Color) (bool, error) {
	logger := i.getLogger(ctx)

	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return false, fmt.Errorf("failed to read file %s: %w", file.RelPath, err)
	}

	title, body := i.parser.Parse(content, file.RelPath)
	note := model.Note{
		Title:     title,
		Content:   body,
		Timestamp: file.ModTime.UnixMilli(),
		Color:     color,
	}

	if err := i.notes.AddNote(ctx, &note); err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			logger.WarnContext(ctx, "skipping file", "rel_path", file.RelPath, "field", vErr.Field, "reason", vErr.Message)
			return false, nil
		}
		return false, fmt.Errorf("failed to import %s: %w", file.RelPath, err)
	}

	logger.DebugContext(ctx, "imported note", "rel_path", file.RelPath, "id", note.ID, "title", title)
	return true, nil
}
