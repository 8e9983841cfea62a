// Package app wires configuration, storage and the note use cases together.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"notes-app/internal/config"
	"notes-app/internal/service"
	"notes-app/internal/storage"
)

// App holds the long-lived dependencies shared by the API server and the CLI.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Repo   *storage.NoteRepo
	Notes  service.NoteService
}

// New opens and migrates the database and builds the note service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := storage.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Default().DebugContext(ctx, "Database initialized", "path", cfg.DBPath)

	repo := storage.NewNoteRepo(db)
	return &App{
		Config: cfg,
		DB:     db,
		Repo:   repo,
		Notes:  service.NewNoteService(repo),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
