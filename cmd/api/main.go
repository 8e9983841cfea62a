package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notes-app/internal/app"
	"notes-app/internal/config"
	"notes-app/internal/contextutil"
	"notes-app/internal/handlers"
	"notes-app/internal/http"
	"notes-app/internal/importer"
	"notes-app/internal/viewstate"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API keeps short colored notes and exposes the notes list and the note editor as live view state.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Notes API
//   description: |
//     API for listing, ordering, editing, deleting and restoring colored notes.
//     List state changes are pushed to clients as Server-Sent Events.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()
	slog.Info("Database initialized", "path", cfg.DBPath)

	list := viewstate.NewListController(ctx, a.Notes)
	defer list.Close()

	notesHandler := handlers.NewNotesHandler(a.Notes, list)
	go notesHandler.Run(ctx)

	editHandler := handlers.NewEditHandler(ctx, a.Notes, cfg.SaveTimeout)
	defer editHandler.CloseAll()

	deps := &http.Deps{
		NoteService:  a.Notes,
		NotesHandler: notesHandler,
		EditHandler:  editHandler,
		DB:           a.DB,
	}
	if cfg.ImportDir != "" {
		deps.ImportHandler = handlers.NewImportHandler(ctx, importer.New(a.Notes), cfg.ImportDir)
		slog.Info("Markdown import enabled", "dir", cfg.ImportDir)
	}

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           http.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed: %v", err)
	}
}
