// Package cli implements the notes command line client.
package cli

import (
	"context"
	"fmt"
	"os"

	"notes-app/internal/app"
	"notes-app/internal/config"
	"notes-app/internal/contextutil"
)

// NewContext creates a context carrying a logger configured from the environment.
// CLI logs go to stderr so command output stays clean.
func NewContext(cfg *config.Config) context.Context {
	return contextutil.WithLogger(context.Background(), cfg.NewLogger(os.Stderr))
}

// openApp loads configuration and opens the note database.
func openApp() (context.Context, *app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	ctx := NewContext(cfg)
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, a, nil
}
