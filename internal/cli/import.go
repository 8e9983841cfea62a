package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"notes-app/internal/importer"
)

// ImportCmd returns the import command.
func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Import markdown files as notes",
		Long: `Import every .md file under a directory as a note.
The first heading becomes the title; files without one are titled after the file name.
Without an argument the IMPORT_DIR setting is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			dir := a.Config.ImportDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no directory given and IMPORT_DIR is not set")
			}

			start := time.Now()
			stats, err := importer.New(a.Notes).ImportDir(ctx, dir)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			out := cmd.OutOrStdout()
			success(out, "Imported %d of %d file(s) from %s in %s", stats.Imported, stats.Scanned, dir, elapsed(time.Since(start)))
			if stats.Skipped > 0 {
				fmt.Fprintf(out, "  %s\n", color.New(color.FgYellow).Sprintf("%d file(s) skipped", stats.Skipped))
			}
			return nil
		},
	}
}
