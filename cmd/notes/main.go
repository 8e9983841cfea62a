package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"notes-app/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notes",
		Short: "Notes - a small colored notes keeper",
		Long: `Notes keeps short colored notes in a local SQLite database.
The same database is served over HTTP by the notes API server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.AddCmd())
	rootCmd.AddCommand(cli.EditCmd())
	rootCmd.AddCommand(cli.DeleteCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.ColorsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
