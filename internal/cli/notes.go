package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"notes-app/internal/model"
)

// ListCmd returns the list command.
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Long:  "List all notes, newest first unless another order is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			field, _ := cmd.Flags().GetString("order")
			direction, _ := cmd.Flags().GetString("direction")

			order, err := parseOrder(field, direction)
			if err != nil {
				return err
			}

			ctx, a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			notes, err := firstSnapshot(ctx, a.Notes.ListNotes, order)
			if err != nil {
				return fmt.Errorf("failed to list notes: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(notes) == 0 {
				fmt.Fprintln(out, "No notes found")
				return nil
			}

			fmt.Fprintf(out, "Found %d note(s), ordered by %s:\n\n", len(notes), order)
			for _, n := range notes {
				printNoteLine(out, n)
			}
			return nil
		},
	}

	cmd.Flags().StringP("order", "o", "date", "Sort by date, title or color")
	cmd.Flags().StringP("direction", "d", "desc", "Sort direction: asc or desc")
	return cmd
}

func parseOrder(field, direction string) (model.Order, error) {
	f, err := model.ParseOrderField(field)
	if err != nil {
		return model.Order{}, err
	}
	d, err := model.ParseDirection(direction)
	if err != nil {
		return model.Order{}, err
	}
	return model.Order{Field: f, Direction: d}, nil
}

// firstSnapshot returns the first list emitted by a notes feed.
func firstSnapshot(ctx context.Context, list func(context.Context, model.Order) (<-chan []model.Note, error), order model.Order) ([]model.Note, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed, err := list(ctx, order)
	if err != nil {
		return nil, err
	}
	notes, ok := <-feed
	if !ok {
		return nil, fmt.Errorf("notes feed closed")
	}
	return notes, nil
}

// ShowCmd returns the show command.
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			note, err := a.Notes.GetNote(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load note: %w", err)
			}
			if note == nil {
				return fmt.Errorf("note %d not found", id)
			}

			printNote(cmd.OutOrStdout(), *note)
			return nil
		},
	}
}

// DeleteCmd returns the delete command.
func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			note, err := a.Notes.GetNote(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load note: %w", err)
			}
			if note == nil {
				return fmt.Errorf("note %d not found", id)
			}

			if err := a.Notes.DeleteNote(ctx, *note); err != nil {
				return fmt.Errorf("failed to delete note: %w", err)
			}

			success(cmd.OutOrStdout(), "Deleted note %d: %s", note.ID, note.Title)
			return nil
		},
	}
}

// ColorsCmd returns the colors command.
func ColorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "Show the note color palette",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, c := range model.Palette {
				fmt.Fprintf(out, "%s %-12s %s\n", swatch(c), c.Name(), color.New(color.FgHiBlack).Sprint(c.Hex()))
			}
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}
