package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"notes-app/internal/model"
	"notes-app/internal/viewstate"
)

// AddCmd returns the add command.
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note",
		Long:  "Add a note. Without --color the note gets a random palette color.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			content, _ := cmd.Flags().GetString("content")
			colorFlag, _ := cmd.Flags().GetString("color")

			var opts []viewstate.EditOption
			if colorFlag != "" {
				c, err := model.ParseColor(colorFlag)
				if err != nil {
					return err
				}
				opts = append(opts, viewstate.WithInitialColor(c))
			}

			ctx, a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			editor := viewstate.NewEditController(ctx, a.Notes, -1, opts...)
			defer editor.Close()

			editor.EnterTitle(title)
			editor.EnterContent(content)

			d, err := save(ctx, editor, a.Config.SaveTimeout)
			if err != nil {
				failure(cmd.ErrOrStderr(), err.Error())
				return err
			}

			success(cmd.OutOrStdout(), "Added note %d: %s", d.NoteID, d.Title.Text)
			return nil
		},
	}

	cmd.Flags().StringP("title", "t", "", "Note title")
	cmd.Flags().StringP("content", "c", "", "Note content")
	cmd.Flags().String("color", "", "Palette color name or #rrggbb")
	return cmd
}

// EditCmd returns the edit command.
func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a note",
		Long:  "Edit a note. Only the given fields change; saving stamps a new date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var newColor *model.Color
			if cmd.Flags().Changed("color") {
				colorFlag, _ := cmd.Flags().GetString("color")
				c, err := model.ParseColor(colorFlag)
				if err != nil {
					return err
				}
				newColor = &c
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

			editor := viewstate.NewEditController(ctx, a.Notes, id)
			defer editor.Close()

			if err := awaitLoad(ctx, editor, id, a.Config.SaveTimeout); err != nil {
				return err
			}

			if cmd.Flags().Changed("title") {
				title, _ := cmd.Flags().GetString("title")
				editor.EnterTitle(title)
			}
			if cmd.Flags().Changed("content") {
				content, _ := cmd.Flags().GetString("content")
				editor.EnterContent(content)
			}
			if newColor != nil {
				editor.ChangeColor(*newColor)
			}

			d, err := save(ctx, editor, a.Config.SaveTimeout)
			if err != nil {
				failure(cmd.ErrOrStderr(), err.Error())
				return err
			}

			success(cmd.OutOrStdout(), "Saved note %d: %s", d.NoteID, d.Title.Text)
			return nil
		},
	}

	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("content", "c", "", "New content")
	cmd.Flags().String("color", "", "Palette color name or #rrggbb")
	return cmd
}

// awaitLoad waits until the editor holds note id.
func awaitLoad(ctx context.Context, editor *viewstate.EditController, id int64, timeout time.Duration) error {
	updates, unsubscribe := editor.Updates()
	defer unsubscribe()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case d, ok := <-updates:
			if !ok {
				return errors.New("editor closed")
			}
			if d.NoteID == id {
				return nil
			}
		case ev, ok := <-editor.Events():
			if ok && ev.Kind == viewstate.EventShowMessage {
				return errors.New(ev.Message)
			}
		case <-timer.C:
			return fmt.Errorf("timed out loading note %d", id)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// save stores the editor's draft and returns it once the save is confirmed.
// A rejected note comes back as an error carrying the user-facing message.
func save(ctx context.Context, editor *viewstate.EditController, timeout time.Duration) (viewstate.EditDraft, error) {
	start := time.Now()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	result := editor.Save()

	select {
	case ev, ok := <-result:
		if !ok {
			return viewstate.EditDraft{}, errors.New("editor closed")
		}
		if ev.Kind != viewstate.EventSaved {
			return viewstate.EditDraft{}, errors.New(ev.Message)
		}
	case <-timer.C:
		return viewstate.EditDraft{}, fmt.Errorf("save timed out after %s", elapsed(time.Since(start)))
	case <-ctx.Done():
		return viewstate.EditDraft{}, ctx.Err()
	}
	return editor.Draft(), nil
}
