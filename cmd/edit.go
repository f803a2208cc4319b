package cmd

import (
	"context"
	"fmt"

	"careermatrix/editor"
	"careermatrix/logger"
	"careermatrix/store"
	"careermatrix/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

// DefaultTemplateID is edited when no id is given.
const DefaultTemplateID = "default"

var editCmd = &cobra.Command{
	Use:   "edit [template-id]",
	Short: "Open a template in the terminal editor",
	Long: `Opens the career matrix of a template in a full-screen editor.

A template that does not exist yet is created from the built-in example, or
from the axes in the config file when they are set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	// The screen belongs to the editor, so logs go to a file.
	if err := logger.Init(logger.DefaultLogPath()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	defer logger.Close()
	log := logger.ComponentLogger("cmd")

	id := DefaultTemplateID
	if len(args) > 0 {
		id = args[0]
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	tmpl, err := store.LoadOrCreate(ctx, st, id, fallbackTemplate)
	if err != nil {
		return fmt.Errorf("error loading template %s: %w", id, err)
	}

	opts := terminal.Options{ResizeDebounce: cfg.Terminal.ResizeDebounce.Duration}
	if remote, ok := st.(*store.Remote); ok {
		events, err := remote.Watch(ctx, tmpl.ID)
		if err != nil {
			log.Warn("not watching remote saves", "error", err)
		} else {
			opts.Watch = events
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("error creating screen: %w", err)
	}
	session := terminal.New(screen, tmpl, st, editor.Options{
		HistoryCapacity: cfg.History.Capacity,
		ArrowColor:      cfg.Editor.DefaultArrowColor,
		Palette:         cfg.Editor.Palette,
	}, opts)

	if err := session.Run(ctx); err != nil {
		return fmt.Errorf("error running editor: %w", err)
	}
	if session.Editor().HasUnsavedChanges() {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("Quit with unsaved changes."))
	}
	return nil
}
