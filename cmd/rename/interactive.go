package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/rename/cmd/rename/tui"
)

// runInteractive is the root command: it opens the TUI on the folder, or
// prints the plan when --no-interactive or an output format is given.
func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	folder, err := resolveFolder(args)
	if err != nil {
		return err
	}

	if a.noInteractive || (a.output.format != "" && a.output.format != "pretty") {
		return a.printPlan(cmd, folder)
	}

	// Re-initialize logging for TUI mode (log panel buffer, no console).
	if err := a.startLogging(cmd, true); err != nil {
		return fmt.Errorf("failed to initialize TUI logging: %w", err)
	}

	naming, err := a.naming(folder)
	if err != nil {
		return err
	}

	j, err := a.openJournal()
	if err != nil {
		logger.Warn("journal unavailable, undo is limited to this session", "error", err)
		j = nil
	}
	if j != nil {
		defer j.Close()
	}

	return tui.Run(tui.Options{
		Folder:      folder,
		Naming:      naming,
		SkipHidden:  a.noHidden,
		Workers:     a.cfg.Workers,
		Journal:     j,
		JournalKeep: a.cfg.Journal.Keep,
		NoWatch:     a.noWatch,
	})
}

// printPlan renders the plan of folder with the root command's output
// flags.
func (a *app) printPlan(cmd *cobra.Command, folder string) error {
	f, err := a.output.formatter("pretty")
	if err != nil {
		return err
	}
	plan, err := a.buildPlan(cmd.Context(), folder)
	if err != nil {
		return err
	}
	if err := a.render(f, resultFor(plan)); err != nil {
		return err
	}
	a.summarize(plan)
	return nil
}
