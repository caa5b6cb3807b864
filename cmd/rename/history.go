package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/rename/pkg/rename/journal"
)

// openJournal opens the configured journal. It returns nil when the journal
// is disabled.
func (a *app) openJournal() (*journal.Journal, error) {
	if !a.cfg.Journal.Enabled {
		return nil, nil
	}
	return journal.Open(a.cfg.JournalPath())
}

func (a *app) mustJournal() (*journal.Journal, error) {
	j, err := a.openJournal()
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if j == nil {
		return nil, fmt.Errorf("the journal is disabled (journal.enabled: false)")
	}
	return j, nil
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "View recorded rename batches",
		Long: `View the rename and undo batches recorded in the journal.

Every applied batch stores the original and new path of each renamed file,
which is what "rename undo" replays.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.mustJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			batches, err := j.List(limit)
			if err != nil {
				return fmt.Errorf("failed to list history: %w", err)
			}
			if len(batches) == 0 {
				a.printInfo("No history entries found.")
				a.printInfo("Run 'rename apply [folder]' to rename files.")
				return nil
			}

			out := a.stdout
			fmt.Fprintf(out, "\n%-10s  %-8s  %-16s  %-7s  %-9s  %s\n", "ID", "TYPE", "WHEN", "FILES", "STATE", "FOLDER")
			fmt.Fprintln(out, strings.Repeat("-", 80))
			for _, b := range batches {
				state := ""
				switch {
				case b.Reverted():
					state = "reverted"
				case b.Operation == journal.OpUndo:
					state = "undo of " + shortID(b.RevertsID)
				}
				fmt.Fprintf(out, "%-10s  %-8s  %-16s  %-7d  %-9s  %s\n",
					b.ShortID(),
					b.Operation,
					humanize.Time(b.Timestamp),
					len(b.Records),
					state,
					b.Folder,
				)
			}
			fmt.Fprintln(out, strings.Repeat("-", 80))
			fmt.Fprintf(out, "\nShowing %d entries. Use --limit to see more.\n", len(batches))
			fmt.Fprintln(out, "Use 'rename history show <id>' for details on a specific entry.")
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of entries to show")

	cmd.AddCommand(newHistoryShowCmd(a), newHistoryPruneCmd(a))
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show details of a recorded batch",
		Long:  `Display a recorded batch by its ID or a unique ID prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.mustJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			b, err := j.Get(args[0])
			if err != nil {
				return fmt.Errorf("failed to get entry: %w", err)
			}

			out := a.stdout
			fmt.Fprintln(out, "\nBatch Details")
			fmt.Fprintln(out, strings.Repeat("=", 60))
			fmt.Fprintf(out, "ID:         %s\n", b.ID)
			fmt.Fprintf(out, "Timestamp:  %s\n", b.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "Operation:  %s\n", b.Operation)
			fmt.Fprintf(out, "Folder:     %s\n", b.Folder)
			fmt.Fprintf(out, "Succeeded:  %d\n", b.Succeeded)
			fmt.Fprintf(out, "Failed:     %d\n", b.Failed)
			if b.RevertsID != "" {
				fmt.Fprintf(out, "Reverts:    %s\n", b.RevertsID)
			}
			if b.Reverted() {
				fmt.Fprintf(out, "Reverted:   %s\n", b.RevertedAt.Local().Format("2006-01-02 15:04:05 MST"))
			}
			if b.Config != nil {
				fmt.Fprintf(out, "Naming:     base=%q index=%s position=%s sep=%q start=%d sort=%s\n",
					b.Config.BaseName, b.Config.IndexType, b.Config.IndexPosition,
					b.Config.Separator, b.Config.Start, b.Config.Sort)
			}

			if len(b.Records) == 0 {
				return nil
			}
			fmt.Fprintln(out, "\nFiles:")
			fmt.Fprintln(out, strings.Repeat("-", 60))

			limit := 50
			if all || len(b.Records) < limit {
				limit = len(b.Records)
			}
			for _, rec := range b.Records[:limit] {
				fmt.Fprintf(out, "%s -> %s\n", rec.Source, rec.Target)
			}
			if len(b.Records) > limit {
				fmt.Fprintf(out, "\n... and %d more files (use --all)\n", len(b.Records)-limit)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "show every file of the batch")
	return cmd
}

func newHistoryPruneCmd(a *app) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove old history entries",
		Long:  `Keep only the newest batches (journal.keep by default) and delete the rest.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.mustJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			if !cmd.Flags().Changed("keep") {
				keep = a.cfg.Journal.Keep
			}
			removed, err := j.Prune(keep)
			if err != nil {
				return fmt.Errorf("failed to prune history: %w", err)
			}
			a.printInfo("Removed %d entr%s, kept the newest %d.", removed, plural(removed, "y", "ies"), keep)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "number of batches to keep (default: journal.keep)")
	return cmd
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
