package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/rename/pkg/rename/executor"
	"github.com/jamesainslie/rename/pkg/rename/journal"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

func newApplyCmd(a *app) *cobra.Command {
	var (
		out outputFlags
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "apply [folder]",
		Short: "Plan and rename the files of a folder",
		Long: `Apply builds the plan, shows it, asks for confirmation and renames the
files in plan order. A plan with unresolved conflicts is rejected before any
file is touched. Failed rows are reported and never stop the batch.

The batch is recorded in the journal so "rename undo" can revert it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := resolveFolder(args)
			if err != nil {
				return err
			}
			f, err := out.formatter("pretty")
			if err != nil {
				return err
			}
			plan, err := a.buildPlan(cmd.Context(), folder)
			if err != nil {
				return err
			}
			if !a.quiet {
				if err := a.render(f, resultFor(plan)); err != nil {
					return err
				}
			}
			a.summarize(plan)

			s := plan.Summary()
			if s.ConflictCount > 0 {
				return fmt.Errorf("%w: %d conflict(s)", types.ErrHasUnresolvedConflicts, s.ConflictCount)
			}
			if s.PendingCount == 0 {
				a.printInfo("Nothing to rename.")
				return nil
			}
			if !yes && !confirm(a.stdin, a.stdout, fmt.Sprintf("Rename %d file(s)?", s.PendingCount)) {
				a.printInfo("Aborted.")
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ex := executor.New(executor.WithProgress(func(p types.Progress) {
				a.printVerbose("[%d/%d] %s -> %s", p.Current, p.Total, p.Source, p.Target)
			}))
			res, execErr := ex.Execute(ctx, plan)

			if res.Succeeded > 0 {
				a.recordBatch(folder, plan.Config, ex.UndoLog(), res)
			}
			a.report("Done", res)

			if execErr != nil {
				return execErr
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d rename(s) failed", res.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "rename without asking for confirmation")
	out.register(cmd, "")
	return cmd
}

// recordBatch stores an executed batch in the journal. Journal errors are
// reported but do not fail the command; the files are already renamed.
func (a *app) recordBatch(folder string, cfg types.NamingConfig, records []types.UndoRecord, res types.ExecutionResult) {
	j, err := a.openJournal()
	if err != nil {
		a.printError("failed to open journal: %v", err)
		return
	}
	if j == nil {
		return
	}
	defer j.Close()

	b, err := j.RecordExecution(folder, cfg, records, res)
	if err != nil {
		a.printError("failed to record batch: %v", err)
		return
	}
	a.printVerbose("Recorded batch %s", b.ShortID())

	if keep := a.cfg.Journal.Keep; keep > 0 {
		if _, err := j.Prune(keep); err != nil {
			logger.Warn("failed to prune journal", "error", err)
		}
	}
}

// report prints the outcome of a batch and each failed row.
func (a *app) report(label string, res types.ExecutionResult) {
	a.printInfo("%s. Success: %d, Failed: %d", label, res.Succeeded, res.Failed)
	for _, f := range res.Failures {
		a.printError("[%s] %s -> %s", f.Reason, f.Source, f.Target)
	}
}

func newUndoCmd(a *app) *cobra.Command {
	var (
		yes bool
		id  string
	)

	cmd := &cobra.Command{
		Use:   "undo [folder]",
		Short: "Revert the last rename batch of a folder",
		Long: `Undo replays the most recent batch recorded for the folder in reverse order.
Files that no longer exist are reported and skipped. Use --id to revert a
specific batch from "rename history".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return fmt.Errorf("failed to open journal: %w", err)
			}
			if j == nil {
				return fmt.Errorf("%w: the journal is disabled", types.ErrNothingToUndo)
			}
			defer j.Close()

			batch, err := a.undoTarget(j, id, args)
			if err != nil {
				return err
			}

			a.printInfo("Batch %s from %s: %d rename(s) in %s",
				batch.ShortID(), batch.Timestamp.Local().Format("2006-01-02 15:04:05"), len(batch.Records), batch.Folder)
			if !yes && !confirm(a.stdin, a.stdout, fmt.Sprintf("Revert %d file(s)?", len(batch.Records))) {
				a.printInfo("Aborted.")
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, undoErr := executor.New().Revert(ctx, batch.Records)
			if res.Succeeded > 0 {
				if _, err := j.RecordRevert(batch.Folder, batch.ID, batch.Records, res); err != nil {
					a.printError("failed to record undo: %v", err)
				}
			}
			a.report("Undo complete", res)

			if undoErr != nil {
				return undoErr
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d file(s) could not be reverted", res.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "revert without asking for confirmation")
	cmd.Flags().StringVar(&id, "id", "", "batch ID (or unique prefix) to revert")
	return cmd
}

// undoTarget picks the batch to revert: the one named by id, or the latest
// for the folder in args.
func (a *app) undoTarget(j *journal.Journal, id string, args []string) (*journal.Batch, error) {
	if id != "" {
		b, err := j.Get(id)
		if err != nil {
			return nil, err
		}
		switch {
		case b.Operation != journal.OpRename:
			return nil, fmt.Errorf("batch %s is an %s batch and cannot be reverted", b.ShortID(), b.Operation)
		case b.Reverted():
			return nil, fmt.Errorf("batch %s was already reverted", b.ShortID())
		}
		return b, nil
	}

	folder, err := resolveFolder(args)
	if err != nil {
		return nil, err
	}
	b, err := j.Latest(folder)
	if errors.Is(err, journal.ErrNotFound) {
		return nil, fmt.Errorf("%w for %s", types.ErrNothingToUndo, folder)
	}
	return b, err
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
