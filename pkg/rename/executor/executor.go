// Package executor applies rename plans to the filesystem and reverts the
// most recent batch. Rows are renamed strictly one after another in plan
// order; per-row failures are recorded and never abort the batch.
package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/jamesainslie/rename/pkg/rename/fsops"
	"github.com/jamesainslie/rename/pkg/rename/logging"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

var logger = logging.Get("executor")

// ProgressFunc receives one update after every attempted row.
type ProgressFunc func(types.Progress)

// Executor renames files and holds the undo log of the last batch that
// renamed at least one file.
type Executor struct {
	mu      sync.Mutex
	undoLog []types.UndoRecord

	rename     func(src, dst string) error
	exists     func(path string) bool
	onProgress ProgressFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithProgress registers a progress callback. It is called synchronously
// from Execute and Undo and must not call back into the Executor.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Executor) {
		e.onProgress = fn
	}
}

// WithRenameFunc replaces the rename primitive.
func WithRenameFunc(fn func(src, dst string) error) Option {
	return func(e *Executor) {
		if fn != nil {
			e.rename = fn
		}
	}
}

// New returns an Executor with an empty undo log.
func New(opts ...Option) *Executor {
	e := &Executor{
		rename: fsops.Rename,
		exists: fsops.Exists,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute renames every ok row of plan in order. It rejects the whole batch
// with types.ErrHasUnresolvedConflicts before touching the disk if any row
// is a conflict. A cancelled ctx stops the batch before the next rename and
// the partial result is returned with ctx's error.
//
// When at least one rename succeeds, the successful renames replace the
// undo log.
func (e *Executor) Execute(ctx context.Context, plan *types.RenamePlan) (types.ExecutionResult, error) {
	if plan == nil {
		return types.ExecutionResult{}, nil
	}
	if plan.HasConflicts() {
		s := plan.Summary()
		logger.Warn("Conflicts found; batch rejected", "conflicts", s.ConflictCount)
		return types.ExecutionResult{}, fmt.Errorf("%w: %d conflict(s)", types.ErrHasUnresolvedConflicts, s.ConflictCount)
	}

	rows := plan.Pending()
	if len(rows) == 0 {
		logger.Info("Nothing to do (all rows are skipped)")
		return types.ExecutionResult{}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	var (
		result types.ExecutionResult
		undo   = make([]types.UndoRecord, 0, len(rows))
		err    error
	)

	for i, row := range rows {
		if err = ctx.Err(); err != nil {
			logger.Warn("Rename cancelled", "done", i, "remaining", len(rows)-i)
			break
		}

		src, dst := row.Source.Path, row.Target
		renameErr := e.rename(src, dst)
		if renameErr == nil {
			result.Succeeded++
			undo = append(undo, types.UndoRecord{Target: dst, Source: src})
			logger.Info(fmt.Sprintf("Renamed: %s -> %s", filepath.Base(src), filepath.Base(dst)))
		} else {
			result.Failed++
			result.Failures = append(result.Failures, failure(src, dst, renameErr))
			if reason, _ := fsops.Classify(renameErr); reason == "permission denied" {
				logger.Error(fmt.Sprintf("[Permission denied] %s", src))
			} else {
				logger.Error(fmt.Sprintf("[OS error] %s -> %s :: %v", src, dst, renameErr))
			}
		}
		e.progress(i+1, len(rows), src, dst, renameErr)
	}

	if len(undo) > 0 {
		e.undoLog = undo
	}
	result.Elapsed = time.Since(start)
	logger.Info(fmt.Sprintf("Done. Success: %d, Failed: %d", result.Succeeded, result.Failed))
	return result, err
}

// Undo reverts the held undo log and clears it. It returns
// types.ErrNothingToUndo when the log is empty.
func (e *Executor) Undo(ctx context.Context) (types.ExecutionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.undoLog) == 0 {
		return types.ExecutionResult{}, types.ErrNothingToUndo
	}
	result, err := e.revert(ctx, e.undoLog)
	e.undoLog = nil
	return result, err
}

// Revert replays records in reverse order without touching the held undo
// log. It is used for batches restored from the journal.
func (e *Executor) Revert(ctx context.Context, records []types.UndoRecord) (types.ExecutionResult, error) {
	if len(records) == 0 {
		return types.ExecutionResult{}, types.ErrNothingToUndo
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revert(ctx, records)
}

func (e *Executor) revert(ctx context.Context, records []types.UndoRecord) (types.ExecutionResult, error) {
	start := time.Now()
	var (
		result types.ExecutionResult
		err    error
	)

	total := len(records)
	for i := total - 1; i >= 0; i-- {
		done := total - 1 - i
		if err = ctx.Err(); err != nil {
			logger.Warn("Undo cancelled", "done", done, "remaining", total-done)
			break
		}

		rec := records[i]
		var revertErr error
		switch {
		case !e.exists(rec.Target):
			revertErr = fmt.Errorf("%w: %s", types.ErrMissingTarget, rec.Target)
			logger.Warn(fmt.Sprintf("[Missing] %s (cannot revert)", rec.Target))
		default:
			revertErr = e.rename(rec.Target, rec.Source)
			if revertErr != nil {
				logger.Error(fmt.Sprintf("[Undo error] %s -> %s :: %v", rec.Target, rec.Source, revertErr))
			}
		}

		if revertErr == nil {
			result.Succeeded++
			logger.Info(fmt.Sprintf("Reverted: %s -> %s", filepath.Base(rec.Target), filepath.Base(rec.Source)))
		} else {
			result.Failed++
			result.Failures = append(result.Failures, failure(rec.Target, rec.Source, revertErr))
		}
		e.progress(done+1, total, rec.Target, rec.Source, revertErr)
	}

	result.Elapsed = time.Since(start)
	logger.Info(fmt.Sprintf("Undo complete. Success: %d, Failed: %d", result.Succeeded, result.Failed))
	return result, err
}

// UndoLog returns a copy of the held undo log in execution order.
func (e *Executor) UndoLog() []types.UndoRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.undoLog)
}

// SetUndoLog replaces the held undo log, e.g. with a batch restored from
// the journal.
func (e *Executor) SetUndoLog(records []types.UndoRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.undoLog = slices.Clone(records)
}

// CanUndo reports whether an undo log is held.
func (e *Executor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.undoLog) > 0
}

func (e *Executor) progress(current, total int, src, dst string, err error) {
	if e.onProgress == nil {
		return
	}
	e.onProgress(types.Progress{Current: current, Total: total, Source: src, Target: dst, Err: err})
}

func failure(src, dst string, err error) types.RowFailure {
	reason, classified := fsops.Classify(err)
	return types.RowFailure{Source: src, Target: dst, Err: classified, Reason: reason}
}
