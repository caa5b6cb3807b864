// Package planner turns a folder and a naming configuration into an ordered
// rename plan. Planning reads the filesystem once and never mutates it.
package planner

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jamesainslie/rename/pkg/rename/conflict"
	"github.com/jamesainslie/rename/pkg/rename/fsops"
	"github.com/jamesainslie/rename/pkg/rename/index"
	"github.com/jamesainslie/rename/pkg/rename/logging"
	"github.com/jamesainslie/rename/pkg/rename/scanner"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

var logger = logging.Get("planner")

// Planner builds rename plans.
type Planner struct {
	exists        conflict.ExistsFunc
	sameFile      func(a, b string) bool
	resolver      *conflict.Resolver
	skipHidden    bool
	workers       int
	now           func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithExists replaces the on-disk existence check used for conflict
// detection.
func WithExists(fn conflict.ExistsFunc) Option {
	return func(p *Planner) {
		if fn != nil {
			p.exists = fn
		}
	}
}

// WithHidden controls whether dot-files and dot-directories are
// discovered. They are by default.
func WithHidden(include bool) Option {
	return func(p *Planner) {
		p.skipHidden = !include
	}
}

// WithWorkers sets the number of discovery workers.
func WithWorkers(n int) Option {
	return func(p *Planner) {
		p.workers = n
	}
}

// New returns a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{
		exists:   fsops.Exists,
		sameFile: fsops.SameFile,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resolver = conflict.NewResolverWithExists(p.exists)
	return p
}

// Build plans folder with a default Planner.
func Build(ctx context.Context, folder string, cfg types.NamingConfig) (*types.RenamePlan, error) {
	return New().Build(ctx, folder, cfg)
}

// Build validates cfg, takes one discovery snapshot of folder, and plans it.
// It fails with types.ErrEmptyBaseName, types.ErrInvalidFolder or
// types.ErrNoFilesFound, in that order of precedence.
func (p *Planner) Build(ctx context.Context, folder string, cfg types.NamingConfig) (*types.RenamePlan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := scanner.Scan(ctx, scanner.Options{
		Root:       folder,
		Recursive:  cfg.IncludeSubfolders,
		Exclude:    cfg.Exclude,
		SkipHidden: p.skipHidden,
		Workers:    p.workers,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Entries) == 0 {
		logger.Info("No files found", "folder", res.Root)
		return nil, fmt.Errorf("%w in %s", types.ErrNoFilesFound, res.Root)
	}

	return p.Plan(res.Root, res.Entries, cfg)
}

// Plan builds a plan over an existing discovery snapshot. entries are not
// modified. The returned rows follow the planning order.
func (p *Planner) Plan(folder string, entries []types.SourceEntry, cfg types.NamingConfig) (*types.RenamePlan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, types.ErrNoFilesFound
	}

	sorted := slices.Clone(entries)
	Sort(sorted, cfg.Sort)

	base := cfg.TrimmedBase()
	width := index.Padding(cfg.IndexType, cfg.Padding, cfg.Start, len(sorted))
	seq := newCounter(cfg.Start, cfg.ResetPerFolder)
	claimed := make(map[string]struct{}, len(sorted))

	plan := &types.RenamePlan{
		Folder:  folder,
		Config:  cfg,
		Rows:    make([]types.PlanRow, 0, len(sorted)),
		Created: p.now(),
	}

	for _, entry := range sorted {
		token := index.Format(cfg.IndexType, seq.next(entry.Dir), width)
		name := synthesize(base, token, entry.Name, cfg)
		row := p.classify(entry, name, claimed, cfg.AutoResolve)
		if row.Status == types.StatusOK {
			claimed[row.Target] = struct{}{}
		}
		plan.Rows = append(plan.Rows, row)
	}

	s := plan.Summary()
	logger.Info(SummaryLine(s), "folder", folder, "pending", s.PendingCount, "skipped", s.SkippedCount)
	if s.ConflictCount > 0 && !cfg.AutoResolve {
		logger.Info(ConflictTip)
	}
	return plan, nil
}

func (p *Planner) classify(entry types.SourceEntry, name string, claimed map[string]struct{}, autoResolve bool) types.PlanRow {
	target := filepath.Join(entry.Dir, name)
	row := types.PlanRow{Source: entry, NewName: name, Target: target, Status: types.StatusOK}

	if name == entry.Name {
		row.Status = types.StatusSkipUnchanged
		return row
	}

	occupied := func(path string) bool {
		if _, ok := claimed[path]; ok {
			return true
		}
		if !p.exists(path) {
			return false
		}
		// A case-only rename finds the source itself on case-insensitive
		// filesystems.
		return path == entry.Path || !p.sameFile(entry.Path, path)
	}
	if !occupied(target) {
		return row
	}

	if !autoResolve {
		row.Status = types.StatusConflict
		logger.Debug("conflict", "source", entry.Path, "target", target)
		return row
	}

	resolved := p.resolver.ResolveFunc(target, occupied)
	logger.Debug("resolved conflict", "source", entry.Path, "candidate", target, "target", resolved)
	row.Target = resolved
	row.NewName = filepath.Base(resolved)
	return row
}

// Sort orders entries by lower-cased parent directory, then by the key the
// mode selects. Ties fall back to the lower-cased name and then the path so
// the order is total.
func Sort(entries []types.SourceEntry, mode types.SortMode) {
	slices.SortStableFunc(entries, func(a, b types.SourceEntry) int {
		if c := cmp.Compare(strings.ToLower(a.Dir), strings.ToLower(b.Dir)); c != 0 {
			return c
		}
		var c int
		switch mode {
		case types.SortModTime:
			c = a.ModTime.Compare(b.ModTime)
		case types.SortSize:
			c = cmp.Compare(a.Size, b.Size)
		}
		if c != 0 {
			return c
		}
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}

// ConflictTip is shown when a plan has conflicts and auto-resolve is off.
const ConflictTip = "Tip: enable auto-resolve to avoid manual conflicts"

// SummaryLine renders the post-planning summary.
func SummaryLine(s types.Summary) string {
	return fmt.Sprintf("Preview: %d file(s), %d conflict(s).", s.TotalFiles, s.ConflictCount)
}
