package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/rename/pkg/rename/logging"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

var logger = logging.Get("scanner")

// PathError records a path that could not be read during discovery.
type PathError struct {
	Path string `json:"path" yaml:"path"`
	Err  string `json:"error" yaml:"error"`
}

// Result is a single discovery snapshot.
type Result struct {
	Root        string
	Entries     []types.SourceEntry
	Errors      []PathError
	DirsScanned int64
	Elapsed     time.Duration
}

// Scanner performs one parallel discovery pass.
type Scanner struct {
	opts Options
	root string

	dirsScanned atomic.Int64

	mu      sync.Mutex
	entries []types.SourceEntry
	errors  []PathError
}

// New creates a Scanner for opts.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Scan walks the root and returns every regular file that is not excluded.
// Symlinks are included when they resolve to a regular file. Entries are
// returned in no particular order.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	root, err := validateRoot(s.opts.Root)
	if err != nil {
		return nil, err
	}
	s.root = root

	conf := fastwalk.Config{Follow: false, NumWorkers: s.opts.Workers}
	walkErr := fastwalk.Walk(&conf, root, s.callback(ctx))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if walkErr != nil && !errors.Is(walkErr, fastwalk.ErrSkipFiles) {
		return nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	logger.Debug("scan complete",
		"root", root,
		"files", len(s.entries),
		"dirs", s.dirsScanned.Load(),
		"errors", len(s.errors),
		"elapsed", time.Since(start))

	return &Result{
		Root:        root,
		Entries:     s.entries,
		Errors:      s.errors,
		DirsScanned: s.dirsScanned.Load(),
		Elapsed:     time.Since(start),
	}, nil
}

// Scan is a convenience wrapper around New(opts).Scan(ctx).
func Scan(ctx context.Context, opts Options) (*Result, error) {
	return New(opts).Scan(ctx)
}

func validateRoot(path string) (string, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", types.ErrInvalidFolder, path, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", types.ErrInvalidFolder, path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", types.ErrInvalidFolder, path)
	}
	return root, nil
}

func (s *Scanner) callback(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return fastwalk.ErrSkipFiles
		}

		if err != nil {
			s.addError(path, err)
			return nil
		}

		if path == s.root {
			return nil
		}

		if s.opts.excluded(d.Name()) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !s.opts.Recursive {
				return fastwalk.SkipDir
			}
			s.dirsScanned.Add(1)
			return nil
		}

		s.processFile(path, d)
		return nil
	}
}

func (s *Scanner) processFile(path string, d fs.DirEntry) {
	var (
		info fs.FileInfo
		err  error
	)
	switch {
	case d.Type().IsRegular():
		info, err = d.Info()
	case d.Type()&fs.ModeSymlink != 0:
		info, err = os.Stat(path)
	default:
		return
	}
	if err != nil {
		s.addError(path, err)
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	entry := types.NewSourceEntry(path, info.ModTime(), info.Size())

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
}

func (s *Scanner) addError(path string, err error) {
	logger.Warn("unreadable path", "path", path, "err", err)

	s.mu.Lock()
	s.errors = append(s.errors, PathError{Path: path, Err: err.Error()})
	s.mu.Unlock()
}
