// Package watcher marks a rename preview stale when the folder it was built
// from changes on disk.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/rename/pkg/rename/logging"
)

var logger = logging.Get("watcher")

// Event is a filesystem change that invalidated the preview.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher watches a folder, and optionally its subfolders, for entries
// being created, removed or renamed.
type Watcher struct {
	root      string
	recursive bool
	ignore    func(name string) bool

	fsw    *fsnotify.Watcher
	events chan Event
	done   chan struct{}
	stale  atomic.Bool

	mu     sync.Mutex
	paths  map[string]bool
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithIgnore skips events whose base name matches fn.
func WithIgnore(fn func(name string) bool) Option {
	return func(w *Watcher) {
		w.ignore = fn
	}
}

// New creates a Watcher for root. Nothing is watched until Watch is called.
func New(root string, recursive bool, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:      abs,
		recursive: recursive,
		fsw:       fsw,
		events:    make(chan Event, 64),
		done:      make(chan struct{}),
		paths:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds the root, and every subdirectory when recursive, then runs the
// event loop until ctx is cancelled or the Watcher is closed. It returns
// once the watches are in place.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Stale reports whether a change was seen since the last Reset.
func (w *Watcher) Stale() bool {
	return w.stale.Load()
}

// Reset clears the stale flag, typically after re-planning.
func (w *Watcher) Reset() {
	w.stale.Store(false)
}

// Events delivers each change that marked the preview stale. Events are
// dropped when the channel is full; Stale stays accurate.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Done is closed when the Watcher is closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	w.paths = make(map[string]bool)
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if w.ignore != nil && w.ignore(filepath.Base(event.Name)) {
		return
	}

	if event.Has(fsnotify.Create) && w.recursive {
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			_ = w.addTree(event.Name)
		}
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.dropTree(event.Name)
	}

	if !w.stale.Swap(true) {
		logger.Info("Folder changed; preview is stale", "path", event.Name, "op", event.Op.String())
	}
	select {
	case w.events <- Event{Path: event.Name, Op: event.Op}:
	default:
	}
}

// addTree watches dir and, when recursive, every directory below it.
// Symlinks are not followed.
func (w *Watcher) addTree(dir string) error {
	if !w.recursive {
		return w.addWatch(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			return nil //nolint:nilerr // unreadable subtrees are not watched
		}
		if d.Type()&fs.ModeSymlink != 0 || !d.IsDir() {
			return nil
		}
		if path != dir && w.ignore != nil && w.ignore(d.Name()) {
			return filepath.SkipDir
		}
		return w.addWatch(path)
	})
}

func (w *Watcher) addWatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.paths[path] {
		return nil
	}
	if err := w.fsw.Add(path); err != nil {
		logger.Warn("failed to add watch", "path", path, "error", err)
		return err
	}
	w.paths[path] = true
	return nil
}

func (w *Watcher) dropTree(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for p := range w.paths {
		if p == path || isSubPath(p, path) {
			_ = w.fsw.Remove(p)
			delete(w.paths, p)
		}
	}
}

// isSubPath checks if path is under parent directory.
func isSubPath(path, parent string) bool {
	return len(path) > len(parent) && path[:len(parent)+1] == parent+string(filepath.Separator)
}
