package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	// MaxSize is the size in bytes that triggers rotation. Zero uses 5 MiB.
	MaxSize int64

	// MaxAge is the number of days rotated files are kept. Zero keeps them
	// regardless of age.
	MaxAge int

	// MaxBackups is the number of rotated files kept. Zero keeps all of them.
	MaxBackups int
}

// DefaultRotationConfig returns the rotation used when none is configured.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSize:    5 * types.MiB,
		MaxAge:     14,
		MaxBackups: 3,
	}
}

// backupLayout is appended to the log path for rotated files.
const backupLayout = "20060102T150405.000"

// RotatingWriter is an io.WriteCloser that rotates its file once it grows
// past the configured size. It is safe for concurrent use.
type RotatingWriter struct {
	mu   sync.Mutex
	path string
	cfg  RotationConfig
	file *os.File
	size int64
	now  func() time.Time
}

// NewRotatingWriter opens path for appending, creating parent directories.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultRotationConfig().MaxSize
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &RotatingWriter{path: path, cfg: cfg, now: time.Now}
	if err := w.open(); err != nil {
		return nil, err
	}
	w.prune()
	return w, nil
}

// Write appends p, rotating first if p would push the file past MaxSize.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.cfg.MaxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the current file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Backups returns rotated files for this writer, oldest first.
func (w *RotatingWriter) Backups() ([]string, error) {
	matches, err := filepath.Glob(w.path + ".*")
	if err != nil {
		return nil, err
	}
	backups := matches[:0]
	for _, m := range matches {
		suffix := strings.TrimPrefix(m, w.path+".")
		if _, err := time.Parse(backupLayout, suffix); err == nil {
			backups = append(backups, m)
		}
	}
	sort.Strings(backups)
	return backups, nil
}

func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	w.file = f
	w.size = info.Size()
	return nil
}

func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	w.file = nil

	backup := w.path + "." + w.now().Format(backupLayout)
	if err := os.Rename(w.path, backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotating log file: %w", err)
	}
	if err := w.open(); err != nil {
		return err
	}
	w.prune()
	return nil
}

// prune removes rotated files beyond MaxBackups or older than MaxAge.
// Failures are ignored; a stale backup is harmless.
func (w *RotatingWriter) prune() {
	backups, err := w.Backups()
	if err != nil || len(backups) == 0 {
		return
	}

	keep := backups
	if w.cfg.MaxBackups > 0 && len(keep) > w.cfg.MaxBackups {
		for _, old := range keep[:len(keep)-w.cfg.MaxBackups] {
			_ = os.Remove(old)
		}
		keep = keep[len(keep)-w.cfg.MaxBackups:]
	}

	if w.cfg.MaxAge > 0 {
		cutoff := w.now().AddDate(0, 0, -w.cfg.MaxAge)
		for _, b := range keep {
			info, err := os.Stat(b)
			if err == nil && info.ModTime().Before(cutoff) {
				_ = os.Remove(b)
			}
		}
	}
}
