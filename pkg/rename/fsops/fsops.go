// Package fsops wraps the filesystem primitives the rename engine mutates
// the disk with. Renames never replace an existing destination, so a file
// created by another process after a plan was previewed causes an ordinary
// per-row failure instead of silent data loss.
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// Rename moves src to dst on the same filesystem. It fails with an error
// matching fs.ErrExist when dst is already occupied by a different file.
func Rename(src, dst string) error {
	return rename(src, dst)
}

// Exists reports whether path names an existing directory entry. Dangling
// symlinks count as existing.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// SameFile reports whether a and b refer to the same file on disk. It is
// used to recognise case-only renames on case-insensitive filesystems.
func SameFile(a, b string) bool {
	ai, err := os.Lstat(a)
	if err != nil {
		return false
	}
	bi, err := os.Lstat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// Classify maps a rename error onto the engine's error taxonomy and returns
// a short reason for log lines along with the classified error.
func Classify(err error) (string, error) {
	switch {
	case err == nil:
		return "", nil
	case errors.Is(err, types.ErrMissingTarget):
		return "missing", err
	case errors.Is(err, fs.ErrPermission):
		return "permission denied", fmt.Errorf("%w: %w", types.ErrPermissionDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return "source missing", err
	case errors.Is(err, fs.ErrExist):
		return "target exists", err
	default:
		return err.Error(), err
	}
}

// fallbackRename checks for an occupied destination before calling
// os.Rename. The check and the rename are not atomic.
func fallbackRename(src, dst string) error {
	if Exists(dst) && !SameFile(src, dst) {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	}
	return os.Rename(src, dst)
}
