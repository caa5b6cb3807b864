//go:build linux

package fsops

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// rename uses renameat2(RENAME_NOREPLACE) so the existence check and the
// rename happen in one syscall. Filesystems without support for the flag
// (EINVAL) and old kernels (ENOSYS) fall back to a check-then-rename.
func rename(src, dst string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dst, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOSYS):
		return fallbackRename(src, dst)
	case errors.Is(err, unix.EEXIST) && SameFile(src, dst):
		// Case-only rename on a case-insensitive filesystem.
		return os.Rename(src, dst)
	default:
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
}
