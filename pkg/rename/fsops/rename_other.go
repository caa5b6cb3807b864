//go:build !linux

package fsops

func rename(src, dst string) error {
	return fallbackRename(src, dst)
}
