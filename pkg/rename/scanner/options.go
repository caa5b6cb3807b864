// Package scanner discovers the regular files a rename batch operates on. It
// walks the folder in parallel with fastwalk and gathers read-only metadata;
// ordering is left to the planner.
package scanner

import (
	"fmt"
	"path/filepath"
)

// Options configures discovery.
type Options struct {
	// Root is the folder to scan.
	Root string

	// Recursive descends into subfolders. Otherwise only direct children of
	// Root are considered.
	Recursive bool

	// Exclude holds glob patterns matched against base names. A matching
	// directory is not descended into.
	Exclude []string

	// SkipHidden leaves out dot-files and does not descend into
	// dot-directories. By default every regular file is discovered.
	SkipHidden bool

	// Workers bounds the number of walker goroutines. Zero lets fastwalk
	// pick based on the CPU count.
	Workers int
}

// Validate checks exclude patterns for syntax errors.
func (o *Options) Validate() error {
	for _, p := range o.Exclude {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}
	if o.Workers < 0 {
		o.Workers = 0
	}
	return nil
}

func (o *Options) excluded(name string) bool {
	if o.SkipHidden && len(name) > 1 && name[0] == '.' {
		return true
	}
	for _, p := range o.Exclude {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
