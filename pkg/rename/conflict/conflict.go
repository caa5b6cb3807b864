// Package conflict finds a free file name when a planned target is already
// taken on disk.
package conflict

import (
	"fmt"
	"path/filepath"

	"github.com/jamesainslie/rename/pkg/rename/fsops"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

// ExistsFunc reports whether a path is occupied.
type ExistsFunc func(path string) bool

// Resolver appends " (N)" disambiguators to names that exist on disk. It only
// consults the filesystem; callers track targets claimed by their own plan.
type Resolver struct {
	exists ExistsFunc
}

// NewResolver returns a resolver that checks the real filesystem.
func NewResolver() *Resolver {
	return &Resolver{exists: fsops.Exists}
}

// NewResolverWithExists returns a resolver using a custom existence check.
func NewResolverWithExists(exists ExistsFunc) *Resolver {
	if exists == nil {
		exists = fsops.Exists
	}
	return &Resolver{exists: exists}
}

// Resolve returns candidate if it is free, otherwise the first free
// "stem (N).ext" variant with N counting from 1.
func (r *Resolver) Resolve(candidate string) string {
	return r.ResolveFunc(candidate, r.exists)
}

// ResolveFunc is Resolve with a per-call occupancy check. The planner uses it
// to treat its own claimed targets as occupied in addition to the disk.
func (r *Resolver) ResolveFunc(candidate string, occupied ExistsFunc) string {
	if !occupied(candidate) {
		return candidate
	}

	dir := filepath.Dir(candidate)
	stem, ext := types.SplitName(filepath.Base(candidate))

	for n := 1; ; n++ {
		next := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if !occupied(next) {
			return next
		}
	}
}
