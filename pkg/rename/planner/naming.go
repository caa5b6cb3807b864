package planner

import (
	"strings"
	"unicode"

	"github.com/jamesainslie/rename/pkg/rename/index"
	"github.com/jamesainslie/rename/pkg/rename/sanitize"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

// DefaultSampleCount sizes the auto padding of PreviewName when no plan has
// been built yet.
const DefaultSampleCount = 120

// sampleExt is the extension shown by PreviewName.
const sampleExt = ".jpg"

// globalKey groups every file under one counter when counters are not reset
// per folder. Directory paths are never empty, so it cannot collide.
const globalKey = ""

// counter hands out sequence numbers per grouping key in call order.
type counter struct {
	start  int
	reset  bool
	values map[string]int
}

func newCounter(start int, resetPerFolder bool) *counter {
	return &counter{start: start, reset: resetPerFolder, values: make(map[string]int)}
}

// next returns the sequence number for a file in dir and advances the
// counter for its group.
func (c *counter) next(dir string) int {
	key := globalKey
	if c.reset {
		key = dir
	}
	v, ok := c.values[key]
	if !ok {
		v = c.start
	}
	c.values[key] = v + 1
	return v
}

// synthesize builds the new file name for a source called original.
func synthesize(base, token, original string, cfg types.NamingConfig) string {
	_, ext := types.SplitName(original)
	return stem(base, token, cfg) + transformExt(ext, cfg.Extension)
}

// stem joins base and token, applies the case transform, and sanitizes.
func stem(base, token string, cfg types.NamingConfig) string {
	parts := []string{base, token}
	if cfg.IndexPosition == types.PositionBefore {
		parts = []string{token, base}
	}

	kept := parts[:0]
	for _, s := range parts {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return sanitize.Sanitize(applyCase(strings.Join(kept, cfg.Separator), cfg.Case))
}

func applyCase(s string, c types.CaseTransform) string {
	switch c {
	case types.CaseLower:
		return strings.ToLower(s)
	case types.CaseUpper:
		return strings.ToUpper(s)
	case types.CaseTitle:
		return titleCase(s)
	default:
		return s
	}
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "img_001x" becomes "Img_001X".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			r = unicode.ToTitle(r)
		case isLetter:
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
		prevLetter = isLetter
	}
	return b.String()
}

func transformExt(ext string, t types.ExtTransform) string {
	switch t {
	case types.ExtLower:
		return strings.ToLower(ext)
	case types.ExtUpper:
		return strings.ToUpper(ext)
	default:
		return ext
	}
}

// PreviewName returns the name the first file of a sampleCount-file batch
// would get, using a ".jpg" extension. A blank base yields "".
func PreviewName(cfg types.NamingConfig, sampleCount int) string {
	base := cfg.TrimmedBase()
	if base == "" {
		return ""
	}
	if sampleCount <= 0 {
		sampleCount = DefaultSampleCount
	}
	width := index.Padding(cfg.IndexType, cfg.Padding, cfg.Start, sampleCount)
	token := index.Format(cfg.IndexType, cfg.Start, width)
	return stem(base, token, cfg) + transformExt(sampleExt, cfg.Extension)
}
