package tui

import (
	"fmt"
	"strings"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// separators are offered in this order by the separator key.
var separators = []string{"_", "-", " ", ".", ""}

// cycle returns the value after v in [0, n).
func cycle(v, n int) int {
	return (v + 1) % n
}

// applyOptionKey changes the naming option bound to key. It reports
// whether key is an option key.
func applyOptionKey(cfg *types.NamingConfig, key string) bool {
	switch key {
	case "i":
		cfg.IndexType = types.IndexType(cycle(int(cfg.IndexType), int(types.IndexNone)+1))
	case "p":
		cfg.IndexPosition = types.IndexPosition(cycle(int(cfg.IndexPosition), int(types.PositionBefore)+1))
	case "c":
		cfg.Case = types.CaseTransform(cycle(int(cfg.Case), int(types.CaseTitle)+1))
	case "x":
		cfg.Extension = types.ExtTransform(cycle(int(cfg.Extension), int(types.ExtUpper)+1))
	case "s":
		cfg.Sort = types.SortMode(cycle(int(cfg.Sort), int(types.SortSize)+1))
	case "S":
		cfg.Separator = nextSeparator(cfg.Separator)
	case "R":
		cfg.IncludeSubfolders = !cfg.IncludeSubfolders
	case "a":
		cfg.AutoResolve = !cfg.AutoResolve
	case "f":
		cfg.ResetPerFolder = !cfg.ResetPerFolder
	case "+", "=":
		cfg.Padding = nextPadding(cfg.Padding, 1)
	case "-":
		cfg.Padding = nextPadding(cfg.Padding, -1)
	case "]":
		cfg.Start++
	case "[":
		if cfg.Start > 0 {
			cfg.Start--
		}
	default:
		return false
	}
	return true
}

func nextSeparator(cur string) string {
	for i, s := range separators {
		if s == cur {
			return separators[cycle(i, len(separators))]
		}
	}
	return separators[0]
}

// nextPadding steps through auto, 1..MaxPadding. Stepping down from the
// smallest width returns to auto.
func nextPadding(cur, step int) int {
	next := cur + step
	switch {
	case next < types.MinPadding:
		return types.PadAuto
	case next > types.MaxPadding:
		return types.MaxPadding
	default:
		return next
	}
}

func paddingLabel(p int) string {
	if p == types.PadAuto {
		return "auto"
	}
	return fmt.Sprint(p)
}

func separatorLabel(s string) string {
	switch s {
	case "":
		return "none"
	case " ":
		return "space"
	default:
		return fmt.Sprintf("%q", s)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// renderOptions renders the naming options, two rows wide.
func renderOptions(cfg types.NamingConfig) string {
	opt := func(key, label, value string) string {
		return keyStyle.Render(key) + " " + optionLabelStyle.Render(label+":") + " " + optionValueStyle.Render(value)
	}

	row1 := []string{
		opt("b", "base", cfg.BaseName),
		opt("i", "index", cfg.IndexType.String()),
		opt("p", "position", cfg.IndexPosition.String()),
		opt("S", "sep", separatorLabel(cfg.Separator)),
		opt("[]", "start", fmt.Sprint(cfg.Start)),
		opt("+-", "pad", paddingLabel(cfg.Padding)),
	}
	row2 := []string{
		opt("s", "sort", cfg.Sort.String()),
		opt("c", "case", cfg.Case.String()),
		opt("x", "ext", cfg.Extension.String()),
		opt("R", "subfolders", onOff(cfg.IncludeSubfolders)),
		opt("f", "reset/folder", onOff(cfg.ResetPerFolder)),
		opt("a", "auto-resolve", onOff(cfg.AutoResolve)),
	}
	return "  " + strings.Join(row1, "  ") + "\n  " + strings.Join(row2, "  ")
}
