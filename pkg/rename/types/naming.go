package types

import (
	"fmt"
	"strconv"
	"strings"
)

// SortMode selects the per-folder ordering key used before counters are assigned.
type SortMode int

const (
	// SortName orders by case-insensitive file name.
	SortName SortMode = iota
	// SortModTime orders by modification time, oldest first.
	SortModTime
	// SortSize orders by size in bytes, smallest first.
	SortSize
)

// String returns the CLI spelling of the sort mode.
func (s SortMode) String() string {
	switch s {
	case SortModTime:
		return "mtime"
	case SortSize:
		return "size"
	default:
		return "name"
	}
}

// ParseSortMode parses a sort mode. It accepts the short CLI spellings as well
// as the longer labels used by interactive front ends.
func ParseSortMode(s string) (SortMode, error) {
	switch normalize(s) {
	case "", "name", "name (a→z)":
		return SortName, nil
	case "mtime", "time", "modified", "modtime", "modified time (old→new)":
		return SortModTime, nil
	case "size", "size (small→large)":
		return SortSize, nil
	default:
		return SortName, fmt.Errorf("%w: sort mode %q", ErrInvalidOption, s)
	}
}

// IndexType selects how the sequence number is rendered into the stem.
type IndexType int

const (
	// IndexNumeric renders zero-padded decimal numbers.
	IndexNumeric IndexType = iota
	// IndexAlpha renders bijective base-26 letters (A, B, ..., Z, AA).
	IndexAlpha
	// IndexRoman renders Roman numerals.
	IndexRoman
	// IndexNone omits the index token.
	IndexNone
)

// String returns the CLI spelling of the index type.
func (t IndexType) String() string {
	switch t {
	case IndexAlpha:
		return "alpha"
	case IndexRoman:
		return "roman"
	case IndexNone:
		return "none"
	default:
		return "numeric"
	}
}

// ParseIndexType parses an index type.
func ParseIndexType(s string) (IndexType, error) {
	switch normalize(s) {
	case "", "numeric", "number", "numbers":
		return IndexNumeric, nil
	case "alpha", "alphabetic", "letters":
		return IndexAlpha, nil
	case "roman":
		return IndexRoman, nil
	case "none":
		return IndexNone, nil
	default:
		return IndexNumeric, fmt.Errorf("%w: index type %q", ErrInvalidOption, s)
	}
}

// IndexPosition places the index token before or after the base name.
type IndexPosition int

const (
	// PositionAfter yields "base<sep>token".
	PositionAfter IndexPosition = iota
	// PositionBefore yields "token<sep>base".
	PositionBefore
)

// String returns the CLI spelling of the position.
func (p IndexPosition) String() string {
	if p == PositionBefore {
		return "before"
	}
	return "after"
}

// ParseIndexPosition parses an index position.
func ParseIndexPosition(s string) (IndexPosition, error) {
	switch normalize(s) {
	case "", "after", "after base":
		return PositionAfter, nil
	case "before", "before base":
		return PositionBefore, nil
	default:
		return PositionAfter, fmt.Errorf("%w: index position %q", ErrInvalidOption, s)
	}
}

// PadAuto requests the minimum width able to represent the largest index.
const PadAuto = 0

// Padding width bounds for numeric indexes.
const (
	MinPadding = 1
	MaxPadding = 6
)

// ParsePadding parses "auto" or a fixed width. Fixed widths are clamped to
// [MinPadding, MaxPadding].
func ParsePadding(s string) (int, error) {
	n := normalize(s)
	if n == "" || n == "auto" {
		return PadAuto, nil
	}
	width, err := strconv.Atoi(n)
	if err != nil {
		return PadAuto, fmt.Errorf("%w: padding %q", ErrInvalidOption, s)
	}
	return ClampPadding(width), nil
}

// ClampPadding bounds a width to [MinPadding, MaxPadding].
func ClampPadding(width int) int {
	return max(MinPadding, min(width, MaxPadding))
}

// CaseTransform is applied to the whole synthesized stem.
type CaseTransform int

const (
	CaseUnchanged CaseTransform = iota
	CaseLower
	CaseUpper
	CaseTitle
)

// String returns the CLI spelling of the case transform.
func (c CaseTransform) String() string {
	switch c {
	case CaseLower:
		return "lower"
	case CaseUpper:
		return "upper"
	case CaseTitle:
		return "title"
	default:
		return "unchanged"
	}
}

// ParseCaseTransform parses a case transform.
func ParseCaseTransform(s string) (CaseTransform, error) {
	switch normalize(s) {
	case "", "unchanged", "keep", "none":
		return CaseUnchanged, nil
	case "lower":
		return CaseLower, nil
	case "upper":
		return CaseUpper, nil
	case "title":
		return CaseTitle, nil
	default:
		return CaseUnchanged, fmt.Errorf("%w: case transform %q", ErrInvalidOption, s)
	}
}

// ExtTransform is applied to the original extension, independently of the stem.
type ExtTransform int

const (
	ExtKeep ExtTransform = iota
	ExtLower
	ExtUpper
)

// String returns the CLI spelling of the extension transform.
func (e ExtTransform) String() string {
	switch e {
	case ExtLower:
		return "lower"
	case ExtUpper:
		return "upper"
	default:
		return "keep"
	}
}

// ParseExtTransform parses an extension transform.
func ParseExtTransform(s string) (ExtTransform, error) {
	switch normalize(s) {
	case "", "keep", "unchanged":
		return ExtKeep, nil
	case "lower":
		return ExtLower, nil
	case "upper":
		return ExtUpper, nil
	default:
		return ExtKeep, fmt.Errorf("%w: extension transform %q", ErrInvalidOption, s)
	}
}

// NamingConfig is the immutable input of a single planning run.
type NamingConfig struct {
	BaseName          string        `json:"base_name" yaml:"base_name"`
	IncludeSubfolders bool          `json:"include_subfolders" yaml:"include_subfolders"`
	Sort              SortMode      `json:"sort" yaml:"sort"`
	IndexType         IndexType     `json:"index_type" yaml:"index_type"`
	IndexPosition     IndexPosition `json:"index_position" yaml:"index_position"`
	Separator         string        `json:"separator" yaml:"separator"`
	Start             int           `json:"start" yaml:"start"`
	// Padding is PadAuto or a fixed width in [MinPadding, MaxPadding].
	Padding        int           `json:"padding" yaml:"padding"`
	Case           CaseTransform `json:"case" yaml:"case"`
	Extension      ExtTransform  `json:"extension" yaml:"extension"`
	ResetPerFolder bool          `json:"reset_per_folder" yaml:"reset_per_folder"`
	AutoResolve    bool          `json:"auto_resolve" yaml:"auto_resolve"`

	// Exclude holds glob patterns matched against file base names during discovery.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// DefaultNamingConfig mirrors the defaults an interactive session starts with.
func DefaultNamingConfig() NamingConfig {
	return NamingConfig{
		Sort:          SortName,
		IndexType:     IndexNumeric,
		IndexPosition: PositionAfter,
		Separator:     "_",
		Start:         1,
		Padding:       PadAuto,
		Case:          CaseUnchanged,
		Extension:     ExtKeep,
		AutoResolve:   true,
	}
}

// TrimmedBase returns the base name with surrounding whitespace removed.
func (c NamingConfig) TrimmedBase() string {
	return strings.TrimSpace(c.BaseName)
}

// Validate reports configuration errors that must abort planning.
func (c NamingConfig) Validate() error {
	if c.TrimmedBase() == "" {
		return ErrEmptyBaseName
	}
	if c.Start < 0 {
		return fmt.Errorf("%w: start must be non-negative, got %d", ErrInvalidOption, c.Start)
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SplitName splits a file name into stem and extension. The extension keeps
// its leading dot. Dot-files without a further dot (".bashrc") and names
// ending in a dot have no extension.
func SplitName(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}

// Text encodings let the enums appear by name in JSON, YAML, and journal entries.

func (s SortMode) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SortMode) UnmarshalText(b []byte) (err error) {
	*s, err = ParseSortMode(string(b))
	return err
}

func (t IndexType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *IndexType) UnmarshalText(b []byte) (err error) {
	*t, err = ParseIndexType(string(b))
	return err
}

func (p IndexPosition) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *IndexPosition) UnmarshalText(b []byte) (err error) {
	*p, err = ParseIndexPosition(string(b))
	return err
}

func (c CaseTransform) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CaseTransform) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCaseTransform(string(b))
	return err
}

func (e ExtTransform) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *ExtTransform) UnmarshalText(b []byte) (err error) {
	*e, err = ParseExtTransform(string(b))
	return err
}
