// Package types provides the core data types for the rename engine.
// It includes the naming configuration, discovered source entries, planned
// rows and batches, undo records, and utility functions for parsing and
// formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Planning and execution errors.
var (
	// ErrInvalidFolder is returned when the folder to plan does not exist or is not a directory.
	ErrInvalidFolder = errors.New("invalid folder")

	// ErrEmptyBaseName is returned when the base name is blank after trimming.
	ErrEmptyBaseName = errors.New("base name cannot be empty")

	// ErrNoFilesFound is returned when discovery yields no files.
	ErrNoFilesFound = errors.New("no files found")

	// ErrHasUnresolvedConflicts rejects an entire batch before any rename happens.
	ErrHasUnresolvedConflicts = errors.New("plan has unresolved conflicts")

	// ErrPermissionDenied marks a per-row failure caused by missing permissions.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMissingTarget marks an undo record whose renamed file no longer exists.
	ErrMissingTarget = errors.New("target missing")

	// ErrNothingToUndo is returned when the undo log is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrInvalidOption is returned when a naming option cannot be parsed.
	ErrInvalidOption = errors.New("invalid option")
)

// SourceEntry is a discovered file. It is immutable once discovered.
type SourceEntry struct {
	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Dir is the parent directory of the file.
	Dir string `json:"dir"`

	// Name is the base name of the file.
	Name string `json:"name"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// NewSourceEntry builds an entry for path, deriving Dir and Name.
func NewSourceEntry(path string, modTime time.Time, size int64) SourceEntry {
	return SourceEntry{
		Path:    path,
		Dir:     filepath.Dir(path),
		Name:    filepath.Base(path),
		ModTime: modTime,
		Size:    size,
	}
}

// HumanSize returns the entry size formatted as a human-readable string.
func (e *SourceEntry) HumanSize() string {
	return FormatSize(e.Size)
}

// Status classifies a planned row.
type Status string

const (
	// StatusOK rows are renamed by the executor.
	StatusOK Status = "ok"
	// StatusSkipUnchanged rows already carry their computed name.
	StatusSkipUnchanged Status = "skip-unchanged"
	// StatusConflict rows collide and auto-resolve is off.
	StatusConflict Status = "conflict"
)

// PlanRow is one planned rename.
type PlanRow struct {
	// Source is the entry being renamed.
	Source SourceEntry `json:"source"`

	// NewName is the computed file name (after any conflict resolution).
	NewName string `json:"new_name"`

	// Target is the final target path. For conflict rows it is the
	// unresolved candidate and is not claimed.
	Target string `json:"target"`

	// Status is the row classification.
	Status Status `json:"status"`
}

// Summary is the run summary reported after planning.
type Summary struct {
	TotalFiles    int `json:"total_files" yaml:"total_files"`
	ConflictCount int `json:"conflict_count" yaml:"conflict_count"`
	PendingCount  int `json:"pending_count" yaml:"pending_count"`
	SkippedCount  int `json:"skipped_count" yaml:"skipped_count"`
}

// RenamePlan is the ordered result of planning. Rows follow the sorted
// discovery order, and at most one ok row targets any given path.
type RenamePlan struct {
	Folder  string       `json:"folder"`
	Config  NamingConfig `json:"config"`
	Rows    []PlanRow    `json:"rows"`
	Created time.Time    `json:"created"`
}

// Summary counts rows by status.
func (p *RenamePlan) Summary() Summary {
	s := Summary{TotalFiles: len(p.Rows)}
	for _, r := range p.Rows {
		switch r.Status {
		case StatusConflict:
			s.ConflictCount++
		case StatusOK:
			s.PendingCount++
		case StatusSkipUnchanged:
			s.SkippedCount++
		}
	}
	return s
}

// Pending returns the ok rows in plan order.
func (p *RenamePlan) Pending() []PlanRow {
	rows := make([]PlanRow, 0, len(p.Rows))
	for _, r := range p.Rows {
		if r.Status == StatusOK {
			rows = append(rows, r)
		}
	}
	return rows
}

// HasConflicts reports whether any row is an unresolved conflict.
func (p *RenamePlan) HasConflicts() bool {
	for _, r := range p.Rows {
		if r.Status == StatusConflict {
			return true
		}
	}
	return false
}

// UndoRecord pairs the path a file was renamed to with its original path.
type UndoRecord struct {
	Target string `json:"target"`
	Source string `json:"source"`
}

// RowFailure describes one failed rename or revert.
type RowFailure struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Err    error  `json:"-" yaml:"-"`
	Reason string `json:"reason" yaml:"reason"`
}

// Error implements error.
func (f RowFailure) Error() string {
	return fmt.Sprintf("%s -> %s: %s", f.Source, f.Target, f.Reason)
}

// Unwrap returns the underlying error.
func (f RowFailure) Unwrap() error {
	return f.Err
}

// ExecutionResult is reported after an execution or undo batch.
type ExecutionResult struct {
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
	Failures  []RowFailure  `json:"failures,omitempty" yaml:"failures,omitempty"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Progress is emitted after each row of a batch.
type Progress struct {
	Current int
	Total   int
	Source  string
	Target  string
	Err     error
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string such as "10MB" or "1.5G"
// and returns the size in bytes. Units are binary (1K = 1024).
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units, e.g. FormatSize(1024) returns "1.0 KiB".
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
