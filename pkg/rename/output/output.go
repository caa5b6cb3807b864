// Package output provides formatters for displaying and exporting rename
// plans in various output formats (pretty, csv, json, yaml, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, output.FromPlan(plan)); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// Row is one planned rename prepared for formatting.
type Row struct {
	// Original is the current file name.
	Original string `json:"original" yaml:"original"`

	// NewName is the planned file name.
	NewName string `json:"new_name" yaml:"new_name"`

	// Status is the row classification (ok, skip-unchanged, conflict).
	Status types.Status `json:"status" yaml:"status"`

	// Dir is the file's directory relative to the plan folder ("." for the
	// folder itself).
	Dir string `json:"dir" yaml:"dir"`

	// Path is the absolute source path.
	Path string `json:"path" yaml:"path"`

	// Target is the absolute target path.
	Target string `json:"target" yaml:"target"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable file size (e.g., "1.5 MiB").
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Result contains the complete output data for formatting.
type Result struct {
	// Folder is the root folder of the plan.
	Folder string `json:"folder" yaml:"folder"`

	// Rows are the planned renames in plan order.
	Rows []Row `json:"rows" yaml:"rows"`

	// Summary counts rows by status.
	Summary types.Summary `json:"summary" yaml:"summary"`

	// Example is a sample name for the naming configuration.
	Example string `json:"example,omitempty" yaml:"example,omitempty"`

	// Execution is set once the plan has been applied.
	Execution *types.ExecutionResult `json:"execution,omitempty" yaml:"execution,omitempty"`

	// Warnings contains messages such as discovery errors.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FromPlan converts a plan to a Result.
func FromPlan(plan *types.RenamePlan) *Result {
	r := &Result{Rows: []Row{}}
	if plan == nil {
		return r
	}
	r.Folder = plan.Folder
	r.Summary = plan.Summary()
	r.Rows = make([]Row, len(plan.Rows))
	for i, pr := range plan.Rows {
		r.Rows[i] = Row{
			Original:  pr.Source.Name,
			NewName:   pr.NewName,
			Status:    pr.Status,
			Dir:       relDir(plan.Folder, pr.Source.Dir),
			Path:      pr.Source.Path,
			Target:    pr.Target,
			Size:      pr.Source.Size,
			SizeHuman: pr.Source.HumanSize(),
			ModTime:   pr.Source.ModTime,
		}
	}
	return r
}

// TotalSize returns the sum of all row sizes in the result.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, row := range r.Rows {
		total += row.Size
	}
	return total
}

func relDir(root, dir string) string {
	if root == "" {
		return dir
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dir
	}
	return filepath.ToSlash(rel)
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry, replacing any
// existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// FormatForPath picks a formatter name from a file extension, falling back
// to csv.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv":
		return "tsv"
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "csv"
	}
}
