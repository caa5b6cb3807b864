package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// document is the structure written by the json and yaml formatters.
type document struct {
	Folder    string        `json:"folder" yaml:"folder"`
	Example   string        `json:"example,omitempty" yaml:"example,omitempty"`
	Summary   types.Summary `json:"summary" yaml:"summary"`
	Rows      []documentRow `json:"rows" yaml:"rows"`
	Execution *documentExec `json:"execution,omitempty" yaml:"execution,omitempty"`
	Warnings  []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type documentRow struct {
	Original  string       `json:"original" yaml:"original"`
	NewName   string       `json:"new_name" yaml:"new_name"`
	Status    types.Status `json:"status" yaml:"status"`
	Dir       string       `json:"dir" yaml:"dir"`
	Path      string       `json:"path" yaml:"path"`
	Target    string       `json:"target" yaml:"target"`
	Size      int64        `json:"size" yaml:"size"`
	SizeHuman string       `json:"size_human" yaml:"size_human"`
	ModTime   time.Time    `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
}

type documentExec struct {
	Succeeded int                `json:"succeeded" yaml:"succeeded"`
	Failed    int                `json:"failed" yaml:"failed"`
	Failures  []types.RowFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Elapsed   string             `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
}

func buildDocument(r *Result) document {
	rows := make([]documentRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = documentRow(row)
	}

	doc := document{
		Folder:   r.Folder,
		Example:  r.Example,
		Summary:  r.Summary,
		Rows:     rows,
		Warnings: r.Warnings,
	}
	if r.Execution != nil {
		doc.Execution = &documentExec{
			Succeeded: r.Execution.Succeeded,
			Failed:    r.Execution.Failed,
			Failures:  r.Execution.Failures,
			Elapsed:   formatDurationString(r.Execution.Elapsed),
		}
	}
	return doc
}

// formatDurationString formats a duration as a string for structured output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(r))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter writes one compact JSON object per row, suitable for
// streaming through tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, row := range r.Rows {
		data, err := json.Marshal(documentRow(row))
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
