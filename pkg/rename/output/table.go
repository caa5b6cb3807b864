package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"text/tabwriter"
)

// CSVHeader is the header row of the csv export.
var CSVHeader = []string{"Original", "New Name", "Status"}

// CSVFormatter formats the plan as comma-separated values with proper
// quoting: original file name, new name and status per row.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := writer.Write([]string{row.Original, row.NewName, string(row.Status)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// TSVFormatter formats the plan as tab-separated values with the
// directory of each row.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString("DIR\tORIGINAL\tNEW NAME\tSTATUS\n")
	for _, row := range r.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Dir, row.Original, row.NewName, row.Status)
	}
	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// MarkdownFormatter formats the plan as a GitHub-flavored Markdown table.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString("| Original | New Name | Status |\n")
	w.WriteString("|----------|----------|--------|\n")
	for _, row := range r.Rows {
		fmt.Fprintf(w, "| %s | %s | %s |\n",
			escapeMarkdownPipe(row.Original),
			escapeMarkdownPipe(row.NewName),
			row.Status)
	}
	return nil
}

// escapeMarkdownPipe escapes pipe characters in a string for Markdown tables.
func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)

// PlainFormatter formats the plan as an aligned table without colors,
// suitable for scripting and piping.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := tw.Write([]byte("ORIGINAL\tNEW NAME\tSTATUS\n")); err != nil {
		return err
	}
	for _, row := range r.Rows {
		line := joinPath(row.Dir, row.Original) + "\t" + row.NewName + "\t" + string(row.Status) + "\n"
		if _, err := tw.Write([]byte(line)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// joinPath prefixes name with a relative directory other than ".".
func joinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
