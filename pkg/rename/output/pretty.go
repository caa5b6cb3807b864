package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))

	if r.Execution != nil {
		w.WriteString("\n")
		w.WriteString(f.formatExecution(r.Execution))
	}
	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Result) string {
	lines := []string{
		TitleStyle.Render("Rename plan"),
		LabelStyle.Render("Folder:") + " " + ValueStyle.Render(r.Folder),
	}
	if r.Example != "" {
		lines = append(lines, LabelStyle.Render("Example:")+" "+ValueStyle.Render(r.Example))
	}
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Rows) == 0 {
		return MutedStyle.Render("  No files to rename\n")
	}

	originals := make([]string, len(r.Rows))
	width := len("ORIGINAL")
	for i, row := range r.Rows {
		originals[i] = joinPath(row.Dir, row.Original)
		width = max(width, lipgloss.Width(originals[i]))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s    %s  %s\n",
		TableHeaderStyle.Render(padRight("ORIGINAL", width)),
		TableHeaderStyle.Render("NEW NAME"),
		TableHeaderStyle.Render("STATUS"))

	for i, row := range r.Rows {
		name := row.NewName
		if row.Status == types.StatusConflict {
			name = ErrorStyle.Render(name)
		}
		fmt.Fprintf(&sb, "  %s %s %s  %s\n",
			padRight(originals[i], width),
			ArrowStyle.Render("->"),
			name,
			StatusStyle(row.Status).Render(string(row.Status)))
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Result) string {
	s := r.Summary
	parts := []string{
		LabelStyle.Render("Files:") + " " + ValueStyle.Render(humanize.Comma(int64(s.TotalFiles))),
		LabelStyle.Render("Rename:") + " " + SuccessStyle.Render(fmt.Sprintf("%d", s.PendingCount)),
		LabelStyle.Render("Unchanged:") + " " + MutedStyle.Render(fmt.Sprintf("%d", s.SkippedCount)),
	}

	conflicts := fmt.Sprintf("%d", s.ConflictCount)
	if s.ConflictCount > 0 {
		conflicts = ErrorStyle.Bold(true).Render(conflicts)
	} else {
		conflicts = MutedStyle.Render(conflicts)
	}
	parts = append(parts,
		LabelStyle.Render("Conflicts:")+" "+conflicts,
		LabelStyle.Render("Size:")+" "+ValueStyle.Render(humanize.IBytes(uint64(r.TotalSize()))),
	)
	return FooterBox.Render(strings.Join(parts, "  "))
}

func (f *PrettyFormatter) formatExecution(res *types.ExecutionResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s  %s %s  %s\n",
		LabelStyle.Render("Success:"), SuccessStyle.Render(fmt.Sprintf("%d", res.Succeeded)),
		LabelStyle.Render("Failed:"), failedCount(res.Failed),
		MutedStyle.Render(formatDuration(res.Elapsed)))

	if len(res.Failures) == 0 {
		return sb.String()
	}
	lines := make([]string, len(res.Failures))
	for i, fail := range res.Failures {
		lines[i] = ErrorStyle.Render(fmt.Sprintf("[%s] %s", fail.Reason, fail.Source))
	}
	sb.WriteString(ErrorBox.Render(strings.Join(lines, "\n")))
	sb.WriteString("\n")
	return sb.String()
}

func failedCount(n int) string {
	if n == 0 {
		return MutedStyle.Render("0")
	}
	return ErrorStyle.Bold(true).Render(fmt.Sprintf("%d", n))
}

func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder
	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")
	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}
	return sb.String()
}

// padRight pads s with spaces on the right to the given display width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
