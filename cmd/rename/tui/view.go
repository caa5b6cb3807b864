package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/rename/pkg/rename/planner"
)

// logPanelHeight is the number of lines the open log panel takes.
const logPanelHeight = 9

// mainChrome is the number of lines around the plan rows on the main
// screen, borders included.
const mainChrome = 13

// View renders the current state.
func (m Model) View() string {
	switch m.state {
	case StatePlanning:
		return m.renderPlanning()
	case StatePlan, StateEditBase:
		return m.renderMain()
	case StateConfirm:
		return m.renderConfirmDialog()
	case StateRunning:
		return m.renderRunning()
	case StateDone:
		return m.renderDone()
	}
	return ""
}

func (m Model) contentWidth() int {
	return max(m.width-4, 40)
}

// listHeight returns the number of plan rows that fit on the main screen.
func (m Model) listHeight() int {
	h := m.height - mainChrome
	if m.logs != nil && m.logs.open {
		h -= logPanelHeight + 1
	}
	return max(h, 3)
}

func (m Model) renderPlanning() string {
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s Planning %s...", m.spinner.View(), truncateLeft(m.options.Folder, width-16)))
	b.WriteString("\n\n")
	b.WriteString(center(keyHint("q", "Quit"), width))
	b.WriteString("\n")

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderHeader renders the title line with the folder and plan stats.
func (m Model) renderHeader() string {
	header := " " + titleStyle.Render("RENAME") + "  " + mutedTextStyle.Render(truncateLeft(m.options.Folder, m.contentWidth()/2))

	if m.plan != nil {
		header += mutedTextStyle.Render(fmt.Sprintf("  •  %s files", humanize.Comma(int64(len(m.plan.Rows)))))
	}
	if m.planning {
		header += "  " + m.spinner.View()
	}
	if m.stale {
		header += warningTextStyle.Render("  ● STALE")
	}
	return header
}

// example returns the sample name for the current options.
func (m Model) example() string {
	count := planner.DefaultSampleCount
	if m.plan != nil && len(m.plan.Rows) > 0 {
		count = len(m.plan.Rows)
	}
	return planner.PreviewName(m.naming, count)
}

func (m Model) renderMain() string {
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.state == StateEditBase {
		b.WriteString("  " + m.baseInput.View())
	} else {
		b.WriteString("  " + optionLabelStyle.Render("Example: ") + exampleStyle.Render(m.example()))
	}
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	b.WriteString(renderOptions(m.naming))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	b.WriteString(m.list.view(width))
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	b.WriteString(m.renderSummary(width))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	if m.logs.open {
		b.WriteString("\n")
		b.WriteString(renderDivider(width))
		b.WriteString("\n")
		b.WriteString(m.logs.view(width, logPanelHeight))
	}

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderSummary renders the summary line with the cursor position on the
// right.
func (m Model) renderSummary(width int) string {
	var left string
	switch {
	case m.planErr != nil:
		left = errorTextStyle.Render("  " + m.planErr.Error())
	case m.plan != nil:
		s := m.plan.Summary()
		left = "  " + planner.SummaryLine(s)
		if s.ConflictCount > 0 {
			left = "  " + errorTextStyle.Render(planner.SummaryLine(s))
		}
	}
	right := mutedTextStyle.Render(m.list.position())

	spacing := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", spacing) + right
}

// renderStatus renders the last status message, or the conflict tip.
func (m Model) renderStatus() string {
	switch {
	case m.status != "" && m.statusErr:
		return errorTextStyle.Render("  " + m.status)
	case m.status != "":
		return warningTextStyle.Render("  " + m.status)
	case m.plan != nil && m.plan.HasConflicts() && !m.naming.AutoResolve:
		return warningTextStyle.Render("  " + planner.ConflictTip)
	}
	return ""
}

func (m Model) renderHelpBar() string {
	if m.state == StateEditBase {
		return "  " + keyHint("Enter", "Done") + "  " + keyHint("Esc", "Cancel")
	}
	hints := []string{
		keyHint("Enter", "Apply"),
		keyHint("u", "Undo"),
		keyHint("r", "Re-plan"),
		keyHint("↑↓", "Scroll"),
		keyHint("L", "Logs"),
		keyHint("q", "Quit"),
	}
	return "  " + strings.Join(hints, "  ")
}

// renderConfirmDialog renders the rename or undo confirmation centered on
// the screen.
func (m Model) renderConfirmDialog() string {
	title, text, action := "Confirm Rename", "", "Rename"
	if m.confirmUndo {
		title, action = "Confirm Undo", "Undo"
		text = fmt.Sprintf("Revert %d file(s) to their previous names?", len(m.executor.UndoLog()))
	} else if m.plan != nil {
		text = fmt.Sprintf("Rename %d file(s) in %s?", m.plan.Summary().PendingCount, truncateLeft(m.options.Folder, 24))
	}

	var content strings.Builder
	content.WriteString(dialogTitleStyle.Render(title))
	content.WriteString("\n\n")
	content.WriteString(dialogTextStyle.Render(text))
	content.WriteString("\n\n")

	cancelBtn := inactiveButtonStyle.Render("Cancel")
	actionBtn := inactiveButtonStyle.Render(action)
	if m.confirmFocused == 0 {
		cancelBtn = activeButtonStyle.Render("Cancel")
	} else {
		actionBtn = activeButtonStyle.Render(action)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, "  ", actionBtn)
	content.WriteString(center(buttons, 46))

	dialog := dialogBoxStyle.Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m Model) renderRunning() string {
	width := m.contentWidth()

	title, verb := "Renaming files...", "Renaming"
	if m.undoing {
		title, verb = "Undoing last batch...", "Reverting"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s: %d / %d files", m.spinner.View(), verb, m.current.Current, m.current.Total))
	b.WriteString("\n\n")
	b.WriteString("  " + m.progress.View())
	b.WriteString("\n\n")

	if m.current.Source != "" {
		line := fmt.Sprintf("%s -> %s", truncateLeft(m.current.Source, width/2-4), truncateLeft(m.current.Target, width/2-4))
		style := mutedTextStyle
		if m.current.Err != nil {
			style = errorTextStyle
		}
		b.WriteString("  " + style.Render(line))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(center(keyHint("Esc", "Cancel"), width))
	b.WriteString("\n")

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderDone() string {
	width := m.contentWidth()

	title := "Rename Complete"
	if m.undoing {
		title = "Undo Complete"
	}

	var b strings.Builder
	b.WriteString(successTextStyle.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n\n")

	if res := m.result; res != nil {
		b.WriteString(fmt.Sprintf("  Success: %d, Failed: %d", res.Succeeded, res.Failed))
		if res.Elapsed > 0 {
			b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  (%s)", res.Elapsed.Round(time.Millisecond))))
		}
		b.WriteString("\n")

		if len(res.Failures) > 0 {
			b.WriteString("\n")
			const maxFailures = 5
			for i, f := range res.Failures {
				if i >= maxFailures {
					b.WriteString(errorTextStyle.Render(fmt.Sprintf("    ... and %d more", len(res.Failures)-maxFailures)))
					b.WriteString("\n")
					break
				}
				b.WriteString(errorTextStyle.Render(fmt.Sprintf("    [%s] %s", f.Reason, truncateLeft(f.Source, width-16))))
				b.WriteString("\n")
			}
		}
	}
	if m.runErr != nil {
		b.WriteString(warningTextStyle.Render("  Stopped before finishing: " + m.runErr.Error()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := []string{keyHint("Enter", "Back to preview")}
	if m.executor.CanUndo() {
		hints = append(hints, keyHint("u", "Undo"))
	}
	hints = append(hints, keyHint("q", "Quit"))
	b.WriteString(center(strings.Join(hints, "  "), width))
	b.WriteString("\n")

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}
