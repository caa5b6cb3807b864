package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// planList is the scrollable table of plan rows.
type planList struct {
	folder string
	rows   []types.PlanRow
	cursor int
	offset int
	height int
}

func newPlanList(folder string, rows []types.PlanRow) planList {
	return planList{folder: folder, rows: rows, height: 10}
}

// setRows replaces the rows and keeps the cursor in range.
func (l *planList) setRows(rows []types.PlanRow) {
	l.rows = rows
	if l.cursor >= len(rows) {
		l.cursor = max(len(rows)-1, 0)
	}
	l.ensureVisible()
}

func (l *planList) setHeight(h int) {
	l.height = max(h, 1)
	l.ensureVisible()
}

// handleKey moves the cursor. It reports whether key was a navigation key.
func (l *planList) handleKey(key string) bool {
	switch key {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.rows)-1 {
			l.cursor++
		}
	case "home", "g":
		l.cursor = 0
	case "end", "G":
		l.cursor = max(len(l.rows)-1, 0)
	case "pgup":
		l.cursor = max(l.cursor-l.height, 0)
	case "pgdown":
		l.cursor = max(min(l.cursor+l.height, len(l.rows)-1), 0)
	default:
		return false
	}
	l.ensureVisible()
	return true
}

// ensureVisible adjusts offset to keep the cursor on screen.
func (l *planList) ensureVisible() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	l.offset = max(0, min(l.offset, len(l.rows)-l.height))
}

// relName returns the row's original name relative to the plan folder.
func (l planList) relName(row types.PlanRow) string {
	rel, err := filepath.Rel(l.folder, row.Source.Path)
	if err != nil {
		return row.Source.Name
	}
	return rel
}

// view renders exactly height lines plus a column header.
func (l planList) view(width int) string {
	statusWidth := len(types.StatusSkipUnchanged)
	nameWidth := max((width-statusWidth-10)/2, 10)

	var b strings.Builder
	b.WriteString(columnHeaderStyle.Render(fmt.Sprintf("   %s   %s  %s",
		padRight("ORIGINAL", nameWidth), padRight("NEW NAME", nameWidth), "STATUS")))
	b.WriteString("\n")

	shown := 0
	for i := l.offset; i < len(l.rows) && shown < l.height; i++ {
		b.WriteString(l.renderRow(l.rows[i], i == l.cursor, nameWidth))
		b.WriteString("\n")
		shown++
	}
	for ; shown < l.height; shown++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (l planList) renderRow(row types.PlanRow, isCursor bool, nameWidth int) string {
	original := padRight(truncateLeft(l.relName(row), nameWidth), nameWidth)
	newName := padRight(truncateRight(row.NewName, nameWidth), nameWidth)

	cursor := " "
	if isCursor {
		cursor = cursorStyle.Render(">")
	}
	line := fmt.Sprintf(" %s %s %s %s  %s",
		cursor, original, arrowStyle.Render("→"), newName, statusStyle(row.Status).Render(string(row.Status)))

	if isCursor {
		return selectedItemStyle.Render(line)
	}
	return normalItemStyle.Render(line)
}

// position renders "n/total" for the footer.
func (l planList) position() string {
	if len(l.rows) == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", l.cursor+1, len(l.rows))
}
