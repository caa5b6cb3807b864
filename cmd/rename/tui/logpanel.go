package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/rename/pkg/rename/logging"
)

const logPanelSize = 200

// logEntryMsg carries one log entry from the subscription.
type logEntryMsg logging.Entry

// logPanel is the collapsible pane showing recent log entries.
type logPanel struct {
	open   bool
	ring   *logging.Ring
	filter logging.Level
	offset int
	follow bool
	sub    <-chan logging.Entry
}

// newLogPanel creates a panel seeded with entries already buffered by the
// logging package.
func newLogPanel() *logPanel {
	p := &logPanel{
		ring:   logging.NewRing(logPanelSize),
		filter: logging.LevelInfo,
		follow: true,
	}
	if recent := logging.Recent(); recent != nil {
		for _, e := range recent.Last(logPanelSize) {
			p.ring.Add(e)
		}
	}
	return p
}

// listen subscribes to the logger and returns the command delivering the
// next entry.
func (p *logPanel) listen() tea.Cmd {
	if p.sub == nil {
		p.sub = logging.Subscribe()
	}
	return waitForLog(p.sub)
}

func (p *logPanel) stop() {
	if p.sub != nil {
		logging.Unsubscribe(p.sub)
		p.sub = nil
	}
}

func waitForLog(sub <-chan logging.Entry) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-sub
		if !ok {
			return nil
		}
		return logEntryMsg(e)
	}
}

func (p *logPanel) add(e logging.Entry) {
	p.ring.Add(e)
}

func (p *logPanel) toggle() {
	p.open = !p.open
}

// setFilter shows entries at or above level and jumps to the newest.
func (p *logPanel) setFilter(level logging.Level) {
	p.filter = level
	p.follow = true
	p.offset = 0
}

func (p *logPanel) visible() []logging.Entry {
	return filterEntriesByLevel(p.ring.Entries(), p.filter)
}

func (p *logPanel) scrollUp() {
	p.follow = false
	if p.offset > 0 {
		p.offset--
	}
}

func (p *logPanel) scrollDown(rows int) {
	maxOffset := max(len(p.visible())-rows, 0)
	if p.offset < maxOffset {
		p.offset++
	}
	if p.offset >= maxOffset {
		p.follow = true
	}
}

// filterEntriesByLevel returns entries at or above minLevel.
func filterEntriesByLevel(entries []logging.Entry, minLevel logging.Level) []logging.Entry {
	result := make([]logging.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Level >= minLevel {
			result = append(result, e)
		}
	}
	return result
}

// clampLogScroll keeps offset within [0, total-rows].
func clampLogScroll(offset, total, rows int) int {
	if total <= rows {
		return 0
	}
	return max(0, min(offset, total-rows))
}

func logLevelChar(level logging.Level) string {
	switch level {
	case logging.LevelDebug:
		return "D"
	case logging.LevelInfo:
		return "I"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "?"
	}
}

// view renders the panel in width columns and height rows.
func (p *logPanel) view(width, height int) string {
	if height < 3 {
		return ""
	}

	var b strings.Builder
	title := titleStyle.Render(fmt.Sprintf(" Logs [%s] ", p.filter))
	b.WriteString(title + mutedTextStyle.Render("[1-4] filter  [L] close"))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	rows := height - 2
	entries := p.visible()
	offset := p.offset
	if p.follow {
		offset = len(entries) - rows
	}
	offset = clampLogScroll(offset, len(entries), rows)

	shown := 0
	for i := offset; i < len(entries) && shown < rows; i++ {
		b.WriteString(renderLogEntry(entries[i], width))
		b.WriteString("\n")
		shown++
	}
	for ; shown < rows; shown++ {
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderLogEntry renders "HH:MM:SS [L] component: message".
func renderLogEntry(e logging.Entry, width int) string {
	comp := truncateRight(e.Component, 10)
	prefixWidth := 8 + 1 + 3 + 1 + lipgloss.Width(comp) + 2
	msg := truncateRight(e.String(), max(width-prefixWidth, 10))

	return fmt.Sprintf("%s %s %s: %s",
		logTimeStyle.Render(e.Time.Format("15:04:05")),
		logLevelStyle(e.Level).Render("["+logLevelChar(e.Level)+"]"),
		logComponentStyle.Render(comp),
		msg)
}
