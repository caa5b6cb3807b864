package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/rename/pkg/rename/logging"
)

func entry(level logging.Level, msg string) logging.Entry {
	return logging.Entry{
		Time:      time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Level:     level,
		Component: "executor",
		Message:   msg,
	}
}

func TestFilterEntriesByLevel(t *testing.T) {
	entries := []logging.Entry{
		entry(logging.LevelDebug, "d"),
		entry(logging.LevelInfo, "i"),
		entry(logging.LevelWarn, "w"),
		entry(logging.LevelError, "e"),
	}
	assert.Len(t, filterEntriesByLevel(entries, logging.LevelDebug), 4)
	assert.Len(t, filterEntriesByLevel(entries, logging.LevelWarn), 2)
	assert.Len(t, filterEntriesByLevel(nil, logging.LevelInfo), 0)
}

func TestClampLogScroll(t *testing.T) {
	assert.Equal(t, 0, clampLogScroll(5, 3, 10))
	assert.Equal(t, 0, clampLogScroll(-1, 20, 5))
	assert.Equal(t, 15, clampLogScroll(99, 20, 5))
	assert.Equal(t, 7, clampLogScroll(7, 20, 5))
}

func TestLogPanel_ViewFollowsNewest(t *testing.T) {
	p := newLogPanel()
	for _, msg := range []string{"one", "two", "three", "four"} {
		p.add(entry(logging.LevelInfo, msg))
	}
	p.add(entry(logging.LevelDebug, "hidden"))

	out := p.view(80, 4)
	assert.Contains(t, out, "Logs [info]")
	assert.Contains(t, out, "three")
	assert.Contains(t, out, "four")
	assert.NotContains(t, out, "two")
	assert.NotContains(t, out, "hidden")

	p.setFilter(logging.LevelDebug)
	assert.Contains(t, p.view(80, 4), "hidden")
}

func TestLogPanel_Scroll(t *testing.T) {
	p := newLogPanel()
	for _, msg := range []string{"a1", "a2", "a3", "a4", "a5"} {
		p.add(entry(logging.LevelInfo, msg))
	}

	p.scrollUp()
	assert.False(t, p.follow)
	assert.Contains(t, p.view(80, 4), "a1")

	for range 5 {
		p.scrollDown(2)
	}
	assert.True(t, p.follow)
	assert.Equal(t, 3, p.offset)
}

func TestRenderLogEntry(t *testing.T) {
	e := entry(logging.LevelError, "[Error] a.txt -> b.txt")
	e.Fields = []interface{}{"reason", "Permission"}

	line := renderLogEntry(e, 120)
	assert.True(t, strings.HasPrefix(line, "09:30:00") || strings.Contains(line, "09:30:00"))
	assert.Contains(t, line, "[E]")
	assert.Contains(t, line, "executor:")
	assert.Contains(t, line, "reason=Permission")
}

func TestLogPanel_Toggle(t *testing.T) {
	p := newLogPanel()
	assert.False(t, p.open)
	p.toggle()
	assert.True(t, p.open)
	assert.Equal(t, "", p.view(80, 2))
}
