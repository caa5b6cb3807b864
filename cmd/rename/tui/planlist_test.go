package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

func testRows(folder string, n int) []types.PlanRow {
	rows := make([]types.PlanRow, n)
	for i := range rows {
		name := fmt.Sprintf("file%02d.txt", i)
		rows[i] = types.PlanRow{
			Source:  types.SourceEntry{Path: filepath.Join(folder, name), Dir: folder, Name: name},
			NewName: fmt.Sprintf("img_%02d.txt", i+1),
			Status:  types.StatusOK,
		}
	}
	return rows
}

func TestPlanList_Navigation(t *testing.T) {
	l := newPlanList("/photos", testRows("/photos", 20))
	l.setHeight(5)

	assert.True(t, l.handleKey("down"))
	assert.Equal(t, 1, l.cursor)

	l.handleKey("end")
	assert.Equal(t, 19, l.cursor)
	assert.Equal(t, 15, l.offset)

	l.handleKey("pgup")
	assert.Equal(t, 14, l.cursor)
	assert.Equal(t, 14, l.offset)

	l.handleKey("home")
	assert.Equal(t, 0, l.cursor)
	assert.Equal(t, 0, l.offset)

	l.handleKey("up")
	assert.Equal(t, 0, l.cursor)

	assert.False(t, l.handleKey("x"))
}

func TestPlanList_SetRowsClampsCursor(t *testing.T) {
	l := newPlanList("/photos", testRows("/photos", 10))
	l.setHeight(4)
	l.handleKey("end")

	l.setRows(testRows("/photos", 3))
	assert.Equal(t, 2, l.cursor)
	assert.Equal(t, 0, l.offset)

	l.setRows(nil)
	assert.Equal(t, 0, l.cursor)
	assert.Equal(t, "0/0", l.position())
}

func TestPlanList_View(t *testing.T) {
	rows := testRows("/photos", 3)
	rows[1].Status = types.StatusConflict
	rows[2].Source = types.SourceEntry{Path: "/photos/trip/file02.txt", Dir: "/photos/trip", Name: "file02.txt"}

	l := newPlanList("/photos", rows)
	l.setHeight(5)
	out := l.view(100)

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "ORIGINAL")
	assert.Contains(t, lines[1], "file00.txt")
	assert.Contains(t, lines[1], "img_01.txt")
	assert.Contains(t, lines[2], "conflict")
	assert.Contains(t, lines[3], filepath.Join("trip", "file02.txt"))
	assert.Equal(t, 1+5, strings.Count(out, "\n"), "header plus a fixed number of rows")
	assert.Equal(t, "1/3", l.position())
}
