package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

func samplePlan() *types.RenamePlan {
	root := filepath.FromSlash("/photos")
	mod := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	entry := func(rel string, size int64) types.SourceEntry {
		return types.NewSourceEntry(filepath.Join(root, filepath.FromSlash(rel)), mod, size)
	}
	return &types.RenamePlan{
		Folder: root,
		Rows: []types.PlanRow{
			{Source: entry("a.jpg", 1024), NewName: "img_1.jpg", Target: filepath.Join(root, "img_1.jpg"), Status: types.StatusOK},
			{Source: entry("img_2.jpg", 2048), NewName: "img_2.jpg", Target: filepath.Join(root, "img_2.jpg"), Status: types.StatusSkipUnchanged},
			{Source: entry("trip/c, d.jpg", 4096), NewName: "img_1.jpg", Target: filepath.Join(root, "trip", "img_1.jpg"), Status: types.StatusConflict},
		},
	}
}

func TestFromPlan(t *testing.T) {
	r := FromPlan(samplePlan())

	require.Len(t, r.Rows, 3)
	assert.Equal(t, "a.jpg", r.Rows[0].Original)
	assert.Equal(t, "img_1.jpg", r.Rows[0].NewName)
	assert.Equal(t, ".", r.Rows[0].Dir)
	assert.Equal(t, "trip", r.Rows[2].Dir)
	assert.Equal(t, "1.0 KiB", r.Rows[0].SizeHuman)
	assert.Equal(t, types.Summary{TotalFiles: 3, ConflictCount: 1, PendingCount: 1, SkippedCount: 1}, r.Summary)
	assert.Equal(t, int64(1024+2048+4096), r.TotalSize())

	empty := FromPlan(nil)
	assert.NotNil(t, empty.Rows)
	assert.Empty(t, empty.Rows)
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"csv", "tsv", "markdown", "plain", "json", "jsonl", "yaml", "template", "pretty"} {
		f, err := Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	assert.Contains(t, Available(), "csv")
	assert.IsIncreasing(t, Available())

	_, err := Get("nope")
	assert.Error(t, err)

	reg := NewRegistry()
	reg.Register("x", func() Formatter { return &CSVFormatter{} })
	assert.Equal(t, []string{"x"}, reg.Available())
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]string{
		"out.csv":     "csv",
		"out.TSV":     "tsv",
		"out.md":      "markdown",
		"out.json":    "json",
		"out.yml":     "yaml",
		"out.yaml":    "yaml",
		"out":         "csv",
		"mapping.txt": "csv",
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatForPath(path), path)
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVFormatter{}).Format(&buf, FromPlan(samplePlan())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Original", "New Name", "Status"}, records[0])
	assert.Equal(t, []string{"a.jpg", "img_1.jpg", "ok"}, records[1])
	assert.Equal(t, []string{"img_2.jpg", "img_2.jpg", "skip-unchanged"}, records[2])
	assert.Equal(t, []string{"c, d.jpg", "img_1.jpg", "conflict"}, records[3])
}

func TestCSVFormatter_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVFormatter{}).Format(&buf, FromPlan(nil)))
	assert.Equal(t, "Original,New Name,Status\n", buf.String())
}

func TestTSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TSVFormatter{}).Format(&buf, FromPlan(samplePlan())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "DIR\tORIGINAL\tNEW NAME\tSTATUS", lines[0])
	assert.Equal(t, ".\ta.jpg\timg_1.jpg\tok", lines[1])
	assert.Equal(t, "trip\tc, d.jpg\timg_1.jpg\tconflict", lines[3])
}

func TestMarkdownFormatter_EscapesPipes(t *testing.T) {
	r := &Result{Rows: []Row{{Original: "a|b.txt", NewName: "x.txt", Status: types.StatusOK}}}

	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, r))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| Original | New Name | Status |", lines[0])
	assert.Equal(t, `| a\|b.txt | x.txt | ok |`, lines[2])
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, FromPlan(samplePlan())))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "ORIGINAL"))
	assert.Contains(t, out, "trip/c, d.jpg")
	assert.NotContains(t, out, "\x1b[")
}

func TestJSONFormatter(t *testing.T) {
	r := FromPlan(samplePlan())
	r.Example = "img_1.jpg"
	r.Execution = &types.ExecutionResult{
		Succeeded: 1,
		Failed:    1,
		Failures:  []types.RowFailure{{Source: "/photos/b.jpg", Target: "/photos/img_2.jpg", Reason: "permission denied"}},
		Elapsed:   1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, r))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "img_1.jpg", doc["example"])

	rows := doc["rows"].([]any)
	require.Len(t, rows, 3)
	first := rows[0].(map[string]any)
	assert.Equal(t, "a.jpg", first["original"])
	assert.Equal(t, "ok", first["status"])

	exec := doc["execution"].(map[string]any)
	assert.Equal(t, "1.5s", exec["elapsed"])
	failures := exec["failures"].([]any)
	assert.Equal(t, "permission denied", failures[0].(map[string]any)["reason"])

	summary := doc["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["conflict_count"])
}

func TestJSONLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONLFormatter{}).Format(&buf, FromPlan(samplePlan())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		var row map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &row))
		assert.Contains(t, row, "new_name")
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, FromPlan(samplePlan())))

	var doc struct {
		Folder  string        `yaml:"folder"`
		Summary types.Summary `yaml:"summary"`
		Rows    []struct {
			Original string `yaml:"original"`
			NewName  string `yaml:"new_name"`
			Status   string `yaml:"status"`
		} `yaml:"rows"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, filepath.FromSlash("/photos"), doc.Folder)
	assert.Equal(t, 3, doc.Summary.TotalFiles)
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "skip-unchanged", doc.Rows[1].Status)
	assert.NotContains(t, buf.String(), "execution:")
}

func TestTemplateFormatter(t *testing.T) {
	r := FromPlan(samplePlan())

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"default", defaultTemplate, "a.jpg -> img_1.jpg\tok\t1.0 KiB\t2024-06-15\n"},
		{"default nested row", defaultTemplate, "trip/c, d.jpg -> img_1.jpg\tconflict\t4.0 KiB\t2024-06-15\n"},
		{"bytes total", `{{bytes .TotalSize}}`, "7.0 KiB"},
		{"bytes per row", `{{range .Rows}}{{bytes .Size}};{{end}}`, "1.0 KiB;2.0 KiB;4.0 KiB;"},
		{"date", `{{with index .Rows 0}}{{date . "2006-01-02"}}{{end}}`, "2024-06-15"},
		{"target", `{{with index .Rows 2}}{{target .}}{{end}}`, "trip/img_1.jpg"},
		{"renamed", `{{range .Rows}}{{if renamed .}}{{.Original}}{{end}}{{end}}`, "a.jpg"},
		{"ext", `{{with index .Rows 0}}{{ext .NewName}}{{end}}`, ".jpg"},
		{"comma", `{{comma .Summary.TotalFiles}}`, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewTemplateFormatter(tt.template).Format(&buf, r))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestTemplateFormatter_InvalidAndReset(t *testing.T) {
	f := NewTemplateFormatter("{{.Nope")
	var buf bytes.Buffer
	assert.Error(t, f.Format(&buf, &Result{}))

	f.SetTemplate("{{len .Rows}}")
	buf.Reset()
	require.NoError(t, f.Format(&buf, FromPlan(samplePlan())))
	assert.Equal(t, "3", buf.String())
}

func TestPrettyFormatter(t *testing.T) {
	r := FromPlan(samplePlan())
	r.Example = "img_001.jpg"
	r.Warnings = []string{"cannot read /photos/locked"}
	r.Execution = &types.ExecutionResult{
		Succeeded: 1,
		Failed:    1,
		Failures:  []types.RowFailure{{Source: "/photos/b.jpg", Reason: "permission denied"}},
	}

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, r))

	out := buf.String()
	for _, want := range []string{"Folder:", "img_001.jpg", "a.jpg", "img_1.jpg", "conflict", "Conflicts:", "Warnings:", "permission denied"} {
		assert.Contains(t, out, want)
	}
}

func TestPrettyFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, FromPlan(nil)))
	assert.Contains(t, buf.String(), "No files to rename")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "2.5s", formatDuration(2500*time.Millisecond))
	assert.Equal(t, "2m 5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h 1m", formatDuration(61*time.Minute))
}
