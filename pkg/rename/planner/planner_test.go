package planner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
}

func imgConfig() types.NamingConfig {
	cfg := types.DefaultNamingConfig()
	cfg.BaseName = "img"
	return cfg
}

type mapping struct {
	from, to string
	status   types.Status
}

func mappings(plan *types.RenamePlan) []mapping {
	out := make([]mapping, 0, len(plan.Rows))
	for _, r := range plan.Rows {
		out = append(out, mapping{from: r.Source.Name, to: r.NewName, status: r.Status})
	}
	return out
}

func TestBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.txt", "a.txt", "c.txt")

	plan, err := Build(context.Background(), dir, imgConfig())
	require.NoError(t, err)

	assert.Equal(t, []mapping{
		{"a.txt", "img_1.txt", types.StatusOK},
		{"b.txt", "img_2.txt", types.StatusOK},
		{"c.txt", "img_3.txt", types.StatusOK},
	}, mappings(plan))

	for _, r := range plan.Rows {
		assert.Equal(t, filepath.Join(r.Source.Dir, r.NewName), r.Target)
	}
	assert.Equal(t, types.Summary{TotalFiles: 3, PendingCount: 3}, plan.Summary())
}

func TestBuild_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Zeta.png", "alpha.png", "Beta.PNG", "sub/x.txt", "sub/y.txt", "img_1.png")

	cfg := imgConfig()
	cfg.IncludeSubfolders = true

	first, err := Build(context.Background(), dir, cfg)
	require.NoError(t, err)
	second, err := Build(context.Background(), dir, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
}

func TestBuild_ValidationOrder(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	blank := imgConfig()
	blank.BaseName = "  "
	_, err := Build(context.Background(), missing, blank)
	assert.ErrorIs(t, err, types.ErrEmptyBaseName)

	_, err = Build(context.Background(), missing, imgConfig())
	assert.ErrorIs(t, err, types.ErrInvalidFolder)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = Build(context.Background(), file, imgConfig())
	assert.ErrorIs(t, err, types.ErrInvalidFolder)

	empty := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(empty, "onlydir"), 0o755))
	_, err = Build(context.Background(), empty, imgConfig())
	assert.ErrorIs(t, err, types.ErrNoFilesFound)
}

func TestBuild_IncludesEveryFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", ".hidden.txt", "Thumbs.db", ".DS_Store")

	plan, err := Build(context.Background(), dir, imgConfig())
	require.NoError(t, err)

	assert.Equal(t, []mapping{
		{".DS_Store", "img_1", types.StatusOK},
		{".hidden.txt", "img_2.txt", types.StatusOK},
		{"a.txt", "img_3.txt", types.StatusOK},
		{"Thumbs.db", "img_4.db", types.StatusOK},
	}, mappings(plan))
}

func TestBuild_OnlyDotFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, ".only")

	plan, err := Build(context.Background(), dir, imgConfig())
	require.NoError(t, err)
	assert.Equal(t, []mapping{{".only", "img_1", types.StatusOK}}, mappings(plan))

	_, err = New(WithHidden(false)).Build(context.Background(), dir, imgConfig())
	assert.ErrorIs(t, err, types.ErrNoFilesFound, "skipping hidden files leaves nothing to plan")
}

func TestBuild_ConflictAutoResolve(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt")

	cfg := imgConfig()
	cfg.BaseName = "img_1"
	cfg.IndexType = types.IndexNone

	plan, err := Build(context.Background(), dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, []mapping{
		{"a.txt", "img_1.txt", types.StatusOK},
		{"b.txt", "img_1 (1).txt", types.StatusOK},
	}, mappings(plan))
	assert.False(t, plan.HasConflicts())
}

func TestBuild_ConflictWithoutAutoResolve(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt")

	cfg := imgConfig()
	cfg.BaseName = "img_1"
	cfg.IndexType = types.IndexNone
	cfg.AutoResolve = false

	plan, err := Build(context.Background(), dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, []mapping{
		{"a.txt", "img_1.txt", types.StatusOK},
		{"b.txt", "img_1.txt", types.StatusConflict},
	}, mappings(plan))
	assert.Equal(t, filepath.Join(dir, "img_1.txt"), plan.Rows[1].Target)
	assert.Equal(t, 1, plan.Summary().ConflictCount)
}

func TestBuild_DiskCollision(t *testing.T) {
	dir := t.TempDir()
	// img_2.txt sorts after a.txt and b.txt, and already exists on disk.
	writeFiles(t, dir, "a.txt", "b.txt", "img_2.txt")

	plan, err := Build(context.Background(), dir, imgConfig())
	require.NoError(t, err)
	assert.Equal(t, []mapping{
		{"a.txt", "img_1.txt", types.StatusOK},
		{"b.txt", "img_2 (1).txt", types.StatusOK},
		{"img_2.txt", "img_3.txt", types.StatusOK},
	}, mappings(plan))
}

func TestBuild_UniqueTargets(t *testing.T) {
	for _, auto := range []bool{true, false} {
		t.Run(fmt.Sprintf("auto=%v", auto), func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, "img.txt", "img (1).txt", "img (3).txt")
			for i := 0; i < 12; i++ {
				writeFiles(t, dir, fmt.Sprintf("src%02d.txt", i))
			}

			cfg := imgConfig()
			cfg.IndexType = types.IndexNone
			cfg.AutoResolve = auto

			plan, err := Build(context.Background(), dir, cfg)
			require.NoError(t, err)

			seen := make(map[string]string)
			for _, r := range plan.Pending() {
				prev, dup := seen[r.Target]
				require.Falsef(t, dup, "%s and %s share target %s", prev, r.Source.Path, r.Target)
				seen[r.Target] = r.Source.Path
			}
			if !auto {
				assert.Empty(t, plan.Pending())
				assert.True(t, plan.HasConflicts())
			}
		})
	}
}

func TestBuild_SkipUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "img_1.txt")

	cfg := imgConfig()
	cfg.AutoResolve = false

	plan, err := Build(context.Background(), dir, cfg)
	require.NoError(t, err)
	require.Len(t, plan.Rows, 1)
	assert.Equal(t, types.StatusSkipUnchanged, plan.Rows[0].Status)
	assert.Equal(t, types.Summary{TotalFiles: 1, SkippedCount: 1}, plan.Summary())
	assert.Empty(t, plan.Pending())
}

func TestBuild_ResetPerFolder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt", "sub/c.txt", "sub/d.txt", "sub/e.txt")

	cfg := imgConfig()
	cfg.IncludeSubfolders = true

	global, err := Build(context.Background(), dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"img_1.txt", "img_2.txt", "img_3.txt", "img_4.txt", "img_5.txt"}, newNames(global))

	cfg.ResetPerFolder = true
	perFolder, err := Build(context.Background(), dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"img_1.txt", "img_2.txt", "img_1.txt", "img_2.txt", "img_3.txt"}, newNames(perFolder))
	assert.Equal(t, filepath.Join(dir, "sub", "img_1.txt"), perFolder.Rows[2].Target)
}

func newNames(plan *types.RenamePlan) []string {
	out := make([]string, len(plan.Rows))
	for i, r := range plan.Rows {
		out[i] = r.NewName
	}
	return out
}

func TestBuild_SortModes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt", "c.txt")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 10), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), make([]byte, 1), 0o644))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "a.txt"), base, base.Add(3*time.Hour)))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "b.txt"), base, base.Add(1*time.Hour)))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "c.txt"), base, base.Add(2*time.Hour)))

	order := func(mode types.SortMode) []string {
		cfg := imgConfig()
		cfg.Sort = mode
		plan, err := Build(context.Background(), dir, cfg)
		require.NoError(t, err)
		out := make([]string, len(plan.Rows))
		for i, r := range plan.Rows {
			out[i] = r.Source.Name
		}
		return out
	}

	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, order(types.SortName))
	assert.Equal(t, []string{"b.txt", "c.txt", "a.txt"}, order(types.SortModTime))
	// b.txt holds 5 bytes ("b.txt"), a.txt 10, c.txt 1.
	assert.Equal(t, []string{"c.txt", "b.txt", "a.txt"}, order(types.SortSize))
}

func TestSort_TieBreak(t *testing.T) {
	same := time.Unix(100, 0)
	entries := []types.SourceEntry{
		types.NewSourceEntry("/d/b.txt", same, 1),
		types.NewSourceEntry("/D/a.txt", same, 1),
		types.NewSourceEntry("/d/A.txt", same, 1),
		types.NewSourceEntry("/c/z.txt", same, 1),
	}
	Sort(entries, types.SortSize)

	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.Path
	}
	assert.Equal(t, []string{"/c/z.txt", "/D/a.txt", "/d/A.txt", "/d/b.txt"}, got)
}

func TestPlan_NamingOptions(t *testing.T) {
	entries := []types.SourceEntry{
		types.NewSourceEntry("/photos/one.JPG", time.Time{}, 1),
		types.NewSourceEntry("/photos/two.jpeg", time.Time{}, 1),
	}
	nothingExists := WithExists(func(string) bool { return false })

	tests := []struct {
		name   string
		mutate func(*types.NamingConfig)
		want   []string
	}{
		{
			name: "before position with dash",
			mutate: func(c *types.NamingConfig) {
				c.IndexPosition = types.PositionBefore
				c.Separator = "-"
			},
			want: []string{"1-img.JPG", "2-img.jpeg"},
		},
		{
			name: "fixed padding and start",
			mutate: func(c *types.NamingConfig) {
				c.Padding = 3
				c.Start = 9
			},
			want: []string{"img_009.JPG", "img_010.jpeg"},
		},
		{
			name:   "auto padding widens for the last number",
			mutate: func(c *types.NamingConfig) { c.Start = 9 },
			want:   []string{"img_09.JPG", "img_10.jpeg"},
		},
		{
			name: "alpha upper case with lower extension",
			mutate: func(c *types.NamingConfig) {
				c.IndexType = types.IndexAlpha
				c.Case = types.CaseUpper
				c.Extension = types.ExtLower
			},
			want: []string{"IMG_A.jpg", "IMG_B.jpeg"},
		},
		{
			name: "roman title case with upper extension",
			mutate: func(c *types.NamingConfig) {
				c.BaseName = "my photo"
				c.IndexType = types.IndexRoman
				c.Case = types.CaseTitle
				c.Extension = types.ExtUpper
				c.Separator = " "
			},
			want: []string{"My Photo I.JPG", "My Photo Ii.JPEG"},
		},
		{
			name: "no index keeps base only",
			mutate: func(c *types.NamingConfig) {
				c.IndexType = types.IndexNone
				c.Separator = "::"
			},
			want: []string{"img.JPG", "img.jpeg"},
		},
		{
			name: "illegal characters are sanitized in the stem only",
			mutate: func(c *types.NamingConfig) {
				c.BaseName = "a/b?"
				c.IndexType = types.IndexNone
			},
			want: []string{"a_b_.JPG", "a_b_.jpeg"},
		},
		{
			name: "start zero with roman falls back to decimal",
			mutate: func(c *types.NamingConfig) {
				c.IndexType = types.IndexRoman
				c.Start = 0
			},
			want: []string{"img_0.JPG", "img_I.jpeg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := imgConfig()
			tt.mutate(&cfg)

			plan, err := New(nothingExists).Plan("/photos", entries, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, newNames(plan))
		})
	}
}

func TestPlan_DoesNotReorderInput(t *testing.T) {
	entries := []types.SourceEntry{
		types.NewSourceEntry("/d/b", time.Time{}, 1),
		types.NewSourceEntry("/d/a", time.Time{}, 1),
	}
	_, err := New(WithExists(func(string) bool { return false })).Plan("/d", entries, imgConfig())
	require.NoError(t, err)
	assert.Equal(t, "b", entries[0].Name)
}

func TestPreviewName(t *testing.T) {
	cfg := imgConfig()
	assert.Equal(t, "img_001.jpg", PreviewName(cfg, 0))
	assert.Equal(t, "img_1.jpg", PreviewName(cfg, 3))

	cfg.IndexPosition = types.PositionBefore
	cfg.Extension = types.ExtUpper
	cfg.Case = types.CaseUpper
	assert.Equal(t, "1_IMG.JPG", PreviewName(cfg, 1))

	cfg.BaseName = ""
	assert.Equal(t, "", PreviewName(cfg, 1))
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"img_001x":    "Img_001X",
		"HELLO world": "Hello World",
		"it's":        "It'S",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, titleCase(in), in)
	}
}

func TestCounter(t *testing.T) {
	c := newCounter(5, false)
	assert.Equal(t, 5, c.next("/a"))
	assert.Equal(t, 6, c.next("/b"))

	r := newCounter(0, true)
	assert.Equal(t, 0, r.next("/a"))
	assert.Equal(t, 0, r.next("/b"))
	assert.Equal(t, 1, r.next("/a"))
}
