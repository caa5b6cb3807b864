package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

func TestApplyOptionKey(t *testing.T) {
	cfg := types.DefaultNamingConfig()
	cfg.BaseName = "img"

	tests := []struct {
		key   string
		check func(c types.NamingConfig) bool
	}{
		{"i", func(c types.NamingConfig) bool { return c.IndexType == types.IndexAlpha }},
		{"p", func(c types.NamingConfig) bool { return c.IndexPosition == types.PositionBefore }},
		{"c", func(c types.NamingConfig) bool { return c.Case == types.CaseLower }},
		{"x", func(c types.NamingConfig) bool { return c.Extension == types.ExtLower }},
		{"s", func(c types.NamingConfig) bool { return c.Sort == types.SortModTime }},
		{"S", func(c types.NamingConfig) bool { return c.Separator == "-" }},
		{"R", func(c types.NamingConfig) bool { return c.IncludeSubfolders }},
		{"a", func(c types.NamingConfig) bool { return !c.AutoResolve }},
		{"f", func(c types.NamingConfig) bool { return c.ResetPerFolder }},
		{"+", func(c types.NamingConfig) bool { return c.Padding == 1 }},
		{"]", func(c types.NamingConfig) bool { return c.Start == 2 }},
		{"[", func(c types.NamingConfig) bool { return c.Start == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c := cfg
			assert.True(t, applyOptionKey(&c, tt.key))
			assert.True(t, tt.check(c), "config after %q: %+v", tt.key, c)
		})
	}

	c := cfg
	assert.False(t, applyOptionKey(&c, "z"))
	assert.Equal(t, cfg, c)
}

func TestApplyOptionKey_Wraps(t *testing.T) {
	c := types.DefaultNamingConfig()
	for range 4 {
		applyOptionKey(&c, "i")
	}
	assert.Equal(t, types.IndexNumeric, c.IndexType)

	c.Start = 0
	applyOptionKey(&c, "[")
	assert.Equal(t, 0, c.Start, "start never goes negative")
}

func TestNextPadding(t *testing.T) {
	assert.Equal(t, 1, nextPadding(types.PadAuto, 1))
	assert.Equal(t, types.PadAuto, nextPadding(1, -1))
	assert.Equal(t, types.PadAuto, nextPadding(types.PadAuto, -1))
	assert.Equal(t, types.MaxPadding, nextPadding(types.MaxPadding, 1))
	assert.Equal(t, 3, nextPadding(2, 1))
}

func TestNextSeparator(t *testing.T) {
	got := make([]string, 0, len(separators))
	sep := "_"
	for range separators {
		sep = nextSeparator(sep)
		got = append(got, sep)
	}
	assert.Equal(t, []string{"-", " ", ".", "", "_"}, got)
	assert.Equal(t, "_", nextSeparator("~"))
}

func TestRenderOptions(t *testing.T) {
	c := types.DefaultNamingConfig()
	c.BaseName = "trip"
	c.Separator = " "

	out := renderOptions(c)
	assert.Equal(t, 2, len(strings.Split(out, "\n")))
	for _, want := range []string{"trip", "numeric", "after", "space", "auto", "name", "unchanged", "keep", "auto-resolve: on"} {
		assert.Contains(t, out, want)
	}
}
