package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/rename/pkg/rename/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"", logging.LevelInfo},
		{"INFO", logging.LevelInfo},
		{"warning", logging.LevelWarn},
		{"error", logging.LevelError},
	}
	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := logging.ParseLevel("loud")
	assert.True(t, errors.Is(err, logging.ErrInvalidLevel))
}

// Tests below share the package-level logging state and must not run in
// parallel.

func TestInit_WritesComponentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rename.log")
	require.NoError(t, logging.Init(logging.Config{
		Level:      "info",
		Path:       path,
		Components: map[string]string{"planner": "debug"},
	}))

	logging.Get("planner").Debug("planned", "files", 3)
	logging.Get("executor").Debug("hidden")
	logging.Get("executor").Info("Renamed", "from", "a.txt", "to", "img_1.txt")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "planned")
	assert.Contains(t, out, "files=3")
	assert.Contains(t, out, "Renamed")
	assert.NotContains(t, out, "hidden")
}

func TestInit_InvalidComponentLevel(t *testing.T) {
	err := logging.Init(logging.Config{
		Path:       filepath.Join(t.TempDir(), "x.log"),
		Components: map[string]string{"scanner": "chatty"},
	})
	assert.Error(t, err)
}

func TestLogger_BeforeInitDiscards(t *testing.T) {
	require.NoError(t, logging.Close())
	assert.NotPanics(t, func() {
		logging.Get("cli").Info("nobody listening")
	})
}

func TestLogger_SurvivesReinit(t *testing.T) {
	logger := logging.Get("journal")

	first := filepath.Join(t.TempDir(), "first.log")
	second := filepath.Join(t.TempDir(), "second.log")

	require.NoError(t, logging.Init(logging.Config{Path: first}))
	logger.Info("one")
	require.NoError(t, logging.Init(logging.Config{Path: second}))
	logger.Info("two")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "two")
	assert.NotContains(t, string(data), "one")
}

func TestLogger_With(t *testing.T) {
	path := filepath.Join(t.TempDir(), "with.log")
	require.NoError(t, logging.Init(logging.Config{Path: path}))

	logging.Get("executor").With("batch", "b-1").Info("start")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "batch=b-1")
}

func TestSubscribe(t *testing.T) {
	require.NoError(t, logging.Init(logging.Config{Path: filepath.Join(t.TempDir(), "sub.log")}))
	defer func() { _ = logging.Close() }()

	ch := logging.Subscribe()
	logging.Get("executor").Warn("[Missing] img_1.txt")

	select {
	case e := <-ch:
		assert.Equal(t, logging.LevelWarn, e.Level)
		assert.Equal(t, "executor", e.Component)
		assert.Equal(t, "[Missing] img_1.txt", e.String())
	case <-time.After(time.Second):
		t.Fatal("no entry received")
	}

	logging.Unsubscribe(ch)
	logging.Get("executor").Info("after")
	select {
	case e, ok := <-ch:
		if ok {
			t.Fatalf("unexpected entry after unsubscribe: %v", e)
		}
	default:
	}
}

func TestInteractiveRing(t *testing.T) {
	require.NoError(t, logging.Init(logging.Config{
		Path:         filepath.Join(t.TempDir(), "tui.log"),
		ConsoleLevel: "debug",
		Interactive:  true,
	}))
	defer func() { _ = logging.Close() }()

	ring := logging.Recent()
	require.NotNil(t, ring)

	logging.Get("tui").Info("Preview", "files", 2)
	last := ring.Last(1)
	require.Len(t, last, 1)
	assert.True(t, strings.HasPrefix(last[0].String(), "Preview"))
}

func TestDefaultLogPath(t *testing.T) {
	p := logging.DefaultLogPath()
	assert.Equal(t, "rename.log", filepath.Base(p))
	assert.Equal(t, "rename", filepath.Base(filepath.Dir(p)))
}
