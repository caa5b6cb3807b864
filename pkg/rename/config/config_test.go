package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	return tempDir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Naming.Separator != DefaultSeparator {
		t.Errorf("Naming.Separator = %q, want %q", cfg.Naming.Separator, DefaultSeparator)
	}
	if cfg.Naming.Start != DefaultStart {
		t.Errorf("Naming.Start = %d, want %d", cfg.Naming.Start, DefaultStart)
	}
	if !cfg.Naming.AutoResolve {
		t.Error("Naming.AutoResolve = false, want true")
	}
	if !cfg.Journal.Enabled {
		t.Error("Journal.Enabled = false, want true")
	}
	if cfg.Journal.Keep != DefaultJournalKeep {
		t.Errorf("Journal.Keep = %d, want %d", cfg.Journal.Keep, DefaultJournalKeep)
	}
	if len(cfg.Exclude) != 0 {
		t.Errorf("Exclude = %v, want none so every file is planned", cfg.Exclude)
	}

	naming, err := cfg.NamingOptions()
	if err != nil {
		t.Fatalf("NamingOptions() error = %v", err)
	}
	want := types.DefaultNamingConfig()
	if naming.Sort != want.Sort || naming.IndexType != want.IndexType || naming.Padding != want.Padding {
		t.Errorf("NamingOptions() = %+v, want defaults %+v", naming, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := isolate(t)
	configDir := filepath.Join(tempDir, ".config", "rename")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
naming:
  base: holiday
  sort: mtime
  index: roman
  position: before
  separator: "-"
  start: 0
  padding: 3
  case: upper
  extension: lower
  reset_per_folder: true
  auto_resolve: false
exclude:
  - "*.tmp"
journal:
  enabled: false
  path: ~/journal
  keep: 5
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Journal.Enabled {
		t.Error("Journal.Enabled = true, want false")
	}
	if want := filepath.Join(tempDir, "journal"); cfg.JournalPath() != want {
		t.Errorf("JournalPath() = %q, want %q", cfg.JournalPath(), want)
	}

	naming, err := cfg.NamingOptions()
	if err != nil {
		t.Fatalf("NamingOptions() error = %v", err)
	}
	if naming.BaseName != "holiday" {
		t.Errorf("BaseName = %q, want holiday", naming.BaseName)
	}
	if naming.Sort != types.SortModTime {
		t.Errorf("Sort = %v, want mtime", naming.Sort)
	}
	if naming.IndexType != types.IndexRoman || naming.IndexPosition != types.PositionBefore {
		t.Errorf("index = %v/%v, want roman/before", naming.IndexType, naming.IndexPosition)
	}
	if naming.Separator != "-" || naming.Start != 0 || naming.Padding != 3 {
		t.Errorf("sep/start/pad = %q/%d/%d", naming.Separator, naming.Start, naming.Padding)
	}
	if naming.Case != types.CaseUpper || naming.Extension != types.ExtLower {
		t.Errorf("case/ext = %v/%v", naming.Case, naming.Extension)
	}
	if !naming.ResetPerFolder || naming.AutoResolve {
		t.Errorf("reset/auto = %v/%v", naming.ResetPerFolder, naming.AutoResolve)
	}
	if len(naming.Exclude) != 1 || naming.Exclude[0] != "*.tmp" {
		t.Errorf("Exclude = %v", naming.Exclude)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("RENAME_NAMING_SEPARATOR", ".")
	t.Setenv("RENAME_NAMING_INDEX", "alpha")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	naming, err := cfg.NamingOptions()
	if err != nil {
		t.Fatalf("NamingOptions() error = %v", err)
	}
	if naming.Separator != "." || naming.IndexType != types.IndexAlpha {
		t.Errorf("env override not applied: %+v", naming)
	}
}

func TestNamingOptions_Invalid(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg.Naming.Case = "snake"
	if _, err := cfg.NamingOptions(); !errors.Is(err, types.ErrInvalidOption) {
		t.Errorf("NamingOptions() error = %v, want ErrInvalidOption", err)
	}

	cfg.Naming.Case = "lower"
	cfg.Naming.Start = -2
	if _, err := cfg.NamingOptions(); !errors.Is(err, types.ErrInvalidOption) {
		t.Errorf("NamingOptions() error = %v, want ErrInvalidOption", err)
	}
}

func TestLogConfig(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	lc, err := cfg.LogConfig(true)
	if err != nil {
		t.Fatalf("LogConfig() error = %v", err)
	}
	if lc.Rotation.MaxSize != 5*types.MiB {
		t.Errorf("Rotation.MaxSize = %d, want %d", lc.Rotation.MaxSize, 5*types.MiB)
	}
	if !lc.Interactive {
		t.Error("Interactive = false, want true")
	}

	cfg.Logging.Rotation.MaxSize = "lots"
	if _, err := cfg.LogConfig(false); err == nil {
		t.Error("LogConfig() with bad max_size: want error")
	}
}

func TestWriteDefault(t *testing.T) {
	isolate(t)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading default config: %v", err)
	}

	// The generated file must load back to the defaults.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() after WriteDefault error = %v", err)
	}
	naming, err := cfg.NamingOptions()
	if err != nil {
		t.Errorf("NamingOptions() error = %v", err)
	}
	if len(naming.Exclude) != 0 {
		t.Errorf("Exclude = %v, want none in the generated file", naming.Exclude)
	}

	if err := os.WriteFile(path, []byte("naming:\n  base: mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteDefault(); err != nil {
		t.Fatalf("second WriteDefault() error = %v", err)
	}
	again, _ := os.ReadFile(path)
	if string(again) == string(data) {
		t.Error("WriteDefault() overwrote an existing config")
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)

	got, err := ExpandPath("~/x/y")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "x", "y"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}
	if got, _ := ExpandPath("/abs"); got != "/abs" {
		t.Errorf("ExpandPath(/abs) = %q", got)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/xdg", "rename") {
		t.Errorf("ConfigDir() = %q", dir)
	}
}
