package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/rename/pkg/rename/logging"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

// NamingConfig holds the naming defaults as they appear in the config file.
// Enumerations are kept as strings and parsed by NamingOptions.
type NamingConfig struct {
	Base           string `mapstructure:"base"`
	Recursive      bool   `mapstructure:"recursive"`
	Sort           string `mapstructure:"sort"`
	Index          string `mapstructure:"index"`
	Position       string `mapstructure:"position"`
	Separator      string `mapstructure:"separator"`
	Start          int    `mapstructure:"start"`
	Padding        string `mapstructure:"padding"`
	Case           string `mapstructure:"case"`
	Extension      string `mapstructure:"extension"`
	ResetPerFolder bool   `mapstructure:"reset_per_folder"`
	AutoResolve    bool   `mapstructure:"auto_resolve"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Console    string            `mapstructure:"console"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// JournalConfig configures the persisted batch history.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Keep    int    `mapstructure:"keep"`
}

// Config represents the application configuration.
type Config struct {
	Naming  NamingConfig  `mapstructure:"naming"`
	Exclude []string      `mapstructure:"exclude"`
	Workers int           `mapstructure:"workers"`
	Journal JournalConfig `mapstructure:"journal"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// NewViper returns a viper instance with config paths, the RENAME_ env
// prefix and every default registered. An explicit file overrides the
// search paths. The file is not read yet so callers can bind flags first.
func NewViper(file string) *viper.Viper {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "rename"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "rename"))
		}
	}

	v.SetEnvPrefix("RENAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	naming := types.DefaultNamingConfig()
	v.SetDefault("naming.base", "")
	v.SetDefault("naming.recursive", naming.IncludeSubfolders)
	v.SetDefault("naming.sort", naming.Sort.String())
	v.SetDefault("naming.index", naming.IndexType.String())
	v.SetDefault("naming.position", naming.IndexPosition.String())
	v.SetDefault("naming.separator", DefaultSeparator)
	v.SetDefault("naming.start", DefaultStart)
	v.SetDefault("naming.padding", DefaultPadding)
	v.SetDefault("naming.case", naming.Case.String())
	v.SetDefault("naming.extension", naming.Extension.String())
	v.SetDefault("naming.reset_per_folder", naming.ResetPerFolder)
	v.SetDefault("naming.auto_resolve", naming.AutoResolve)

	v.SetDefault("exclude", []string{})
	v.SetDefault("workers", 0)

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", "")
	v.SetDefault("journal.keep", DefaultJournalKeep)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console", "")
	v.SetDefault("logging.rotation.max_size", "5MB")
	v.SetDefault("logging.rotation.max_age", 14)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.components", map[string]string{
		"planner":  "info",
		"executor": "info",
		"scanner":  "warn",
		"watcher":  "warn",
	})
}

// Decode reads the config file, if any, into v and unmarshals the result.
// A missing config file is not an error.
func Decode(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.Journal.Path, err = ExpandPath(cfg.Journal.Path); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = ExpandPath(cfg.Logging.Path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/rename/config.yaml
//   - $HOME/.config/rename/config.yaml
//
// Environment variables are prefixed with RENAME_ (e.g. RENAME_NAMING_SEPARATOR).
func Load() (*Config, error) {
	return Decode(NewViper(""))
}

// NamingOptions converts the naming section into an engine configuration. The base
// name is not validated here; an empty one is reported by the planner.
func (c *Config) NamingOptions() (types.NamingConfig, error) {
	n := c.Naming
	out := types.DefaultNamingConfig()

	var err error
	if out.Sort, err = types.ParseSortMode(n.Sort); err != nil {
		return out, err
	}
	if out.IndexType, err = types.ParseIndexType(n.Index); err != nil {
		return out, err
	}
	if out.IndexPosition, err = types.ParseIndexPosition(n.Position); err != nil {
		return out, err
	}
	if out.Padding, err = types.ParsePadding(n.Padding); err != nil {
		return out, err
	}
	if out.Case, err = types.ParseCaseTransform(n.Case); err != nil {
		return out, err
	}
	if out.Extension, err = types.ParseExtTransform(n.Extension); err != nil {
		return out, err
	}
	if n.Start < 0 {
		return out, fmt.Errorf("%w: start must be >= 0, got %d", types.ErrInvalidOption, n.Start)
	}

	out.BaseName = n.Base
	out.IncludeSubfolders = n.Recursive
	out.Separator = n.Separator
	out.Start = n.Start
	out.ResetPerFolder = n.ResetPerFolder
	out.AutoResolve = n.AutoResolve
	out.Exclude = append([]string(nil), c.Exclude...)
	return out, nil
}

// LogConfig converts the logging section into a logging.Config.
func (c *Config) LogConfig(interactive bool) (logging.Config, error) {
	rotation := logging.DefaultRotationConfig()
	if c.Logging.Rotation.MaxSize != "" {
		size, err := types.ParseSize(c.Logging.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("logging.rotation.max_size: %w", err)
		}
		rotation.MaxSize = size
	}
	rotation.MaxAge = c.Logging.Rotation.MaxAge
	rotation.MaxBackups = c.Logging.Rotation.MaxBackups

	return logging.Config{
		Level:        c.Logging.Level,
		Path:         c.Logging.Path,
		Rotation:     rotation,
		Components:   c.Logging.Components,
		ConsoleLevel: c.Logging.Console,
		Interactive:  interactive,
	}, nil
}

// JournalPath returns the configured journal directory or the XDG default.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return DefaultJournalPath()
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "rename"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "rename"), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// WriteDefault writes a default config file if none exists and returns its
// path. An existing file is left untouched.
func WriteDefault() (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultFile()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}
	return path, nil
}

func defaultFile() string {
	return fmt.Sprintf(`# rename configuration

# Defaults for the naming options; every key can be overridden by a flag.
naming:
  base: ""
  recursive: false
  sort: name          # name, mtime, size
  index: numeric      # numeric, alpha, roman, none
  position: after     # after, before
  separator: %q
  start: %d
  padding: %s       # auto or 1-6
  case: unchanged     # unchanged, lower, upper, title
  extension: keep     # keep, lower, upper
  reset_per_folder: false
  auto_resolve: true

# File name globs left out of every plan, e.g. ".DS_Store" or "*.tmp"
exclude: []

# Discovery workers (0 = automatic)
workers: 0

# Persisted batch history used by "rename undo"
journal:
  enabled: true
  # Empty means $XDG_DATA_HOME/rename/journal
  path: ""
  keep: %d

logging:
  # Log level: debug, info, warn, error
  level: %s
  # Empty means $XDG_STATE_HOME/rename/rename.log
  path: ""
  # Console log level; empty disables console logging
  console: ""
  rotation:
    max_size: 5MB
    max_age: 14       # days
    max_backups: 3
  components:
    planner: info
    executor: info
    scanner: warn
    watcher: warn
`, DefaultSeparator, DefaultStart, DefaultPadding, DefaultJournalKeep, DefaultLogLevel)
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/rename/.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "rename")
}

// StateDir returns $XDG_STATE_HOME/rename/.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "rename")
}

// DefaultJournalPath returns the default journal database directory.
func DefaultJournalPath() string {
	return filepath.Join(DataDir(), "journal")
}
