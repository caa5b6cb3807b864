// Package logging provides component loggers for the rename tool. Log lines
// go to a size-rotated file under the XDG state directory, optionally to the
// console, and to any subscribers such as the interactive log panel.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logger := logging.Get("executor")
//	logger.Info("renamed", "from", "a.txt", "to", "img_1.txt")
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level represents a logging level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default file log level.
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// Rotation configures log file rotation.
	Rotation RotationConfig

	// Components overrides the level per component name.
	Components map[string]string

	// ConsoleLevel enables stderr output at this level. Empty disables it.
	ConsoleLevel string

	// Interactive disables console output and keeps recent entries in a
	// ring buffer for the TUI log panel.
	Interactive bool
}

// Entry is a single log line delivered to subscribers.
type Entry struct {
	Time      time.Time
	Level     Level
	Component string
	Message   string
	Fields    []interface{}
}

// String renders the entry as a plain text log line.
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for i := 0; i+1 < len(e.Fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", e.Fields[i], e.Fields[i+1])
	}
	return b.String()
}

// Logger is a named component logger. It is cheap to copy and stays valid
// across Init and Close, so packages can keep one in a package variable.
type Logger struct {
	component string
	fields    []interface{}
}

// Get returns the logger for component.
func Get(component string) *Logger {
	return &Logger{component: component}
}

// With returns a logger that adds key/value pairs to every line.
func (l *Logger) With(args ...interface{}) *Logger {
	fields := make([]interface{}, 0, len(l.fields)+len(args))
	fields = append(fields, l.fields...)
	fields = append(fields, args...)
	return &Logger{component: l.component, fields: fields}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) { l.log(LevelInfo, msg, args...) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) { l.log(LevelWarn, msg, args...) }

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	fields := args
	if len(l.fields) > 0 {
		fields = append(append([]interface{}{}, l.fields...), args...)
	}

	file, console := global.sinks(l.component)
	emit(file, level, msg, fields)
	if console != nil {
		emit(console, level, msg, fields)
	}

	global.broadcast(Entry{
		Time:      time.Now(),
		Level:     level,
		Component: l.component,
		Message:   msg,
		Fields:    fields,
	})
}

func emit(logger *log.Logger, level Level, msg string, fields []interface{}) {
	switch level {
	case LevelDebug:
		logger.Debug(msg, fields...)
	case LevelInfo:
		logger.Info(msg, fields...)
	case LevelWarn:
		logger.Warn(msg, fields...)
	case LevelError:
		logger.Error(msg, fields...)
	}
}

// state holds the process-wide logging configuration.
type state struct {
	mu          sync.RWMutex
	initialized bool
	writer      *RotatingWriter
	level       Level
	components  map[string]Level
	console     bool
	consoleLvl  Level
	file        map[string]*log.Logger
	stderr      map[string]*log.Logger
	subscribers map[chan Entry]struct{}
	ring        *Ring
}

var discard = log.NewWithOptions(io.Discard, log.Options{})

var global = newState()

func newState() *state {
	return &state{
		components:  make(map[string]Level),
		file:        make(map[string]*log.Logger),
		stderr:      make(map[string]*log.Logger),
		subscribers: make(map[chan Entry]struct{}),
	}
}

// sinks returns the file and console loggers for component, creating them
// on first use.
func (s *state) sinks(component string) (*log.Logger, *log.Logger) {
	s.mu.RLock()
	if !s.initialized {
		s.mu.RUnlock()
		return discard, nil
	}
	file, ok := s.file[component]
	console := s.stderr[component]
	s.mu.RUnlock()
	if ok {
		return file, console
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return discard, nil
	}
	if file, ok := s.file[component]; ok {
		return file, s.stderr[component]
	}

	level := s.level
	if override, ok := s.components[component]; ok {
		level = override
	}

	file = log.NewWithOptions(s.writer, log.Options{
		Level:           level.charm(),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	})
	s.file[component] = file

	if s.console {
		console = log.NewWithOptions(os.Stderr, log.Options{
			Level:           s.consoleLvl.charm(),
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          component,
		})
		s.stderr[component] = console
	}
	return file, console
}

// Init configures logging. Calling it again replaces the previous setup.
// Before Init, every logger discards its output.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]Level, len(cfg.Components))
	for comp, lvl := range cfg.Components {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		components[comp] = parsed
	}

	var consoleLvl Level
	console := cfg.ConsoleLevel != "" && !cfg.Interactive
	if console {
		consoleLvl, err = ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.writer != nil {
		_ = global.writer.Close()
	}
	global.writer = writer
	global.level = level
	global.components = components
	global.console = console
	global.consoleLvl = consoleLvl
	global.file = make(map[string]*log.Logger)
	global.stderr = make(map[string]*log.Logger)
	global.ring = nil
	if cfg.Interactive {
		global.ring = NewRing(DefaultRingSize)
	}
	global.initialized = true
	return nil
}

// Close flushes and closes the log file and all subscriber channels.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.initialized {
		return nil
	}

	for ch := range global.subscribers {
		close(ch)
		delete(global.subscribers, ch)
	}

	var err error
	if global.writer != nil {
		err = global.writer.Close()
		global.writer = nil
	}
	global.initialized = false
	global.file = make(map[string]*log.Logger)
	global.stderr = make(map[string]*log.Logger)
	global.ring = nil
	if err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// Subscribe returns a buffered channel receiving every log entry. Entries are
// dropped rather than blocking when the channel is full.
func Subscribe() <-chan Entry {
	global.mu.Lock()
	defer global.mu.Unlock()

	ch := make(chan Entry, 100)
	global.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription channel. The channel is not closed.
func Unsubscribe(ch <-chan Entry) {
	global.mu.Lock()
	defer global.mu.Unlock()

	for sub := range global.subscribers {
		if sub == ch {
			delete(global.subscribers, sub)
			return
		}
	}
}

func (s *state) broadcast(e Entry) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ring != nil {
		s.ring.Add(e)
	}
	for ch := range s.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// Recent returns the interactive ring buffer, or nil outside interactive mode.
func Recent() *Ring {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.ring
}

// DefaultLogPath returns $XDG_STATE_HOME/rename/rename.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "rename", "rename.log")
}
