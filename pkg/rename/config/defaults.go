// Package config provides configuration management for the rename tool.
package config

// Default configuration values.
const (
	// DefaultSeparator joins the base name and the index token.
	DefaultSeparator = "_"

	// DefaultStart is the first sequence number of a batch.
	DefaultStart = 1

	// DefaultPadding is the numeric padding mode ("auto" or 1-6).
	DefaultPadding = "auto"

	// DefaultJournalKeep is the number of batches retained by history prune.
	DefaultJournalKeep = 50

	// DefaultLogLevel is the file log level.
	DefaultLogLevel = "info"
)
