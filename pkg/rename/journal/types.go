// Package journal persists executed rename batches in a Badger database so
// that a later process can revert the most recent batch for a folder.
package journal

import (
	"errors"
	"time"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// Operation is the kind of batch recorded.
type Operation string

const (
	// OpRename is an executed rename plan.
	OpRename Operation = "rename"
	// OpUndo is a revert of an earlier batch.
	OpUndo Operation = "undo"
)

// Errors returned by the journal.
var (
	ErrNotFound    = errors.New("batch not found")
	ErrAmbiguousID = errors.New("batch id prefix is ambiguous")
)

// Batch is one journal entry.
type Batch struct {
	ID        string    `json:"id" yaml:"id"`
	Folder    string    `json:"folder" yaml:"folder"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Operation Operation `json:"operation" yaml:"operation"`

	// Records are the successful renames in execution order.
	Records []types.UndoRecord `json:"records" yaml:"records"`

	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`

	// Config is the naming configuration of a rename batch.
	Config *types.NamingConfig `json:"config,omitempty" yaml:"config,omitempty"`

	// RevertsID is set on undo batches.
	RevertsID string `json:"reverts_id,omitempty" yaml:"reverts_id,omitempty"`

	// RevertedAt is set once a rename batch has been undone.
	RevertedAt *time.Time `json:"reverted_at,omitempty" yaml:"reverted_at,omitempty"`
}

// Reverted reports whether the batch has been undone.
func (b *Batch) Reverted() bool {
	return b.RevertedAt != nil
}

// ShortID returns the first eight characters of the ID.
func (b *Batch) ShortID() string {
	if len(b.ID) <= 8 {
		return b.ID
	}
	return b.ID[:8]
}

// Schema holds database schema information.
type Schema struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrentSchemaVersion is the layout written by this package:
// b:<unix-nano>:<id> -> Batch JSON, i:<id> -> batch key.
const CurrentSchemaVersion = 1
