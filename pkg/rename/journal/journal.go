package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/jamesainslie/rename/pkg/rename/logging"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

var logger = logging.Get("journal")

// Key prefixes.
const (
	prefixBatch = "b:" // b:<unix-nano>:<id> -> Batch
	prefixID    = "i:" // i:<id> -> batch key
	schemaKey   = "m:__schema__"
)

// Journal is the batch history backed by Badger DB.
type Journal struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens or creates a journal in dir.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db, now: time.Now}
	if err := j.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores a batch and returns it with its ID and timestamp set. The
// folder is stored as an absolute path.
func (j *Journal) Record(b Batch) (*Batch, error) {
	folder, err := filepath.Abs(b.Folder)
	if err != nil {
		return nil, fmt.Errorf("resolving folder: %w", err)
	}
	b.Folder = folder
	b.ID = uuid.NewString()
	b.Timestamp = j.now().UTC()
	if b.Operation == "" {
		b.Operation = OpRename
	}

	data, err := json.Marshal(&b)
	if err != nil {
		return nil, fmt.Errorf("encoding batch: %w", err)
	}
	key := batchKey(b.Timestamp, b.ID)

	err = j.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(prefixID+b.ID), key)
	})
	if err != nil {
		return nil, fmt.Errorf("writing batch: %w", err)
	}

	logger.Info("recorded batch", "id", b.ShortID(), "op", b.Operation, "folder", b.Folder, "records", len(b.Records))
	return &b, nil
}

// RecordExecution stores a successful rename batch for folder.
func (j *Journal) RecordExecution(folder string, cfg types.NamingConfig, records []types.UndoRecord, res types.ExecutionResult) (*Batch, error) {
	return j.Record(Batch{
		Folder:    folder,
		Operation: OpRename,
		Records:   records,
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Config:    &cfg,
	})
}

// RecordRevert marks batch id reverted and stores the undo batch that
// reverted it. records are the batch's renames, res the outcome of
// replaying them.
func (j *Journal) RecordRevert(folder, id string, records []types.UndoRecord, res types.ExecutionResult) (*Batch, error) {
	if id != "" {
		if err := j.MarkReverted(id); err != nil {
			return nil, fmt.Errorf("marking batch reverted: %w", err)
		}
	}
	return j.Record(Batch{
		Folder:    folder,
		Operation: OpUndo,
		Records:   Inverse(records, res.Failures),
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		RevertsID: id,
	})
}

// Inverse returns the renames performed by reverting records, in the
// order they were applied, leaving out rows that failed.
func Inverse(records []types.UndoRecord, failures []types.RowFailure) []types.UndoRecord {
	failed := make(map[string]bool, len(failures))
	for _, f := range failures {
		failed[f.Source] = true
	}
	out := make([]types.UndoRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if failed[rec.Target] {
			continue
		}
		out = append(out, types.UndoRecord{Target: rec.Source, Source: rec.Target})
	}
	return out
}

// Get returns the batch with the given ID or unique ID prefix.
func (j *Journal) Get(id string) (*Batch, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	var batch *Batch
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixID + id)
		var key []byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if key != nil {
				return fmt.Errorf("%w: %s", ErrAmbiguousID, id)
			}
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			key = v
		}
		if key == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		b, err := readBatch(txn, key)
		batch = b
		return err
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// List returns up to limit batches, newest first. A limit of zero or less
// returns every batch.
func (j *Journal) List(limit int) ([]*Batch, error) {
	var out []*Batch
	err := j.scanNewest(func(b *Batch) bool {
		out = append(out, b)
		return limit <= 0 || len(out) < limit
	})
	return out, err
}

// Latest returns the newest rename batch for folder that has not been
// reverted.
func (j *Journal) Latest(folder string) (*Batch, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolving folder: %w", err)
	}

	var found *Batch
	err = j.scanNewest(func(b *Batch) bool {
		if b.Folder == abs && b.Operation == OpRename && !b.Reverted() {
			found = b
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w for %s", ErrNotFound, abs)
	}
	return found, nil
}

// MarkReverted records that batch id was undone.
func (j *Journal) MarkReverted(id string) error {
	b, err := j.Get(id)
	if err != nil {
		return err
	}
	now := j.now().UTC()
	b.RevertedAt = &now

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(batchKey(b.Timestamp, b.ID), data)
	})
}

// Prune deletes all but the newest keep batches and returns how many were
// removed.
func (j *Journal) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	var stale []*Batch
	seen := 0
	err := j.scanNewest(func(b *Batch) bool {
		seen++
		if seen > keep {
			stale = append(stale, b)
		}
		return true
	})
	if err != nil || len(stale) == 0 {
		return 0, err
	}

	wb := j.db.NewWriteBatch()
	defer wb.Cancel()
	for _, b := range stale {
		if err := wb.Delete(batchKey(b.Timestamp, b.ID)); err != nil {
			return 0, err
		}
		if err := wb.Delete([]byte(prefixID + b.ID)); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}

	logger.Info("pruned journal", "removed", len(stale), "kept", keep)
	return len(stale), nil
}

// scanNewest calls fn for each batch from newest to oldest until fn
// returns false.
func (j *Journal) scanNewest(fn func(*Batch) bool) error {
	return j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixBatch)
		seek := append([]byte(prefixBatch), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var b Batch
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &b)
			}); err != nil {
				return fmt.Errorf("decoding batch: %w", err)
			}
			if !fn(&b) {
				return nil
			}
		}
		return nil
	})
}

func readBatch(txn *badger.Txn, key []byte) (*Batch, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &b)
	}); err != nil {
		return nil, fmt.Errorf("decoding batch: %w", err)
	}
	return &b, nil
}

func batchKey(ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", prefixBatch, ts.UnixNano(), id))
}

// GetSchema returns the stored schema, or nil if none was written.
func (j *Journal) GetSchema() *Schema {
	var schema *Schema
	_ = j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(schemaKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			schema = &Schema{}
			return json.Unmarshal(val, schema)
		})
	})
	return schema
}

func (j *Journal) ensureSchema() error {
	schema := j.GetSchema()
	switch {
	case schema == nil:
		data, err := json.Marshal(Schema{Version: CurrentSchemaVersion, UpdatedAt: j.now().UTC()})
		if err != nil {
			return err
		}
		return j.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(schemaKey), data)
		})
	case schema.Version > CurrentSchemaVersion:
		return fmt.Errorf("journal schema version %d is newer than supported version %d", schema.Version, CurrentSchemaVersion)
	default:
		return nil
	}
}
