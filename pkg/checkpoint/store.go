// Package checkpoint persists sbm.StateDump snapshots in an embedded
// badger store, so a collapse_blocks run can be resumed or inspected
// after the fact without the engine itself depending on any particular
// persistence format.
package checkpoint

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/gilchrisn/sbm-block-inference/pkg/sbm"
)

// Store wraps a badger database. Every checkpoint written through one
// Store is filed under a single run id, so repeated runs against the same
// store don't collide.
type Store struct {
	db    *badger.DB
	runID string
}

// Open opens (creating if necessary) a badger store at path and mints a
// fresh run id.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open store: %w", err)
	}
	return &Store{db: db, runID: uuid.NewString()}, nil
}

// OpenInMemory opens a badger store with no on-disk footprint, for tests
// and short-lived sessions.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open in-memory store: %w", err)
	}
	return &Store{db: db, runID: uuid.NewString()}, nil
}

// RunID returns the identifier this Store files checkpoints under.
func (s *Store) RunID() string { return s.runID }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func stepKey(runID string, step int) []byte {
	return []byte(fmt.Sprintf("%s/%08d", runID, step))
}

// Save gob-encodes dump and writes it under <run-id>/<step>.
func (s *Store) Save(step int, dump sbm.StateDump) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dump); err != nil {
		return fmt.Errorf("checkpoint: encode step %d: %w", step, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stepKey(s.runID, step), buf.Bytes())
	})
}

// Load decodes the StateDump saved at step for this Store's run.
func (s *Store) Load(step int) (sbm.StateDump, error) {
	var dump sbm.StateDump

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stepKey(s.runID, step))
		if err != nil {
			return fmt.Errorf("checkpoint: load step %d: %w", step, err)
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&dump)
		})
	})

	return dump, err
}

// LatestStep returns the highest step index saved for this run, or -1 if
// none have been saved yet.
func (s *Store) LatestStep() (int, error) {
	latest := -1
	prefix := []byte(s.runID + "/")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var step int
			k := string(it.Item().Key())
			if _, err := fmt.Sscanf(k, s.runID+"/%d", &step); err == nil && step > latest {
				latest = step
			}
		}
		return nil
	})

	return latest, err
}
