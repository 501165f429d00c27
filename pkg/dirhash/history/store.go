// Package history keeps a log of hash runs in a local badger database so
// that a tree can be compared against how it looked at an earlier run.
package history

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/jamesainslie/dirhash/pkg/dirhash/logging"
)

// ErrNotFound is returned when no run matches.
var ErrNotFound = errors.New("run not found")

// Store wraps a badger database of runs.
type Store struct {
	db  *badger.DB
	log *logging.Logger
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening history at %s: %w", path, err)
	}
	return &Store{db: db, log: logging.Get("history")}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores run. A missing ID or creation time is filled in.
func (s *Store) Save(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	value, err := run.encode()
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}
	key := runKey(run)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set(idKey(run.ID), key)
	})
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	s.log.Debug("run saved", "id", run.ID, "root", run.Root, "files", run.Files)
	return nil
}

// Get returns the run with the given ID.
func (s *Store) Get(id string) (*Run, error) {
	var run Run
	err := s.db.View(func(txn *badger.Txn) error {
		key, err := lookup(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(run.decode)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

func lookup(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(idKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// List returns up to limit runs of every root, newest first. A limit of
// zero or less returns all runs.
func (s *Store) List(limit int) ([]Run, error) {
	runs, err := s.scan([]byte(runPrefix), false, 0)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(runs, func(a, b Run) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// ListRoot returns up to limit runs of root, newest first.
func (s *Store) ListRoot(root string, limit int) ([]Run, error) {
	return s.scan(rootPrefix(root), true, limit)
}

// Latest returns the newest run of root.
func (s *Store) Latest(root string) (*Run, error) {
	runs, err := s.ListRoot(root, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// scan decodes the runs under prefix, in key order or reversed.
func (s *Store) scan(prefix []byte, reverse bool, limit int) ([]Run, error) {
	runs := []Run{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := prefix
		if reverse {
			seek = append(slices.Clone(prefix), 0xff)
		}
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var run Run
			if err := it.Item().Value(run.decode); err != nil {
				return fmt.Errorf("decoding %s: %w", it.Item().Key(), err)
			}
			runs = append(runs, run)
			if limit > 0 && len(runs) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Delete removes the run with the given ID.
func (s *Store) Delete(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key, err := lookup(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(idKey(id))
	})
	if err != nil {
		return err
	}
	s.log.Debug("run deleted", "id", id)
	return nil
}

// Cleanup removes runs created more than retentionDays ago and returns how
// many were removed. A retention of zero or less keeps everything.
func (s *Store) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	runs, err := s.List(0)
	if err != nil {
		return 0, err
	}

	removed := 0
	err = s.db.Update(func(txn *badger.Txn) error {
		for i := range runs {
			if !runs[i].CreatedAt.Before(cutoff) {
				continue
			}
			if err := txn.Delete(runKey(&runs[i])); err != nil {
				return err
			}
			if err := txn.Delete(idKey(runs[i].ID)); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("removing expired runs: %w", err)
	}

	if removed > 0 {
		s.log.Info("expired runs removed", "count", removed, "retention_days", retentionDays)
	}
	return removed, nil
}
