// Package file provides the flat-file ledger store. The whole account
// collection lives in one JSON document; every load-mutate-save cycle runs
// under a single process-wide mutex and every save replaces the document with
// an atomic rename, so readers never observe a partial write.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tinoosan/bank/internal/bank"
	"github.com/tinoosan/bank/internal/errs"
)

// Store owns the durable ledger document at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
}

// New constructs a store for the document at path. The file is created lazily
// on the first save; a missing file reads as an empty ledger.
func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the current persisted ledger.
func (s *Store) Load(_ context.Context) (bank.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save durably replaces the previous document with the given ledger.
func (s *Store) Save(_ context.Context, l bank.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(l)
}

// Update runs one complete load-mutate-save cycle under the store's mutex.
// If fn returns an error nothing is written and the error is returned as-is.
// At most one cycle is in flight at a time regardless of which caller
// initiated it.
func (s *Store) Update(_ context.Context, fn func(*bank.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(&l); err != nil {
		return err
	}
	return s.saveLocked(l)
}

// Ready reports whether the document's directory is accessible.
func (s *Store) Ready(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", errs.ErrStorage, dir, err)
	}
	return nil
}

func (s *Store) loadLocked() (bank.Ledger, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return bank.NewLedger(), nil
	}
	if err != nil {
		return bank.Ledger{}, fmt.Errorf("%w: read %s: %v", errs.ErrStorage, s.path, err)
	}
	l, err := bank.DecodeLedger(b)
	if err != nil {
		return bank.Ledger{}, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return l, nil
}

// saveLocked writes to a temp file in the same directory, syncs it, then
// renames it over the document. On any failure the previous document is left
// intact and the temp file is removed.
func (s *Store) saveLocked(l bank.Ledger) error {
	b, err := bank.EncodeLedger(l)
	if err != nil {
		return fmt.Errorf("%w: encode ledger: %v", errs.ErrStorage, err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", errs.ErrStorage, dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", errs.ErrStorage, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", errs.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync temp file: %v", errs.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", errs.ErrStorage, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename temp file: %v", errs.ErrStorage, err)
	}
	return nil
}
