package memory

// Package memory provides an in-memory ledger store used for tests. It keeps
// the same semantics as the file store: value-copy loads, and Update cycles
// that leave state untouched when the mutation fails.
import (
	"context"
	"sync"

	"github.com/tinoosan/bank/internal/bank"
)

// Store holds the ledger in memory behind a mutex.
type Store struct {
	mu     sync.Mutex
	ledger bank.Ledger
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{ledger: bank.NewLedger()}
}

// Seed inserts an account directly, bypassing the repository rules.
func (s *Store) Seed(a bank.Account) {
	s.mu.Lock()
	s.ledger.Put(a)
	s.mu.Unlock()
}

// Reset drops all accounts.
func (s *Store) Reset() {
	s.mu.Lock()
	s.ledger = bank.NewLedger()
	s.mu.Unlock()
}

// Load returns a copy of the current ledger.
func (s *Store) Load(_ context.Context) (bank.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone(), nil
}

// Save replaces the ledger with a copy of l.
func (s *Store) Save(_ context.Context, l bank.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = l.Clone()
	return nil
}

// Update runs fn against a copy of the ledger and commits it only when fn
// succeeds, mirroring the file store's all-or-nothing cycle.
func (s *Store) Update(_ context.Context, fn func(*bank.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledger.Clone()
	if err := fn(&l); err != nil {
		return err
	}
	s.ledger = l
	return nil
}

// Ready always succeeds for the in-memory store.
func (s *Store) Ready(_ context.Context) error { return nil }
