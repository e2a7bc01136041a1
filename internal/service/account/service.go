// Package account implements the account repository rules: allocation of a
// unique account number, case-insensitive name uniqueness enforced atomically
// with the insert, and value-copy reads.
package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/govalues/money"

	"github.com/tinoosan/bank/internal/bank"
	"github.com/tinoosan/bank/internal/errs"
)

// Store is the ledger store the repository runs its cycles through.
type Store interface {
	Load(ctx context.Context) (bank.Ledger, error)
	Update(ctx context.Context, fn func(*bank.Ledger) error) error
}

// Allocator produces account numbers unique within a ledger.
type Allocator interface {
	Allocate(l bank.Ledger) (string, error)
}

// Service exposes account creation and lookup.
type Service interface {
	Create(ctx context.Context, name string, initialDeposit money.Amount, credentialHash string) (bank.Account, error)
	Get(ctx context.Context, number string) (bank.Account, error)
}

type service struct {
	store Store
	ids   Allocator
}

// New constructs the account service.
func New(store Store, ids Allocator) Service { return &service{store: store, ids: ids} }

// Create allocates a number, builds the account, and inserts it. The name
// uniqueness check, the allocation, and the insert all happen inside one
// store cycle so concurrent creations cannot race each other.
func (s *service) Create(ctx context.Context, name string, initialDeposit money.Amount, credentialHash string) (bank.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return bank.Account{}, fmt.Errorf("%w: account name is required", errs.ErrInvalid)
	}
	if credentialHash == "" {
		return bank.Account{}, fmt.Errorf("%w: credential hash is required", errs.ErrInvalid)
	}
	if initialDeposit.IsNeg() {
		return bank.Account{}, fmt.Errorf("%w: initial deposit must not be negative", errs.ErrInvalid)
	}

	var created bank.Account
	err := s.store.Update(ctx, func(l *bank.Ledger) error {
		if l.HasName(name) {
			return fmt.Errorf("%w: account with name %q already exists", errs.ErrConflict, name)
		}
		number, err := s.ids.Allocate(*l)
		if err != nil {
			return err
		}
		created = bank.Account{
			Number:         number,
			Name:           name,
			Balance:        initialDeposit,
			CredentialHash: credentialHash,
		}
		l.Put(created)
		return nil
	})
	if err != nil {
		return bank.Account{}, err
	}
	return created, nil
}

// Get returns a copy of the stored account.
func (s *service) Get(ctx context.Context, number string) (bank.Account, error) {
	l, err := s.store.Load(ctx)
	if err != nil {
		return bank.Account{}, err
	}
	a, ok := l.Get(number)
	if !ok {
		return bank.Account{}, fmt.Errorf("%w: account %s", errs.ErrNotFound, number)
	}
	return a, nil
}
