// Package transaction implements balance-affecting operations. Each operation
// runs its whole load-check-mutate-save sequence as one store cycle, so
// concurrent deposits and withdrawals on the same account never lose updates.
package transaction

import (
	"context"
	"fmt"

	"github.com/govalues/money"

	"github.com/tinoosan/bank/internal/bank"
	"github.com/tinoosan/bank/internal/errs"
)

// Store is the ledger store mutations run through.
type Store interface {
	Update(ctx context.Context, fn func(*bank.Ledger) error) error
}

// Service applies deposits and withdrawals.
type Service interface {
	Deposit(ctx context.Context, number string, amount money.Amount) (money.Amount, error)
	Withdraw(ctx context.Context, number string, amount money.Amount) (money.Amount, error)
}

type service struct {
	store Store
}

// New constructs the transaction service.
func New(store Store) Service { return &service{store: store} }

// Deposit adds amount to the account's balance and returns the new balance.
func (s *service) Deposit(ctx context.Context, number string, amount money.Amount) (money.Amount, error) {
	if !amount.IsPos() {
		return money.Amount{}, fmt.Errorf("%w: amount must be > 0", errs.ErrInvalid)
	}
	var newBalance money.Amount
	err := s.store.Update(ctx, func(l *bank.Ledger) error {
		acc, ok := l.Get(number)
		if !ok {
			return fmt.Errorf("%w: account %s", errs.ErrNotFound, number)
		}
		bal, err := acc.Balance.Add(amount)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalid, err)
		}
		acc.Balance = bal
		l.Put(acc)
		newBalance = bal
		return nil
	})
	if err != nil {
		return money.Amount{}, err
	}
	return newBalance, nil
}

// Withdraw subtracts amount from the account's balance and returns the new
// balance. The balance never goes negative: a withdrawal larger than the
// current balance fails inside the cycle and writes nothing.
func (s *service) Withdraw(ctx context.Context, number string, amount money.Amount) (money.Amount, error) {
	if !amount.IsPos() {
		return money.Amount{}, fmt.Errorf("%w: amount must be > 0", errs.ErrInvalid)
	}
	var newBalance money.Amount
	err := s.store.Update(ctx, func(l *bank.Ledger) error {
		acc, ok := l.Get(number)
		if !ok {
			return fmt.Errorf("%w: account %s", errs.ErrNotFound, number)
		}
		cmp, err := amount.Cmp(acc.Balance)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalid, err)
		}
		if cmp > 0 {
			return fmt.Errorf("%w: balance %s is less than %s", errs.ErrInsufficientFunds, acc.Balance, amount)
		}
		bal, err := acc.Balance.Sub(amount)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalid, err)
		}
		acc.Balance = bal
		l.Put(acc)
		newBalance = bal
		return nil
	})
	if err != nil {
		return money.Amount{}, err
	}
	return newBalance, nil
}
