// Package bank defines the core banking entities: the Account record and the
// Ledger, the complete collection of accounts persisted as one document.
package bank

import (
	"strings"

	"github.com/govalues/money"
)

// NumberLength is the fixed length of an account number in decimal digits.
const NumberLength = 10

// Account is a single customer's record.
// Number and Name are immutable after creation; only Balance is ever mutated.
type Account struct {
	// Number is the 10-digit account number and primary key.
	Number string
	// Name is the account holder's display name, unique case-insensitively.
	Name string
	// Balance is the current balance. It never goes negative.
	Balance money.Amount
	// CredentialHash is the opaque hash produced by the credential hasher.
	// The core never inspects or recomputes it.
	CredentialHash string
}

// Ledger maps account numbers to accounts. It is always loaded and saved as
// one unit; there is no partial-document update.
type Ledger struct {
	Accounts map[string]Account
}

// NewLedger returns an empty ledger.
func NewLedger() Ledger {
	return Ledger{Accounts: make(map[string]Account)}
}

// Get returns the account with the given number, if present.
func (l Ledger) Get(number string) (Account, bool) {
	a, ok := l.Accounts[number]
	return a, ok
}

// Put inserts or replaces an account, keyed by its number.
func (l *Ledger) Put(a Account) {
	if l.Accounts == nil {
		l.Accounts = make(map[string]Account)
	}
	l.Accounts[a.Number] = a
}

// HasName reports whether any account already uses the given name,
// compared case-insensitively.
func (l Ledger) HasName(name string) bool {
	for _, a := range l.Accounts {
		if strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

// Len returns the number of accounts in the ledger.
func (l Ledger) Len() int { return len(l.Accounts) }

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := Ledger{Accounts: make(map[string]Account, len(l.Accounts))}
	for k, v := range l.Accounts {
		out.Accounts[k] = v
	}
	return out
}
