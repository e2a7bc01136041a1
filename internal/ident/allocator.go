// Package ident produces unique account numbers for the ledger.
package ident

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/tinoosan/bank/internal/bank"
)

var numberSpace = new(big.Int).Exp(big.NewInt(10), big.NewInt(bank.NumberLength), nil)

// Allocator generates fixed-length random decimal account numbers.
type Allocator struct {
	src io.Reader
}

// New returns an allocator backed by crypto/rand.
func New() *Allocator { return &Allocator{src: rand.Reader} }

// NewWithSource returns an allocator reading randomness from src.
// Used by tests to force collisions deterministically.
func NewWithSource(src io.Reader) *Allocator { return &Allocator{src: src} }

// Allocate returns an account number not present in the given ledger. On a
// collision it regenerates and rechecks until a free number is found; the
// caller must hold the store's critical section so the number stays unique
// through the subsequent insert.
func (a *Allocator) Allocate(l bank.Ledger) (string, error) {
	for {
		n, err := rand.Int(a.src, numberSpace)
		if err != nil {
			return "", fmt.Errorf("generate account number: %w", err)
		}
		number := fmt.Sprintf("%0*d", bank.NumberLength, n)
		if _, taken := l.Get(number); !taken {
			return number, nil
		}
	}
}
