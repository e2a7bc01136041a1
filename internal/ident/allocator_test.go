package ident

import (
	"crypto/rand"
	"io"
	"regexp"
	"testing"

	"github.com/govalues/money"

	"github.com/tinoosan/bank/internal/bank"
)

var numberRe = regexp.MustCompile(`^[0-9]{10}$`)

func TestAllocateFormat(t *testing.T) {
	a := New()
	l := bank.NewLedger()
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		n, err := a.Allocate(l)
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		if !numberRe.MatchString(n) {
			t.Fatalf("bad account number %q", n)
		}
		if _, dup := seen[n]; dup {
			t.Fatalf("duplicate number %q handed out", n)
		}
		seen[n] = struct{}{}
		bal, _ := money.NewAmountFromMinorUnits("USD", 0)
		l.Put(bank.Account{Number: n, Name: n, Balance: bal})
	}
}

// zeroThenRandom returns zero bytes for the first n reads, then defers to
// crypto/rand. Zero bytes decode to the number 0000000000.
type zeroThenRandom struct{ n int }

func (z *zeroThenRandom) Read(p []byte) (int, error) {
	if z.n > 0 {
		z.n--
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	return io.ReadFull(rand.Reader, p)
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	a := NewWithSource(&zeroThenRandom{n: 3})
	l := bank.NewLedger()
	bal, _ := money.NewAmountFromMinorUnits("USD", 0)
	l.Put(bank.Account{Number: "0000000000", Name: "taken", Balance: bal})

	n, err := a.Allocate(l)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if n == "0000000000" {
		t.Fatal("allocator returned a taken number")
	}
	if !numberRe.MatchString(n) {
		t.Fatalf("bad account number %q", n)
	}
}
