package bank

// The codec maps the Ledger to its durable JSON document and back. All field
// access goes through the typed document structs below; stores never touch raw
// maps. Balances are serialized as exact decimal strings alongside their
// currency code so a round trip loses no precision.

import (
	"encoding/json"
	"fmt"

	"github.com/govalues/money"
)

// accountDoc is the serialized form of an Account.
type accountDoc struct {
	AccountName    string `json:"accountName"`
	AccountNumber  string `json:"accountNumber"`
	Balance        string `json:"balance"`
	Currency       string `json:"currency"`
	CredentialHash string `json:"credentialHash"`
}

// ledgerDoc is the serialized form of the whole Ledger.
type ledgerDoc struct {
	Accounts map[string]accountDoc `json:"accounts"`
}

// EncodeLedger serializes the ledger to its JSON document. Output is indented
// so the on-disk file stays inspectable.
func EncodeLedger(l Ledger) ([]byte, error) {
	doc := ledgerDoc{Accounts: make(map[string]accountDoc, len(l.Accounts))}
	for number, a := range l.Accounts {
		doc.Accounts[number] = accountDoc{
			AccountName:    a.Name,
			AccountNumber:  a.Number,
			Balance:        a.Balance.Decimal().String(),
			Currency:       a.Balance.Curr().Code(),
			CredentialHash: a.CredentialHash,
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeLedger parses a JSON document into a Ledger. Empty input and an empty
// document both decode to an empty ledger. A key that disagrees with its
// account's own number, or an unparseable balance, is treated as corruption.
func DecodeLedger(b []byte) (Ledger, error) {
	l := NewLedger()
	if len(b) == 0 {
		return l, nil
	}
	var doc ledgerDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return Ledger{}, fmt.Errorf("decode ledger document: %w", err)
	}
	for number, d := range doc.Accounts {
		if number != d.AccountNumber {
			return Ledger{}, fmt.Errorf("ledger key %q does not match account number %q", number, d.AccountNumber)
		}
		bal, err := money.ParseAmount(d.Currency, d.Balance)
		if err != nil {
			return Ledger{}, fmt.Errorf("parse balance for account %s: %w", number, err)
		}
		l.Accounts[number] = Account{
			Number:         d.AccountNumber,
			Name:           d.AccountName,
			Balance:        bal,
			CredentialHash: d.CredentialHash,
		}
	}
	return l, nil
}
