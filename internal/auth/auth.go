// Package auth is the credential bridge: it hashes account passwords, checks
// them at login, and mints session tokens. The ledger is only reached through
// the repository's Get, never while hashing or comparing, so the store's
// critical section is never held across a bcrypt call.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tinoosan/bank/internal/bank"
	"github.com/tinoosan/bank/internal/errs"
)

// Reader is the account lookup the bridge consumes.
type Reader interface {
	Get(ctx context.Context, number string) (bank.Account, error)
}

// Service verifies credentials and issues tokens.
type Service struct {
	accounts Reader
	secret   []byte
	issuer   string
	ttl      time.Duration
	now      func() time.Time
}

// New constructs the auth bridge. ttl bounds the lifetime of issued tokens.
func New(accounts Reader, secret []byte, issuer string, ttl time.Duration) *Service {
	return &Service{accounts: accounts, secret: secret, issuer: issuer, ttl: ttl, now: time.Now}
}

// HashCredential produces the opaque credential hash stored on an account.
func HashCredential(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: password is required", errs.ErrInvalid)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Authenticate checks the password against the account's credential hash and
// returns a signed session token. A missing account and a wrong password both
// surface ErrUnauthorized so callers cannot probe for account numbers.
func (s *Service) Authenticate(ctx context.Context, number, password string) (string, error) {
	acc, err := s.accounts.Get(ctx, number)
	if errors.Is(err, errs.ErrNotFound) {
		return "", errs.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.CredentialHash), []byte(password)); err != nil {
		return "", errs.ErrUnauthorized
	}
	now := s.now()
	claims := Claims{
		Issuer:      s.issuer,
		Subject:     acc.Number,
		AccountName: acc.Name,
		Enabled:     true,
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(s.ttl).Unix(),
		ID:          uuid.NewString(),
	}
	return SignHS256(claims, s.secret)
}
