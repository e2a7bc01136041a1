package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrInsufficientFunds indicates a withdrawal larger than the current balance.
	ErrInsufficientFunds = errors.New("insufficient_funds")
	// ErrUnauthorized indicates failed credential verification.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStorage indicates the persistence medium is unreadable, undecodable, or
	// unwritable. The previous durable state is unaffected when this is returned.
	ErrStorage = errors.New("storage_error")
)
