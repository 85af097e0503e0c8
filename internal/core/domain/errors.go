package domain

import "errors"

// Business failures are ordinary return values, never panics. Callers probe
// them with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrNotFound covers unknown accounts, merged-away accounts, and
	// payment ids that never happened on the addressed account.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument covers non-positive amounts, self-transfers and
	// self-merges.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientFunds means the balance is below the requested debit.
	// A caller may legitimately retry later with updated state.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountExists means the id already denotes an active account.
	ErrAccountExists = errors.New("account already exists")
)
