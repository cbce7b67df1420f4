// Package core defines the ledger domain: accounts, typed categories,
// dated records, and the aggregate state they live in, plus the shared
// sentinel errors. Callers match errors with errors.Is.
package core

import "errors"

var (
	// Registry errors.
	ErrDuplicateName   = errors.New("duplicate account name")
	ErrDuplicateLabel  = errors.New("duplicate type label")
	ErrInvalidCategory = errors.New("invalid category")

	// Record store errors.
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrNoAccountSelected = errors.New("no account selected")

	// Transfer codec errors.
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrMalformedDocument = errors.New("malformed document")

	// Storage errors. The only kind treated as potentially
	// unrecoverable within a session.
	ErrPersistence = errors.New("persistence failure")
)
