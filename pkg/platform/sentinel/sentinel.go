// Package sentinel names the storage facts stores report to services.
//
// Stores return these, possibly wrapped, and services translate them into
// coded domain errors. Input validation failures never use them.
package sentinel

import "errors"

var (
	// ErrNotFound: no such record, or no matching event on the ledger.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed: a unique key such as a tax code or on-chain election id
	// is taken.
	ErrAlreadyUsed = errors.New("already used")
	// ErrAlreadySet: a write-once field holds a different value.
	ErrAlreadySet = errors.New("already set")
	// ErrInvalidState: the record is not in a state that allows the write.
	ErrInvalidState = errors.New("invalid state")
)
