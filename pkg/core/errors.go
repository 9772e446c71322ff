package core

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrNilStatement is returned when an operation receives a nil statement.
	ErrNilStatement = errors.New("nil statement")
	// ErrEmptyStatement is returned when a statement has no SELECT body.
	ErrEmptyStatement = errors.New("empty statement")
)
