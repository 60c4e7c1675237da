package domain

import "errors"

var (
	// ErrSkipped marks an event that was deliberately dropped (missing
	// session id, missing kind, or no resolvable working directory with no
	// existing record). It is diagnostic only and never surfaced to the host.
	ErrSkipped = errors.New("event skipped")

	// ErrLockTimeout is returned when the store lock cannot be acquired
	// within the bounded wait.
	ErrLockTimeout = errors.New("store lock timeout")
)
