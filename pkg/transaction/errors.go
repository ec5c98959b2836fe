package transaction

import "errors"

var (
	// ErrBeginFailed is returned when the pending record and its audit
	// entry cannot be persisted.
	ErrBeginFailed = errors.New("failed to persist pending transaction record")

	// ErrCompleteFailed is returned when the terminal status update
	// cannot be persisted.
	ErrCompleteFailed = errors.New("failed to complete transaction record")

	// ErrRecordNotFound is returned when a record lookup matches nothing.
	ErrRecordNotFound = errors.New("transaction record not found")

	// ErrNotTerminalStatus is returned when Complete is called with a
	// status other than Success or Fail.
	ErrNotTerminalStatus = errors.New("status is not terminal")

	// ErrAlreadyCompleted is returned when Complete is called on a record
	// that already reached a terminal status.
	ErrAlreadyCompleted = errors.New("transaction record already completed")
)
