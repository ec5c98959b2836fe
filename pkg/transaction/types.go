package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a send attempt.
type Status string

const (
	StatusPending Status = "Pending"
	StatusSuccess Status = "Success"
	StatusFail    Status = "Fail"
)

// Terminal reports whether the status is a final one. A record reaches a
// terminal status exactly once and is never re-opened.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFail
}

// Snapshot captures the message fields preserved in the audit trail.
// It is taken from the validated request before any network I/O.
type Snapshot struct {
	Channel   string
	Recipient string
	CC        string
	BCC       string
	Subject   string
	Body      string
}

// Record is one durable send attempt. It is created in Pending state
// before dispatch and updated to exactly one of Success or Fail after.
type Record struct {
	ID           uuid.UUID
	Channel      string
	Recipient    string
	CC           string
	BCC          string
	Subject      string
	Body         string
	Status       Status
	StatusDetail string
	Owner        string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// AuditEntry is the parent summary row written alongside each Record.
// It mirrors the record's outcome and exists for cross-channel reporting.
type AuditEntry struct {
	ID           uuid.UUID
	Kind         string
	Recipient    string
	Status       Status
	StatusDetail string
	RecordID     uuid.UUID
	Owner        string
	CreatedAt    time.Time
}
