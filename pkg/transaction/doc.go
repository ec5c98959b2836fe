// Package transaction stores the audit trail of notification send
// attempts. Every attempt becomes a Record created in Pending state
// before dispatch and moved to exactly one terminal state (Success or
// Fail) afterwards, together with a parent AuditEntry summary row.
//
// Two recorder implementations are provided: PGRecorder persists to
// PostgreSQL with both rows written in a single database transaction,
// and MemoryRecorder keeps everything in memory for development and
// tests. Persistence failures are returned to the caller; the audit
// trail never fails silently.
package transaction
