package transaction

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRecorder is an in-memory recorder for development and tests.
// It is safe for concurrent use.
type MemoryRecorder struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
	audit   map[uuid.UUID]*AuditEntry
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		records: make(map[uuid.UUID]*Record),
		audit:   make(map[uuid.UUID]*AuditEntry),
	}
}

// Begin stores a new Pending record with its audit entry.
func (m *MemoryRecorder) Begin(ctx context.Context, owner string, snap Snapshot) (*Record, error) {
	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.New(),
		Channel:   snap.Channel,
		Recipient: snap.Recipient,
		CC:        snap.CC,
		BCC:       snap.BCC,
		Subject:   snap.Subject,
		Body:      snap.Body,
		Status:    StatusPending,
		Owner:     owner,
		CreatedAt: now,
	}
	entry := &AuditEntry{
		ID:        uuid.New(),
		Kind:      snap.Channel,
		Recipient: snap.Recipient,
		Status:    StatusPending,
		RecordID:  rec.ID,
		Owner:     owner,
		CreatedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	m.audit[entry.ID] = entry

	clone := *rec
	return &clone, nil
}

// Complete moves the record and its audit entry to a terminal status.
// A nil record is a no-op.
func (m *MemoryRecorder) Complete(ctx context.Context, rec *Record, status Status, detail string) error {
	if rec == nil {
		return nil
	}
	if !status.Terminal() {
		return ErrNotTerminalStatus
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[rec.ID]
	if !ok {
		return ErrRecordNotFound
	}
	if stored.Status.Terminal() {
		return ErrAlreadyCompleted
	}

	now := time.Now().UTC()
	stored.Status = status
	stored.StatusDetail = detail
	stored.CompletedAt = &now

	for _, entry := range m.audit {
		if entry.RecordID == rec.ID {
			entry.Status = status
			entry.StatusDetail = detail
		}
	}

	rec.Status = status
	rec.StatusDetail = detail
	rec.CompletedAt = &now
	return nil
}

// Find returns a copy of the record with the given identifier.
func (m *MemoryRecorder) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

// ListByOwner returns copies of the owner's records, newest first.
func (m *MemoryRecorder) ListByOwner(ctx context.Context, owner string, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []Record
	for _, rec := range m.records {
		if rec.Owner == owner {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// All returns copies of every stored record. Intended for tests.
func (m *MemoryRecorder) All() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, *rec)
	}
	return records
}

// AuditEntries returns copies of every stored audit entry. Intended for tests.
func (m *MemoryRecorder) AuditEntries() []AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]AuditEntry, 0, len(m.audit))
	for _, entry := range m.audit {
		entries = append(entries, *entry)
	}
	return entries
}
