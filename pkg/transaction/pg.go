package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRecorder persists transaction records and their audit entries in
// PostgreSQL. Begin and Complete each run inside a single database
// transaction so the record and its parent audit row commit together.
type PGRecorder struct {
	pool *pgxpool.Pool
}

// NewPGRecorder creates a PostgreSQL-backed recorder.
func NewPGRecorder(pool *pgxpool.Pool) *PGRecorder {
	if pool == nil {
		panic("transaction: pool cannot be nil")
	}
	return &PGRecorder{pool: pool}
}

const insertRecordSQL = `
INSERT INTO communication_transactions
	(id, channel, recipient, cc, bcc, subject, body, status, status_detail, owner, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const insertAuditSQL = `
INSERT INTO communication_audit
	(id, kind, recipient, status, status_detail, record_id, owner, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Begin persists a new Pending record with its audit entry. The returned
// record is durable before any network I/O happens; a later send failure
// never rolls it back.
func (r *PGRecorder) Begin(ctx context.Context, owner string, snap Snapshot) (*Record, error) {
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

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Join(ErrBeginFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, insertRecordSQL,
		rec.ID, rec.Channel, rec.Recipient, rec.CC, rec.BCC,
		rec.Subject, rec.Body, rec.Status, rec.StatusDetail, rec.Owner, rec.CreatedAt,
	); err != nil {
		return nil, errors.Join(ErrBeginFailed, err)
	}

	if _, err := tx.Exec(ctx, insertAuditSQL,
		uuid.New(), rec.Channel, rec.Recipient, rec.Status, rec.StatusDetail,
		rec.ID, rec.Owner, rec.CreatedAt,
	); err != nil {
		return nil, errors.Join(ErrBeginFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Join(ErrBeginFailed, err)
	}

	return rec, nil
}

// Complete moves the record and its audit entry to a terminal status.
// A nil record is a no-op: a pre-dispatch validation failure never
// creates one.
func (r *PGRecorder) Complete(ctx context.Context, rec *Record, status Status, detail string) error {
	if rec == nil {
		return nil
	}
	if !status.Terminal() {
		return ErrNotTerminalStatus
	}
	if rec.Status.Terminal() {
		return ErrAlreadyCompleted
	}

	now := time.Now().UTC()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Join(ErrCompleteFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE communication_transactions
		 SET status = $1, status_detail = $2, completed_at = $3
		 WHERE id = $4 AND status = $5`,
		status, detail, now, rec.ID, StatusPending,
	)
	if err != nil {
		return errors.Join(ErrCompleteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Join(ErrCompleteFailed, ErrRecordNotFound)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE communication_audit
		 SET status = $1, status_detail = $2
		 WHERE record_id = $3`,
		status, detail, rec.ID,
	); err != nil {
		return errors.Join(ErrCompleteFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrCompleteFailed, err)
	}

	rec.Status = status
	rec.StatusDetail = detail
	rec.CompletedAt = &now
	return nil
}

const selectRecordSQL = `
SELECT id, channel, recipient, cc, bcc, subject, body, status, status_detail, owner, created_at, completed_at
FROM communication_transactions`

// Find returns a single record by identifier.
func (r *PGRecorder) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := r.pool.QueryRow(ctx, selectRecordSQL+` WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListByOwner returns records created by the given user, newest first.
func (r *PGRecorder) ListByOwner(ctx context.Context, owner string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		selectRecordSQL+` WHERE owner = $1 ORDER BY created_at DESC LIMIT $2`,
		owner, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.Channel, &rec.Recipient, &rec.CC, &rec.BCC,
		&rec.Subject, &rec.Body, &rec.Status, &rec.StatusDetail,
		&rec.Owner, &rec.CreatedAt, &rec.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
