package template

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/klinehq/communication/pkg/notification"
)

// PGStorage persists templates in PostgreSQL.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a PostgreSQL-backed template store.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	if pool == nil {
		panic("template: pool cannot be nil")
	}
	return &PGStorage{pool: pool}
}

const selectTemplateSQL = `
SELECT id, channel, name, cc, bcc, subject, body, created_at, updated_at
FROM communication_templates`

func (s *PGStorage) Create(ctx context.Context, t Template) (Template, error) {
	if err := t.Validate(); err != nil {
		return Template{}, err
	}

	now := time.Now().UTC()
	t.ID = uuid.New()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO communication_templates
			(id, channel, name, cc, bcc, subject, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Channel, t.Name, t.CC, t.BCC, t.Subject, t.Body, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return Template{}, err
	}
	return t, nil
}

func (s *PGStorage) Get(ctx context.Context, id uuid.UUID) (Template, error) {
	row := s.pool.QueryRow(ctx, selectTemplateSQL+` WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, ErrTemplateNotFound
		}
		return Template{}, err
	}
	return t, nil
}

func (s *PGStorage) List(ctx context.Context, channel notification.Channel) ([]Template, error) {
	query := selectTemplateSQL + ` ORDER BY name`
	args := []any{}
	if channel != "" {
		query = selectTemplateSQL + ` WHERE channel = $1 ORDER BY name`
		args = append(args, channel)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PGStorage) Update(ctx context.Context, t Template) (Template, error) {
	if err := t.Validate(); err != nil {
		return Template{}, err
	}

	t.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE communication_templates
		 SET channel = $1, name = $2, cc = $3, bcc = $4, subject = $5, body = $6, updated_at = $7
		 WHERE id = $8`,
		t.Channel, t.Name, t.CC, t.BCC, t.Subject, t.Body, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return Template{}, err
	}
	if tag.RowsAffected() == 0 {
		return Template{}, ErrTemplateNotFound
	}
	return t, nil
}

func (s *PGStorage) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM communication_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func scanTemplate(row pgx.Row) (Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.Channel, &t.Name, &t.CC, &t.BCC, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
