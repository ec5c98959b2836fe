package knowledge

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStorage persists articles and documents in PostgreSQL.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a PostgreSQL-backed knowledge store.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	if pool == nil {
		panic("knowledge: pool cannot be nil")
	}
	return &PGStorage{pool: pool}
}

const selectArticleSQL = `
SELECT id, title, category, content, owner, created_at, updated_at
FROM knowledge_articles`

func (s *PGStorage) CreateArticle(ctx context.Context, a Article) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO knowledge_articles
			(id, title, category, content, owner, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Title, a.Category, a.Content, a.Owner, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (s *PGStorage) GetArticle(ctx context.Context, id uuid.UUID) (Article, error) {
	row := s.pool.QueryRow(ctx, selectArticleSQL+` WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Article{}, ErrArticleNotFound
		}
		return Article{}, err
	}
	return a, nil
}

func (s *PGStorage) ListArticles(ctx context.Context, category string) ([]Article, error) {
	query := selectArticleSQL + ` ORDER BY created_at DESC`
	args := []any{}
	if category != "" {
		query = selectArticleSQL + ` WHERE category = $1 ORDER BY created_at DESC`
		args = append(args, category)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PGStorage) UpdateArticle(ctx context.Context, a Article) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE knowledge_articles
		 SET title = $1, category = $2, content = $3, updated_at = now()
		 WHERE id = $4`,
		a.Title, a.Category, a.Content, a.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (s *PGStorage) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM knowledge_articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (s *PGStorage) AddDocument(ctx context.Context, d Document) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO knowledge_documents (id, article_id, ref, filename, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.ArticleID, d.Ref, d.Filename, d.CreatedAt,
	)
	return err
}

func (s *PGStorage) ListDocuments(ctx context.Context, articleID uuid.UUID) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, article_id, ref, filename, created_at
		 FROM knowledge_documents
		 WHERE article_id = $1
		 ORDER BY created_at`,
		articleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.ArticleID, &d.Ref, &d.Filename, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanArticle(row pgx.Row) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Category, &a.Content, &a.Owner, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
