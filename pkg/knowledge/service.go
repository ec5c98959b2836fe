package knowledge

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service applies validation and ownership rules on top of a Storage.
// Validation and ownership errors pass through verbatim; unexpected
// storage failures are logged and collapsed into ErrCannotSave.
type Service struct {
	storage Storage
	log     *slog.Logger
}

// NewService creates a knowledge service. It panics on nil dependencies
// since they indicate a wiring bug.
func NewService(storage Storage, log *slog.Logger) *Service {
	if storage == nil {
		panic("knowledge: storage cannot be nil")
	}
	if log == nil {
		panic("knowledge: logger cannot be nil")
	}
	return &Service{storage: storage, log: log}
}

// Create validates and stores a new article owned by the given user.
func (s *Service) Create(ctx context.Context, owner string, a Article) (Article, error) {
	if err := a.Validate(); err != nil {
		return Article{}, err
	}

	now := time.Now().UTC()
	a.ID = uuid.New()
	a.Owner = owner
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.storage.CreateArticle(ctx, a); err != nil {
		s.log.ErrorContext(ctx, "failed to create article", slog.Any("error", err))
		return Article{}, ErrCannotSave
	}
	return a, nil
}

// Get returns one article by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Article, error) {
	return s.storage.GetArticle(ctx, id)
}

// List returns articles, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]Article, error) {
	return s.storage.ListArticles(ctx, category)
}

// Update stores changed article fields. Only the owner may update;
// anyone else gets ErrNotOwner.
func (s *Service) Update(ctx context.Context, actor string, a Article) (Article, error) {
	current, err := s.storage.GetArticle(ctx, a.ID)
	if err != nil {
		return Article{}, err
	}
	if !CanEdit(actor, current) {
		return Article{}, ErrNotOwner
	}
	if err := a.Validate(); err != nil {
		return Article{}, err
	}

	a.Owner = current.Owner
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	if err := s.storage.UpdateArticle(ctx, a); err != nil {
		s.log.ErrorContext(ctx, "failed to update article", slog.Any("error", err))
		return Article{}, ErrCannotSave
	}
	return a, nil
}

// Delete removes an article. Only the owner may delete it.
func (s *Service) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	current, err := s.storage.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if !CanEdit(actor, current) {
		return ErrNotOwner
	}
	if err := s.storage.DeleteArticle(ctx, id); err != nil {
		s.log.ErrorContext(ctx, "failed to delete article", slog.Any("error", err))
		return ErrCannotSave
	}
	return nil
}

// AttachDocument links an already stored file to an article.
func (s *Service) AttachDocument(ctx context.Context, actor string, articleID uuid.UUID, ref, filename string) (Document, error) {
	current, err := s.storage.GetArticle(ctx, articleID)
	if err != nil {
		return Document{}, err
	}
	if !CanEdit(actor, current) {
		return Document{}, ErrNotOwner
	}

	d := Document{
		ID:        uuid.New(),
		ArticleID: articleID,
		Ref:       ref,
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.AddDocument(ctx, d); err != nil {
		s.log.ErrorContext(ctx, "failed to attach document", slog.Any("error", err))
		return Document{}, ErrCannotSave
	}
	return d, nil
}

// Documents lists the files attached to an article.
func (s *Service) Documents(ctx context.Context, articleID uuid.UUID) ([]Document, error) {
	return s.storage.ListDocuments(ctx, articleID)
}

// CanEdit reports whether the acting user owns the article. Edit forms
// use it to decide whether the fields are read-only.
func CanEdit(actor string, a Article) bool {
	return actor != "" && actor == a.Owner
}
