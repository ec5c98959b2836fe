package knowledge

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Storage persists articles and their attached documents.
type Storage interface {
	CreateArticle(ctx context.Context, a Article) error
	GetArticle(ctx context.Context, id uuid.UUID) (Article, error)
	ListArticles(ctx context.Context, category string) ([]Article, error)
	UpdateArticle(ctx context.Context, a Article) error
	DeleteArticle(ctx context.Context, id uuid.UUID) error

	AddDocument(ctx context.Context, d Document) error
	ListDocuments(ctx context.Context, articleID uuid.UUID) ([]Document, error)
}

// MemoryStorage is an in-memory Storage for tests and local development.
type MemoryStorage struct {
	mu       sync.RWMutex
	articles map[uuid.UUID]Article
	docs     map[uuid.UUID][]Document
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		articles: make(map[uuid.UUID]Article),
		docs:     make(map[uuid.UUID][]Document),
	}
}

func (s *MemoryStorage) CreateArticle(_ context.Context, a Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[a.ID] = a
	return nil
}

func (s *MemoryStorage) GetArticle(_ context.Context, id uuid.UUID) (Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	if !ok {
		return Article{}, ErrArticleNotFound
	}
	return a, nil
}

func (s *MemoryStorage) ListArticles(_ context.Context, category string) ([]Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Article, 0, len(s.articles))
	for _, a := range s.articles {
		if category != "" && a.Category != category {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStorage) UpdateArticle(_ context.Context, a Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[a.ID]; !ok {
		return ErrArticleNotFound
	}
	a.UpdatedAt = time.Now()
	s.articles[a.ID] = a
	return nil
}

func (s *MemoryStorage) DeleteArticle(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return ErrArticleNotFound
	}
	delete(s.articles, id)
	delete(s.docs, id)
	return nil
}

func (s *MemoryStorage) AddDocument(_ context.Context, d Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[d.ArticleID]; !ok {
		return ErrArticleNotFound
	}
	s.docs[d.ArticleID] = append(s.docs[d.ArticleID], d)
	return nil
}

func (s *MemoryStorage) ListDocuments(_ context.Context, articleID uuid.UUID) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, len(s.docs[articleID]))
	copy(out, s.docs[articleID])
	return out, nil
}
