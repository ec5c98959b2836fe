package template

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/klinehq/communication/pkg/notification"
)

// Storage persists message templates.
type Storage interface {
	Create(ctx context.Context, t Template) (Template, error)
	Get(ctx context.Context, id uuid.UUID) (Template, error)
	List(ctx context.Context, channel notification.Channel) ([]Template, error)
	Update(ctx context.Context, t Template) (Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryStorage is an in-memory template store for development and
// tests. It is safe for concurrent use.
type MemoryStorage struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]Template
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{templates: make(map[uuid.UUID]Template)}
}

func (m *MemoryStorage) Create(ctx context.Context, t Template) (Template, error) {
	if err := t.Validate(); err != nil {
		return Template{}, err
	}

	now := time.Now().UTC()
	t.ID = uuid.New()
	t.CreatedAt = now
	t.UpdatedAt = now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
	return t, nil
}

func (m *MemoryStorage) Get(ctx context.Context, id uuid.UUID) (Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.templates[id]
	if !ok {
		return Template{}, ErrTemplateNotFound
	}
	return t, nil
}

func (m *MemoryStorage) List(ctx context.Context, channel notification.Channel) ([]Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Template
	for _, t := range m.templates {
		if channel == "" || t.Channel == channel {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStorage) Update(ctx context.Context, t Template) (Template, error) {
	if err := t.Validate(); err != nil {
		return Template{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.templates[t.ID]
	if !ok {
		return Template{}, ErrTemplateNotFound
	}

	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	m.templates[t.ID] = t
	return t, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.templates[id]; !ok {
		return ErrTemplateNotFound
	}
	delete(m.templates, id)
	return nil
}
