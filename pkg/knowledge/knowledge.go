package knowledge

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article is one knowledge base entry. Owner is the name of the user who
// created it; only the owner may change it afterwards.
type Article struct {
	ID        uuid.UUID
	Title     string
	Category  string
	Content   string
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the article fields before persisting.
func (a Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(a.Category) == "" {
		return ErrCategoryRequired
	}
	if strings.TrimSpace(a.Content) == "" {
		return ErrContentRequired
	}
	return nil
}

// Document is a file attached to an article. Ref points into the
// attachment store; the knowledge base never holds file bytes.
type Document struct {
	ID        uuid.UUID
	ArticleID uuid.UUID
	Ref       string
	Filename  string
	CreatedAt time.Time
}
