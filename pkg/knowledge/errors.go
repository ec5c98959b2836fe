package knowledge

import "errors"

var (
	// Validation errors are returned to the caller verbatim.
	ErrTitleRequired    = errors.New("please enter a title")
	ErrCategoryRequired = errors.New("please select a category")
	ErrContentRequired  = errors.New("please enter the content")

	// ErrNotOwner is returned when a user other than the article owner
	// attempts to modify it.
	ErrNotOwner = errors.New("only the owner can edit this article")

	ErrArticleNotFound = errors.New("article not found")

	// ErrCannotSave hides unexpected storage failures from the caller;
	// the underlying cause is logged.
	ErrCannotSave = errors.New("cannot save article, please contact administrator")
)
