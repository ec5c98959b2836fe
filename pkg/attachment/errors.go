package attachment

import "errors"

var (
	// ErrInvalidRef is returned for empty references or traversal attempts.
	ErrInvalidRef = errors.New("invalid attachment reference")

	// ErrFileNotFound is returned when a reference resolves to nothing.
	ErrFileNotFound = errors.New("attachment file not found")

	// ErrFailedToReadFile is returned when stored content cannot be read.
	ErrFailedToReadFile = errors.New("failed to read attachment file")

	// ErrFailedToWriteFile is returned when content cannot be stored.
	ErrFailedToWriteFile = errors.New("failed to write attachment file")

	// ErrFailedToDeleteFile is returned when a stored file cannot be removed.
	ErrFailedToDeleteFile = errors.New("failed to delete attachment file")
)
