package attachment

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// File is a stored attachment resolved by reference. Data holds the full
// file content; callers hand it off to a transport and drop it.
type File struct {
	Ref         string
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Store owns attachment file content. The notification core keeps only
// references and resolves them through this interface at composition
// time.
type Store interface {
	// Save stores the content and returns the reference to fetch it by.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Fetch resolves a reference to the stored file content.
	Fetch(ctx context.Context, ref string) (*File, error)
	// Delete removes a stored file by reference.
	Delete(ctx context.Context, ref string) error
	// Exists checks whether a reference resolves to a stored file.
	Exists(ctx context.Context, ref string) bool
}

// newRef builds a collision-free storage reference for a sanitized
// filename.
func newRef(filename string) string {
	return uuid.New().String() + "/" + SanitizeFilename(filename)
}

// validRef rejects empty references and path traversal attempts.
func validRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "/") {
		return false
	}
	return !strings.Contains(ref, "..")
}

// SanitizeFilename strips path components and dangerous characters from a
// filename. Returns "unnamed" for empty or special directory references.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
