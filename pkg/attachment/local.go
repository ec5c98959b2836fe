package attachment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// LocalStore keeps attachment files on the local filesystem under a base
// directory. References are paths relative to that directory.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a filesystem-backed store rooted at baseDir.
// The directory is created if it does not exist.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if baseDir == "" {
		return nil, errors.New("attachment: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save stores the content under a fresh reference.
func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ref := newRef(filename)

	path := filepath.Join(s.baseDir, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Join(ErrFailedToWriteFile, err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", errors.Join(ErrFailedToWriteFile, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, r); err != nil {
		return "", errors.Join(ErrFailedToWriteFile, err)
	}
	return ref, nil
}

// Fetch reads the full file content for a reference.
func (s *LocalStore) Fetch(ctx context.Context, ref string) (*File, error) {
	if !validRef(ref) {
		return nil, ErrInvalidRef
	}

	path := filepath.Join(s.baseDir, filepath.FromSlash(ref))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, errors.Join(ErrFailedToReadFile, err)
	}

	return &File{
		Ref:         ref,
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// Delete removes the file for a reference. Deleting a missing file is
// not an error.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if !validRef(ref) {
		return ErrInvalidRef
	}

	path := filepath.Join(s.baseDir, filepath.FromSlash(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Join(ErrFailedToDeleteFile, err)
	}
	return nil
}

// Exists checks whether a reference resolves to a stored file.
func (s *LocalStore) Exists(ctx context.Context, ref string) bool {
	if !validRef(ref) {
		return false
	}
	info, err := os.Stat(filepath.Join(s.baseDir, filepath.FromSlash(ref)))
	return err == nil && !info.IsDir()
}
