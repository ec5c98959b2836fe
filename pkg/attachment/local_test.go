package attachment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinehq/communication/pkg/attachment"
)

func newLocalStore(t *testing.T) *attachment.LocalStore {
	t.Helper()
	store, err := attachment.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLocalStore_SaveAndFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newLocalStore(t)

	ref, err := store.Save(ctx, "report.pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, "/report.pdf"))

	file, err := store.Fetch(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", file.Filename)
	assert.Equal(t, []byte("%PDF-1.4 test"), file.Data)
	assert.Equal(t, int64(13), file.Size)
	assert.NotEmpty(t, file.ContentType)
	assert.True(t, store.Exists(ctx, ref))
}

func TestLocalStore_SaveSanitizesFilename(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newLocalStore(t)

	ref, err := store.Save(ctx, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, "/passwd"))
	assert.NotContains(t, ref, "..")
}

func TestLocalStore_FetchMissing(t *testing.T) {
	t.Parallel()

	store := newLocalStore(t)
	_, err := store.Fetch(context.Background(), "no-such/ref.txt")
	assert.ErrorIs(t, err, attachment.ErrFileNotFound)
}

func TestLocalStore_InvalidRefs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newLocalStore(t)

	for _, ref := range []string{"", "../escape.txt", "/absolute.txt", "dir/../../escape.txt"} {
		_, err := store.Fetch(ctx, ref)
		assert.ErrorIs(t, err, attachment.ErrInvalidRef, "ref %q", ref)
		assert.ErrorIs(t, store.Delete(ctx, ref), attachment.ErrInvalidRef, "ref %q", ref)
		assert.False(t, store.Exists(ctx, ref), "ref %q", ref)
	}
}

func TestLocalStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newLocalStore(t)

	ref, err := store.Save(ctx, "note.txt", strings.NewReader("bye"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	assert.False(t, store.Exists(ctx, ref))

	// Deleting an already removed file is not an error.
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../../etc/passwd", "passwd"},
		{`C:\Windows\file.txt`, "file.txt"},
		{"", "unnamed"},
		{"..", "unnamed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, attachment.SanitizeFilename(tt.in), "input %q", tt.in)
	}
}
