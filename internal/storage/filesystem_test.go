package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinloyola/alma/internal/model"
)

func withResume(lead *model.Lead, key string) *model.Lead {
	lead.SetResume(model.StorageFilesystem, key, "resume.pdf", "application/pdf", 4, nil)
	return lead
}

func TestFilesystem_RoundTrip(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("%PDF-1.4 fake resume content")
	lead := &model.Lead{ID: 1}

	key, err := fs.Save(ctx, lead, bytes.NewReader(content), "resume.pdf", "application/pdf", nil)
	require.NoError(t, err)

	// Key must be generated, never derived from the client filename.
	assert.NotContains(t, key, "resume")
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	rc, err := fs.Open(ctx, withResume(lead, key))
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestFilesystem_OpenMissing(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("no key recorded", func(t *testing.T) {
		_, err := fs.Open(ctx, &model.Lead{ID: 1})
		assert.ErrorIs(t, err, ErrNotStored)
	})

	t.Run("file removed out-of-band", func(t *testing.T) {
		lead := withResume(&model.Lead{ID: 2}, "gone.pdf")
		_, err := fs.Open(ctx, lead)
		assert.ErrorIs(t, err, ErrNotStored)
	})
}

func TestFilesystem_Delete(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFilesystem(root)
	require.NoError(t, err)
	ctx := context.Background()

	lead := &model.Lead{ID: 1}
	key, err := fs.Save(ctx, lead, strings.NewReader("data"), "resume.pdf", "application/pdf", nil)
	require.NoError(t, err)
	withResume(lead, key)

	ok, err := fs.Delete(ctx, lead)
	assert.NoError(t, err)
	assert.True(t, ok)

	_, statErr := os.Stat(filepath.Join(root, key))
	assert.True(t, os.IsNotExist(statErr))

	// Idempotent: second delete reports false, not an error.
	ok, err = fs.Delete(ctx, lead)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesystem_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewFilesystem(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFilesystem_URL(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", fs.URL(&model.Lead{ID: 7}))
	assert.Equal(t, "/leads/7/resume", fs.URL(withResume(&model.Lead{ID: 7}, "x.pdf")))
}
