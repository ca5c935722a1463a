package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/justinloyola/alma/internal/model"
)

// Filesystem stores resumes as files under a root directory, one file per
// lead, named by generated key. Safe for concurrent use across different
// leads; a lead has at most one attachment, set once.
type Filesystem struct {
	root string
}

// NewFilesystem creates the filesystem backend, creating the root
// directory if it does not exist.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		return nil, fmt.Errorf("upload root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Filesystem{root: root}, nil
}

func (f *Filesystem) Kind() model.StorageKind { return model.StorageFilesystem }

// Save streams the content into a new file and returns the key (the
// filename relative to the root). A partially written file is removed on
// failure.
func (f *Filesystem) Save(ctx context.Context, lead *model.Lead, r io.Reader, originalFilename, mimeType string, metadata map[string]string) (string, error) {
	key := newKey(originalFilename)
	path := filepath.Join(f.root, key)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create resume file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write resume file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close resume file: %w", err)
	}
	return key, nil
}

// Open returns the stored file, or ErrNotStored when no key is recorded or
// the file was removed out-of-band.
func (f *Filesystem) Open(ctx context.Context, lead *model.Lead) (io.ReadCloser, error) {
	if !lead.HasResume() {
		return nil, ErrNotStored
	}
	file, err := os.Open(filepath.Join(f.root, filepath.Base(*lead.ResumePath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotStored
		}
		return nil, fmt.Errorf("open resume file: %w", err)
	}
	return file, nil
}

// Delete removes the stored file; reports whether a file was removed.
func (f *Filesystem) Delete(ctx context.Context, lead *model.Lead) (bool, error) {
	if !lead.HasResume() {
		return false, nil
	}
	err := os.Remove(filepath.Join(f.root, filepath.Base(*lead.ResumePath)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete resume file: %w", err)
	}
	return true, nil
}

func (f *Filesystem) URL(lead *model.Lead) string { return downloadURL(lead) }
