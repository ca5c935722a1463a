package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/justinloyola/alma/internal/model"
	"github.com/justinloyola/alma/internal/repository"
)

// Database stores resume bytes in the lead's own row (resume_data column),
// so attachment bytes and metadata share the relational store's consistency
// guarantees.
type Database struct {
	blobs repository.LeadBlobStore
}

// NewDatabase creates the database-blob backend on top of a blob store,
// normally the lead repository itself.
func NewDatabase(blobs repository.LeadBlobStore) *Database {
	return &Database{blobs: blobs}
}

func (d *Database) Kind() model.StorageKind { return model.StorageDatabase }

// Save writes the bytes into the lead's blob column. The lead row must
// already be persisted.
func (d *Database) Save(ctx context.Context, lead *model.Lead, r io.Reader, originalFilename, mimeType string, metadata map[string]string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read resume content: %w", err)
	}
	if err := d.blobs.WriteResumeBlob(ctx, lead.ID, data); err != nil {
		return "", fmt.Errorf("write resume blob: %w", err)
	}
	return fmt.Sprintf("postgres://%d", lead.ID), nil
}

// Open returns the stored bytes, or ErrNotStored when the key is unset or
// the blob column is empty.
func (d *Database) Open(ctx context.Context, lead *model.Lead) (io.ReadCloser, error) {
	if !lead.HasResume() {
		return nil, ErrNotStored
	}
	data, err := d.blobs.ReadResumeBlob(ctx, lead.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotStored
		}
		return nil, fmt.Errorf("read resume blob: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotStored
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete clears the blob column; reports whether bytes were removed.
func (d *Database) Delete(ctx context.Context, lead *model.Lead) (bool, error) {
	ok, err := d.blobs.DeleteResumeBlob(ctx, lead.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("delete resume blob: %w", err)
	}
	return ok, nil
}

func (d *Database) URL(lead *model.Lead) string { return downloadURL(lead) }
