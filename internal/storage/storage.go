package storage

// Package storage contains the pluggable resume storage backends. A lead's
// resume bytes live in exactly one backend, recorded on the lead row at save
// time; reads always resolve the backend from that record, never from a
// process-wide default.

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/justinloyola/alma/internal/model"
)

// ErrNotStored signals that no resume bytes exist for the lead: no key was
// ever recorded, or the underlying object disappeared out-of-band.
var ErrNotStored = errors.New("no stored resume")

// ErrUnknownBackend is returned by the registry for kinds that are not
// configured in this process.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend persists and retrieves exactly one binary attachment per lead.
// Save has no side effect on the lead row itself; the caller persists the
// returned key into the lead's attachment fields (write-then-record, so a
// crash can only leave a harmless orphaned object, never a committed
// pointer at missing bytes).
type Backend interface {
	// Kind identifies the backend in the lead's resume_storage column.
	Kind() model.StorageKind

	// Save writes the content and returns an opaque key sufficient to
	// retrieve it later. Keys are collision-resistant and independent of
	// the client-supplied filename.
	Save(ctx context.Context, lead *model.Lead, r io.Reader, originalFilename, mimeType string, metadata map[string]string) (string, error)

	// Open returns the stored bytes for the lead's current key, or
	// ErrNotStored.
	Open(ctx context.Context, lead *model.Lead) (io.ReadCloser, error)

	// Delete removes the stored bytes. Idempotent: deleting a non-existent
	// attachment reports false, not an error.
	Delete(ctx context.Context, lead *model.Lead) (bool, error)

	// URL returns a stable download locator if an attachment exists, else "".
	URL(lead *model.Lead) string
}

// Registry holds the backends configured for this process, resolved once
// per operation from a validated kind.
type Registry struct {
	backends map[model.StorageKind]Backend
}

// NewRegistry builds a registry from the given backends.
func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[model.StorageKind]Backend, len(backends))}
	for _, b := range backends {
		r.backends[b.Kind()] = b
	}
	return r
}

// Get returns the backend for kind, or ErrUnknownBackend.
func (r *Registry) Get(kind model.StorageKind) (Backend, error) {
	b, ok := r.backends[kind]
	if !ok {
		return nil, ErrUnknownBackend
	}
	return b, nil
}

// Has reports whether kind is configured.
func (r *Registry) Has(kind model.StorageKind) bool {
	_, ok := r.backends[kind]
	return ok
}

// newKey generates a collision-resistant storage key from a random UUID
// plus the original file's extension. The client filename never reaches
// the filesystem or object store.
func newKey(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return uuid.NewString() + ext
}

// downloadURL is the API-relative locator for a lead's attachment.
func downloadURL(lead *model.Lead) string {
	if lead == nil || !lead.HasResume() {
		return ""
	}
	return "/leads/" + strconv.FormatInt(lead.ID, 10) + "/resume"
}
