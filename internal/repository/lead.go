package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import (
	"context"
	"errors"

	"github.com/justinloyola/alma/internal/model"
)

// ErrDuplicateEmail is returned when an insert or update trips the unique
// index on the email column. The pre-insert existence check in the service
// layer is racy; this error is the authoritative signal.
var ErrDuplicateEmail = errors.New("email already exists")

// LeadRepository defines data access for leads using SQL queries only.
// No business logic here — strictly persistence operations.
type LeadRepository interface {
	// Create inserts a new lead row and returns the stored record including
	// DB-assigned id and timestamps.
	Create(ctx context.Context, lead *model.Lead) (*model.Lead, error)

	// FindByID returns a lead by its id, or sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.Lead, error)

	// FindByEmail returns a lead by email, or sql.ErrNoRows.
	FindByEmail(ctx context.Context, email string) (*model.Lead, error)

	// List returns leads in insertion order (ascending id) using
	// limit/offset pagination.
	List(ctx context.Context, pq PageQuery) ([]model.Lead, error)

	// Update persists all mutable fields of the lead and bumps updated_at.
	// Returns sql.ErrNoRows when the lead does not exist.
	Update(ctx context.Context, lead *model.Lead) (*model.Lead, error)

	// Delete removes a lead by id. Reports whether a row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}

// LeadBlobStore is the persistence contract the database storage backend
// builds on: resume bytes held in the leads row itself.
type LeadBlobStore interface {
	// WriteResumeBlob stores data in the lead's blob column.
	// Returns sql.ErrNoRows when the lead does not exist.
	WriteResumeBlob(ctx context.Context, leadID int64, data []byte) error

	// ReadResumeBlob returns the stored bytes, or (nil, nil) when the
	// column is empty. Returns sql.ErrNoRows when the lead does not exist.
	ReadResumeBlob(ctx context.Context, leadID int64) ([]byte, error)

	// DeleteResumeBlob clears the blob column. Reports whether bytes were
	// actually removed.
	DeleteResumeBlob(ctx context.Context, leadID int64) (bool, error)
}

// PageQuery holds skip/limit pagination parameters.
type PageQuery struct {
	Skip  int
	Limit int
}
