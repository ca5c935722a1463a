package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/justinloyola/alma/internal/model"
	"github.com/justinloyola/alma/internal/repository"
)

const uniqueViolationCode = "23505"

// leadColumns is the scan list shared by every lead query. resume_data is
// deliberately excluded; blob access goes through the LeadBlobStore methods.
const leadColumns = `id, first_name, last_name, email, status, resume_storage,
	resume_path, resume_original_filename, resume_mime_type, resume_size,
	resume_metadata, created_at, updated_at`

// LeadPostgres is a PostgreSQL implementation of repository.LeadRepository
// and repository.LeadBlobStore. It uses database/sql with parameterized
// queries and contains no business logic.
type LeadPostgres struct {
	db *sql.DB
}

// NewLeadPostgres creates a new LeadPostgres repository.
func NewLeadPostgres(db *sql.DB) *LeadPostgres {
	return &LeadPostgres{db: db}
}

var (
	_ repository.LeadRepository = (*LeadPostgres)(nil)
	_ repository.LeadBlobStore  = (*LeadPostgres)(nil)
)

// Create inserts a new lead row and returns the stored record.
func (r *LeadPostgres) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	const q = `
		INSERT INTO leads (first_name, last_name, email, status, resume_storage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + leadColumns

	row := r.db.QueryRowContext(ctx, q,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		string(lead.Status),
		string(lead.ResumeStorage),
	)
	out, err := scanLead(row)
	if err != nil {
		return nil, translateUnique(err)
	}
	return out, nil
}

// FindByID fetches a single lead by its id.
func (r *LeadPostgres) FindByID(ctx context.Context, id int64) (*model.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return scanLead(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single lead by its email.
func (r *LeadPostgres) FindByEmail(ctx context.Context, email string) (*model.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads WHERE email = $1`
	return scanLead(r.db.QueryRowContext(ctx, q, email))
}

// List returns leads in ascending id order using LIMIT/OFFSET pagination.
func (r *LeadPostgres) List(ctx context.Context, pq repository.PageQuery) ([]model.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads ORDER BY id ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists all mutable fields and bumps updated_at.
func (r *LeadPostgres) Update(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	const q = `
		UPDATE leads
		SET first_name = $2,
		    last_name = $3,
		    email = $4,
		    status = $5,
		    resume_storage = $6,
		    resume_path = $7,
		    resume_original_filename = $8,
		    resume_mime_type = $9,
		    resume_size = $10,
		    resume_metadata = $11,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	meta, err := marshalMetadata(lead.ResumeMetadata)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, q,
		lead.ID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		string(lead.Status),
		string(lead.ResumeStorage),
		lead.ResumePath,
		lead.ResumeOriginalFilename,
		lead.ResumeMIMEType,
		lead.ResumeSize,
		meta,
	)
	out, err := scanLead(row)
	if err != nil {
		return nil, translateUnique(err)
	}
	return out, nil
}

// Delete removes a lead by id and reports whether a row was deleted.
func (r *LeadPostgres) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM leads WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// WriteResumeBlob stores resume bytes in the lead's row.
func (r *LeadPostgres) WriteResumeBlob(ctx context.Context, leadID int64, data []byte) error {
	const q = `UPDATE leads SET resume_data = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, leadID, data)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ReadResumeBlob returns the stored resume bytes, or (nil, nil) when the
// blob column is empty.
func (r *LeadPostgres) ReadResumeBlob(ctx context.Context, leadID int64) ([]byte, error) {
	const q = `SELECT resume_data FROM leads WHERE id = $1`
	var data []byte
	if err := r.db.QueryRowContext(ctx, q, leadID).Scan(&data); err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteResumeBlob clears the blob column; reports whether bytes existed.
func (r *LeadPostgres) DeleteResumeBlob(ctx context.Context, leadID int64) (bool, error) {
	const q = `UPDATE leads SET resume_data = NULL, updated_at = now()
		WHERE id = $1 AND resume_data IS NOT NULL`
	res, err := r.db.ExecContext(ctx, q, leadID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*model.Lead, error) {
	var (
		l       model.Lead
		status  string
		storage string
		meta    []byte
	)
	if err := row.Scan(
		&l.ID,
		&l.FirstName,
		&l.LastName,
		&l.Email,
		&status,
		&storage,
		&l.ResumePath,
		&l.ResumeOriginalFilename,
		&l.ResumeMIMEType,
		&l.ResumeSize,
		&meta,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.Status = model.LeadStatus(status)
	l.ResumeStorage = model.StorageKind(storage)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &l.ResumeMetadata); err != nil {
			return nil, fmt.Errorf("decode resume_metadata: %w", err)
		}
	}
	return &l, nil
}

func marshalMetadata(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

// translateUnique maps a unique-constraint violation onto the repository
// sentinel so callers never inspect driver error codes.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return repository.ErrDuplicateEmail
	}
	return err
}
