package model

import "time"

// LeadStatus is the lifecycle state of a lead. The only defined transition
// is StatusPending -> StatusReachedOut; nothing moves a lead back.
type LeadStatus string

const (
	StatusPending    LeadStatus = "pending"
	StatusReachedOut LeadStatus = "reached_out"
)

// Valid reports whether s is one of the defined statuses.
func (s LeadStatus) Valid() bool {
	return s == StatusPending || s == StatusReachedOut
}

// StorageKind identifies which backend holds a lead's resume bytes.
type StorageKind string

const (
	StorageFilesystem StorageKind = "filesystem"
	StorageDatabase   StorageKind = "database"
	StorageS3         StorageKind = "s3"
)

// Valid reports whether k names a known backend.
func (k StorageKind) Valid() bool {
	return k == StorageFilesystem || k == StorageDatabase || k == StorageS3
}

// Lead represents a prospective contact submitted through the public form.
// Resume fields are internal bookkeeping and excluded from the public JSON
// representation; they are either all set or all nil.
type Lead struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Status    LeadStatus `json:"status"`

	ResumeStorage          StorageKind       `json:"-"`
	ResumePath             *string           `json:"-"`
	ResumeOriginalFilename *string           `json:"-"`
	ResumeMIMEType         *string           `json:"-"`
	ResumeSize             *int64            `json:"-"`
	ResumeMetadata         map[string]string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasResume reports whether an attachment has been recorded for the lead.
func (l *Lead) HasResume() bool {
	return l.ResumePath != nil && *l.ResumePath != ""
}

// SetResume records attachment metadata as a unit, keeping the
// all-or-nothing invariant on the resume columns.
func (l *Lead) SetResume(kind StorageKind, path, originalFilename, mimeType string, size int64, metadata map[string]string) {
	l.ResumeStorage = kind
	l.ResumePath = &path
	l.ResumeOriginalFilename = &originalFilename
	l.ResumeMIMEType = &mimeType
	l.ResumeSize = &size
	l.ResumeMetadata = metadata
}
