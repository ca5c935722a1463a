package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/justinloyola/alma/internal/model"
	"github.com/justinloyola/alma/internal/notify"
	"github.com/justinloyola/alma/internal/repository"
	"github.com/justinloyola/alma/internal/storage"
	"github.com/justinloyola/alma/internal/upload"
)

const (
	defaultListLimit = 100
	maxNameLength    = 100
	notifyTimeout    = 30 * time.Second
)

// notifyAsync dispatches notification sends off the request path;
// replaced in tests to run inline.
var notifyAsync = func(f func()) { go f() }

// CreateLeadInput carries a validated public submission. Storage selects
// the backend for the resume and falls back to the configured default
// when empty.
type CreateLeadInput struct {
	FirstName string
	LastName  string
	Email     string
	Resume    *upload.File
	Storage   model.StorageKind
}

// UpdateLeadInput holds a partial update; nil fields are left untouched.
type UpdateLeadInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Status    *model.LeadStatus
}

// LeadService defines the use cases for managing leads.
type LeadService interface {
	// Create stores a new lead, persists its resume to the chosen backend,
	// and fires the creation notifications. A storage or commit failure
	// after partial work rolls the partial work back.
	Create(ctx context.Context, in CreateLeadInput) (*model.Lead, error)

	// Get returns a single lead by its ID.
	Get(ctx context.Context, id int64) (*model.Lead, error)

	// List returns leads in insertion order using skip/limit pagination.
	List(ctx context.Context, skip, limit int) ([]model.Lead, error)

	// Update applies the non-nil fields of in to the lead.
	Update(ctx context.Context, id int64, in UpdateLeadInput) (*model.Lead, error)

	// MarkReachedOut transitions a pending lead to reached_out. Marking an
	// already reached-out lead is a no-op, not an error.
	MarkReachedOut(ctx context.Context, id int64) (*model.Lead, error)

	// Delete removes the lead and its stored resume. Reports whether the
	// lead existed.
	Delete(ctx context.Context, id int64) (bool, error)

	// OpenResume streams the lead's resume from whichever backend holds it.
	OpenResume(ctx context.Context, id int64) (*model.Lead, io.ReadCloser, error)

	// ResumeURL returns the download locator for the lead's resume, or "".
	ResumeURL(lead *model.Lead) string
}

type leadService struct {
	repo        repository.LeadRepository
	backends    *storage.Registry
	defaultKind model.StorageKind
	notifier    notify.Notifier
}

// NewLeadService constructs a LeadService on top of the given repository
// and storage registry.
func NewLeadService(repo repository.LeadRepository, backends *storage.Registry, defaultKind model.StorageKind, notifier notify.Notifier) LeadService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &leadService{
		repo:        repo,
		backends:    backends,
		defaultKind: defaultKind,
		notifier:    notifier,
	}
}

func (s *leadService) Create(ctx context.Context, in CreateLeadInput) (*model.Lead, error) {
	firstName, err := normalizeName(in.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := normalizeName(in.LastName)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	kind := in.Storage
	if kind == "" {
		kind = s.defaultKind
	}
	if !kind.Valid() || !s.backends.Has(kind) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStorage, kind)
	}
	if in.Resume == nil {
		return nil, ErrResumeRequired
	}

	// Racy pre-check; the unique index is the authoritative guard and the
	// insert below maps its violation to the same error.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	lead, err := s.repo.Create(ctx, &model.Lead{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Status:        model.StatusPending,
		ResumeStorage: kind,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create lead: %w", err)
	}

	if err := s.attachResume(ctx, lead, kind, in.Resume); err != nil {
		// Roll back the lead row so a failed upload never leaves a
		// half-created lead behind.
		if _, delErr := s.repo.Delete(ctx, lead.ID); delErr != nil {
			return nil, fmt.Errorf("%v; rollback delete failed: %v", err, delErr)
		}
		return nil, err
	}

	// Notification failures never fail the submission; the send runs off
	// the request path with its own deadline.
	notifyAsync(func() {
		nCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.LeadCreated(nCtx, lead); err != nil {
			logJSON(map[string]any{"level": "warn", "msg": "lead notification failed", "lead_id": lead.ID, "error": err.Error()})
		}
	})
	return lead, nil
}

// attachResume writes the file to the backend, then records the key on
// the lead row. If the record step fails, the just-written object is
// removed.
func (s *leadService) attachResume(ctx context.Context, lead *model.Lead, kind model.StorageKind, file *upload.File) error {
	backend, err := s.backends.Get(kind)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStorage, kind)
	}

	key, err := backend.Save(ctx, lead, bytes.NewReader(file.Content), file.OriginalFilename, file.MimeType, nil)
	if err != nil {
		return fmt.Errorf("store resume: %w", err)
	}

	lead.SetResume(kind, key, file.OriginalFilename, file.MimeType, file.Size, nil)
	updated, err := s.repo.Update(ctx, lead)
	if err != nil {
		if _, delErr := backend.Delete(ctx, lead); delErr != nil {
			return fmt.Errorf("record resume: %v; orphan cleanup failed: %v", err, delErr)
		}
		return fmt.Errorf("record resume: %w", err)
	}
	*lead = *updated
	return nil
}

func (s *leadService) Get(ctx context.Context, id int64) (*model.Lead, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (s *leadService) List(ctx context.Context, skip, limit int) ([]model.Lead, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, repository.PageQuery{Skip: skip, Limit: limit})
}

func (s *leadService) Update(ctx context.Context, id int64, in UpdateLeadInput) (*model.Lead, error) {
	lead, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		name, err := normalizeName(*in.FirstName)
		if err != nil {
			return nil, err
		}
		lead.FirstName = name
	}
	if in.LastName != nil {
		name, err := normalizeName(*in.LastName)
		if err != nil {
			return nil, err
		}
		lead.LastName = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		lead.Email = email
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *in.Status)
		}
		// Status only moves forward: reached_out never returns to pending.
		if lead.Status == model.StatusReachedOut && *in.Status == model.StatusPending {
			return nil, ErrStatusReversal
		}
		lead.Status = *in.Status
	}

	updated, err := s.repo.Update(ctx, lead)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return updated, nil
}

func (s *leadService) MarkReachedOut(ctx context.Context, id int64) (*model.Lead, error) {
	lead, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == model.StatusReachedOut {
		return lead, nil
	}
	status := model.StatusReachedOut
	return s.Update(ctx, id, UpdateLeadInput{Status: &status})
}

func (s *leadService) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, ErrIDRequired
	}
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	// Remove the attachment first; if that fails the row stays so the
	// reference to the stored object is not lost.
	if lead.HasResume() {
		backend, err := s.backends.Get(lead.ResumeStorage)
		if err == nil {
			if _, err := backend.Delete(ctx, lead); err != nil {
				return false, fmt.Errorf("delete resume: %w", err)
			}
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *leadService) OpenResume(ctx context.Context, id int64) (*model.Lead, io.ReadCloser, error) {
	lead, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !lead.HasResume() {
		return nil, nil, ErrNoResume
	}

	backend, err := s.backends.Get(lead.ResumeStorage)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidStorage, lead.ResumeStorage)
	}
	rc, err := backend.Open(ctx, lead)
	if err != nil {
		if errors.Is(err, storage.ErrNotStored) {
			return nil, nil, ErrNoResume
		}
		return nil, nil, fmt.Errorf("open resume: %w", err)
	}
	return lead, rc, nil
}

func (s *leadService) ResumeURL(lead *model.Lead) string {
	if lead == nil || !lead.HasResume() {
		return ""
	}
	backend, err := s.backends.Get(lead.ResumeStorage)
	if err != nil {
		return ""
	}
	return backend.URL(lead)
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: %d characters", ErrNameTooLong, utf8.RuneCountInString(name))
	}
	return name, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidEmail, raw)
	}
	return strings.ToLower(addr.Address), nil
}
