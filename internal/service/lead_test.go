package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/justinloyola/alma/internal/model"
	notifyMocks "github.com/justinloyola/alma/internal/notify/mocks"
	"github.com/justinloyola/alma/internal/repository"
	repoMocks "github.com/justinloyola/alma/internal/repository/mocks"
	"github.com/justinloyola/alma/internal/storage"
	storeMocks "github.com/justinloyola/alma/internal/storage/mocks"
	"github.com/justinloyola/alma/internal/upload"
)

func pdfFile() *upload.File {
	content := []byte("%PDF-1.4 resume")
	return &upload.File{
		Content:          content,
		OriginalFilename: "resume.pdf",
		MimeType:         "application/pdf",
		Size:             int64(len(content)),
	}
}

func newTestService(backend *storeMocks.MockBackend, repo *repoMocks.MockLeadRepository, notifier *notifyMocks.MockNotifier) LeadService {
	reg := storage.NewRegistry(backend)
	if notifier == nil {
		return NewLeadService(repo, reg, model.StorageFilesystem, nil)
	}
	return NewLeadService(repo, reg, model.StorageFilesystem, notifier)
}

func TestLeadService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      CreateLeadInput
		setupMocks func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository, mNotify *notifyMocks.MockNotifier)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:  "happy path",
			input: CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "Jane@Example.com", Resume: pdfFile()},
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository, mNotify *notifyMocks.MockNotifier) {
				created := &model.Lead{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Status: model.StatusPending}
				mRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.MatchedBy(func(l *model.Lead) bool {
					return l.FirstName == "Jane" && l.Email == "jane@example.com" && l.Status == model.StatusPending
				})).Return(created, nil)
				mBackend.On("Save", ctx, created, mock.Anything, "resume.pdf", "application/pdf", map[string]string(nil)).
					Return("abc123.pdf", nil)
				mRepo.On("Update", ctx, mock.MatchedBy(func(l *model.Lead) bool {
					return l.HasResume() && *l.ResumePath == "abc123.pdf" && l.ResumeStorage == model.StorageFilesystem
				})).Return(created, nil)
				mNotify.On("LeadCreated", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:       "missing name",
			input:      CreateLeadInput{FirstName: " ", LastName: "Doe", Email: "jane@example.com", Resume: pdfFile()},
			setupMocks: func(*storeMocks.MockBackend, *repoMocks.MockLeadRepository, *notifyMocks.MockNotifier) {},
			wantErr:    ErrNameRequired,
		},
		{
			name:       "name over 100 characters",
			input:      CreateLeadInput{FirstName: strings.Repeat("a", 150), LastName: "Doe", Email: "jane@example.com", Resume: pdfFile()},
			setupMocks: func(*storeMocks.MockBackend, *repoMocks.MockLeadRepository, *notifyMocks.MockNotifier) {},
			wantErr:    ErrNameTooLong,
		},
		{
			name:       "invalid email",
			input:      CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "not-an-email", Resume: pdfFile()},
			setupMocks: func(*storeMocks.MockBackend, *repoMocks.MockLeadRepository, *notifyMocks.MockNotifier) {},
			wantErr:    ErrInvalidEmail,
		},
		{
			name:       "unknown storage backend",
			input:      CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Storage: model.StorageS3, Resume: pdfFile()},
			setupMocks: func(*storeMocks.MockBackend, *repoMocks.MockLeadRepository, *notifyMocks.MockNotifier) {},
			wantErr:    ErrInvalidStorage,
		},
		{
			name:       "missing resume",
			input:      CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
			setupMocks: func(*storeMocks.MockBackend, *repoMocks.MockLeadRepository, *notifyMocks.MockNotifier) {},
			wantErr:    ErrResumeRequired,
		},
		{
			name:  "duplicate email caught by pre-check",
			input: CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Resume: pdfFile()},
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository, mNotify *notifyMocks.MockNotifier) {
				mRepo.On("FindByEmail", ctx, "jane@example.com").Return(&model.Lead{ID: 2, Email: "jane@example.com"}, nil)
			},
			wantErr: ErrDuplicateEmail,
		},
		{
			name:  "duplicate email caught by the unique index",
			input: CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Resume: pdfFile()},
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository, mNotify *notifyMocks.MockNotifier) {
				mRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicateEmail)
			},
			wantErr: ErrDuplicateEmail,
		},
		{
			name:  "storage failure rolls back the lead",
			input: CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Resume: pdfFile()},
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository, mNotify *notifyMocks.MockNotifier) {
				mRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.Anything).Return(&model.Lead{ID: 1}, nil)
				mBackend.On("Save", ctx, mock.Anything, mock.Anything, "resume.pdf", "application/pdf", map[string]string(nil)).
					Return("", errors.New("disk full"))
				mRepo.On("Delete", ctx, int64(1)).Return(true, nil)
			},
			wantErrMsg: "store resume: disk full",
		},
		{
			name:  "record failure cleans up the stored object",
			input: CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Resume: pdfFile()},
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository, mNotify *notifyMocks.MockNotifier) {
				mRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.Anything).Return(&model.Lead{ID: 1}, nil)
				mBackend.On("Save", ctx, mock.Anything, mock.Anything, "resume.pdf", "application/pdf", map[string]string(nil)).
					Return("abc123.pdf", nil)
				mRepo.On("Update", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mBackend.On("Delete", ctx, mock.Anything).Return(true, nil)
				mRepo.On("Delete", ctx, int64(1)).Return(true, nil)
			},
			wantErrMsg: "record resume: db fail",
		},
		{
			name:  "notification failure does not fail the submission",
			input: CreateLeadInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Resume: pdfFile()},
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository, mNotify *notifyMocks.MockNotifier) {
				created := &model.Lead{ID: 1, Email: "jane@example.com", Status: model.StatusPending}
				mRepo.On("FindByEmail", ctx, "jane@example.com").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.Anything).Return(created, nil)
				mBackend.On("Save", ctx, created, mock.Anything, "resume.pdf", "application/pdf", map[string]string(nil)).
					Return("abc123.pdf", nil)
				mRepo.On("Update", ctx, mock.Anything).Return(created, nil)
				mNotify.On("LeadCreated", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
			},
		},
	}

	// Run the notification dispatch inline so mock expectations are
	// checked deterministically.
	orig := notifyAsync
	notifyAsync = func(f func()) { f() }
	t.Cleanup(func() { notifyAsync = orig })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mBackend := &storeMocks.MockBackend{BackendKind: model.StorageFilesystem}
			mRepo := new(repoMocks.MockLeadRepository)
			mNotify := new(notifyMocks.MockNotifier)
			svc := newTestService(mBackend, mRepo, mNotify)

			tt.setupMocks(mBackend, mRepo, mNotify)

			lead, err := svc.Create(ctx, tt.input)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, lead)
			case tt.wantErrMsg != "":
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Nil(t, lead)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, lead)
			}

			mBackend.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mNotify.AssertExpectations(t)
		})
	}
}

func TestLeadService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockLeadRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   1,
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1}, nil)
			},
		},
		{
			name:       "zero id",
			id:         0,
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   99,
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockLeadRepository)
			svc := newTestService(&storeMocks.MockBackend{}, mRepo, nil)

			tt.setupMocks(mRepo)

			lead, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, lead)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, lead.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestLeadService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		mRepo := new(repoMocks.MockLeadRepository)
		mRepo.On("List", ctx, repository.PageQuery{Skip: 0, Limit: 100}).
			Return([]model.Lead{{ID: 1}, {ID: 2}}, nil)

		svc := newTestService(&storeMocks.MockBackend{}, mRepo, nil)
		leads, err := svc.List(ctx, -5, 0)

		assert.NoError(t, err)
		assert.Len(t, leads, 2)
		mRepo.AssertExpectations(t)
	})

	t.Run("explicit pagination", func(t *testing.T) {
		mRepo := new(repoMocks.MockLeadRepository)
		mRepo.On("List", ctx, repository.PageQuery{Skip: 20, Limit: 10}).
			Return([]model.Lead{}, nil)

		svc := newTestService(&storeMocks.MockBackend{}, mRepo, nil)
		leads, err := svc.List(ctx, 20, 10)

		assert.NoError(t, err)
		assert.Empty(t, leads)
		mRepo.AssertExpectations(t)
	})
}

// pagedLeadRepo serves List pages from an in-memory slice so pagination
// properties can be checked against real offsets instead of scripted mocks.
type pagedLeadRepo struct {
	repoMocks.MockLeadRepository
	leads []model.Lead
}

func (r *pagedLeadRepo) List(_ context.Context, q repository.PageQuery) ([]model.Lead, error) {
	if q.Skip >= len(r.leads) {
		return []model.Lead{}, nil
	}
	end := q.Skip + q.Limit
	if end > len(r.leads) {
		end = len(r.leads)
	}
	return r.leads[q.Skip:end], nil
}

func TestLeadService_List_OffsetProperties(t *testing.T) {
	ctx := context.Background()

	repo := &pagedLeadRepo{}
	for i := int64(1); i <= 7; i++ {
		repo.leads = append(repo.leads, model.Lead{ID: i})
	}
	svc := NewLeadService(repo, storage.NewRegistry(&storeMocks.MockBackend{BackendKind: model.StorageFilesystem}), model.StorageFilesystem, nil)

	all, err := svc.List(ctx, 0, len(repo.leads))
	require.NoError(t, err)
	require.Len(t, all, len(repo.leads))

	t.Run("adjacent pages concatenate to the full listing", func(t *testing.T) {
		for split := 1; split < len(repo.leads); split++ {
			left, err := svc.List(ctx, 0, split)
			require.NoError(t, err)
			right, err := svc.List(ctx, split, len(repo.leads)-split)
			require.NoError(t, err)

			joined := append(append([]model.Lead{}, left...), right...)
			assert.Equal(t, all, joined, "split at %d", split)
		}
	})

	t.Run("limit caps the page size", func(t *testing.T) {
		page, err := svc.List(ctx, 0, 3)
		require.NoError(t, err)
		assert.Len(t, page, 3)
	})

	t.Run("skip past the end yields an empty page", func(t *testing.T) {
		page, err := svc.List(ctx, 100, 5)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}

func TestLeadService_Update(t *testing.T) {
	ctx := context.Background()
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name       string
		input      UpdateLeadInput
		setupMocks func(mRepo *repoMocks.MockLeadRepository)
		wantErr    error
		check      func(t *testing.T, lead *model.Lead)
	}{
		{
			name:  "partial update keeps other fields",
			input: UpdateLeadInput{FirstName: strPtr("Janet")},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).
					Return(&model.Lead{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Status: model.StatusPending}, nil)
				mRepo.On("Update", ctx, mock.MatchedBy(func(l *model.Lead) bool {
					return l.FirstName == "Janet" && l.LastName == "Doe"
				})).Return(&model.Lead{ID: 1, FirstName: "Janet", LastName: "Doe"}, nil)
			},
			check: func(t *testing.T, lead *model.Lead) {
				assert.Equal(t, "Janet", lead.FirstName)
			},
		},
		{
			name:  "status change",
			input: UpdateLeadInput{Status: statusPtr(model.StatusReachedOut)},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1, Status: model.StatusPending}, nil)
				mRepo.On("Update", ctx, mock.MatchedBy(func(l *model.Lead) bool {
					return l.Status == model.StatusReachedOut
				})).Return(&model.Lead{ID: 1, Status: model.StatusReachedOut}, nil)
			},
		},
		{
			name:  "invalid status rejected",
			input: UpdateLeadInput{Status: statusPtr("archived")},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1}, nil)
			},
			wantErr: ErrInvalidStatus,
		},
		{
			name:  "reached_out cannot return to pending",
			input: UpdateLeadInput{Status: statusPtr(model.StatusPending)},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1, Status: model.StatusReachedOut}, nil)
			},
			wantErr: ErrStatusReversal,
		},
		{
			name:  "pending status restated is a no-op",
			input: UpdateLeadInput{Status: statusPtr(model.StatusPending)},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1, Status: model.StatusPending}, nil)
				mRepo.On("Update", ctx, mock.MatchedBy(func(l *model.Lead) bool {
					return l.Status == model.StatusPending
				})).Return(&model.Lead{ID: 1, Status: model.StatusPending}, nil)
			},
		},
		{
			name:  "empty name rejected",
			input: UpdateLeadInput{FirstName: strPtr("   ")},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1, FirstName: "Jane"}, nil)
			},
			wantErr: ErrNameRequired,
		},
		{
			name:  "name over 100 characters rejected",
			input: UpdateLeadInput{LastName: strPtr(strings.Repeat("b", 101))},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1, LastName: "Doe"}, nil)
			},
			wantErr: ErrNameTooLong,
		},
		{
			name:  "invalid email rejected",
			input: UpdateLeadInput{Email: strPtr("nope")},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1}, nil)
			},
			wantErr: ErrInvalidEmail,
		},
		{
			name:  "duplicate email on commit",
			input: UpdateLeadInput{Email: strPtr("taken@example.com")},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1}, nil)
				mRepo.On("Update", ctx, mock.Anything).Return(nil, repository.ErrDuplicateEmail)
			},
			wantErr: ErrDuplicateEmail,
		},
		{
			name:  "not found",
			input: UpdateLeadInput{FirstName: strPtr("Janet")},
			setupMocks: func(mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockLeadRepository)
			svc := newTestService(&storeMocks.MockBackend{}, mRepo, nil)

			tt.setupMocks(mRepo)

			lead, err := svc.Update(ctx, 1, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, lead)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func statusPtr(s model.LeadStatus) *model.LeadStatus { return &s }

func TestLeadService_MarkReachedOut(t *testing.T) {
	ctx := context.Background()

	t.Run("pending lead transitions", func(t *testing.T) {
		mRepo := new(repoMocks.MockLeadRepository)
		mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1, Status: model.StatusPending}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(l *model.Lead) bool {
			return l.Status == model.StatusReachedOut
		})).Return(&model.Lead{ID: 1, Status: model.StatusReachedOut}, nil)

		svc := newTestService(&storeMocks.MockBackend{}, mRepo, nil)
		lead, err := svc.MarkReachedOut(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, model.StatusReachedOut, lead.Status)
		mRepo.AssertExpectations(t)
	})

	t.Run("already reached out is a no-op", func(t *testing.T) {
		mRepo := new(repoMocks.MockLeadRepository)
		mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1, Status: model.StatusReachedOut}, nil)

		svc := newTestService(&storeMocks.MockBackend{}, mRepo, nil)
		lead, err := svc.MarkReachedOut(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, model.StatusReachedOut, lead.Status)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockLeadRepository)
		mRepo.On("FindByID", ctx, int64(42)).Return(nil, sql.ErrNoRows)

		svc := newTestService(&storeMocks.MockBackend{}, mRepo, nil)
		_, err := svc.MarkReachedOut(ctx, 42)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLeadService_Delete(t *testing.T) {
	ctx := context.Background()

	leadWithResume := func() *model.Lead {
		l := &model.Lead{ID: 1}
		l.SetResume(model.StorageFilesystem, "abc123.pdf", "resume.pdf", "application/pdf", 10, nil)
		return l
	}

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository)
		wantOK     bool
		wantErr    bool
	}{
		{
			name: "lead without resume",
			id:   1,
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1}, nil)
				mRepo.On("Delete", ctx, int64(1)).Return(true, nil)
			},
			wantOK: true,
		},
		{
			name: "lead with resume removes the attachment",
			id:   1,
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(leadWithResume(), nil)
				mBackend.On("Delete", ctx, mock.Anything).Return(true, nil)
				mRepo.On("Delete", ctx, int64(1)).Return(true, nil)
			},
			wantOK: true,
		},
		{
			name: "missing lead reports false",
			id:   99,
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)
			},
			wantOK: false,
		},
		{
			name: "storage failure keeps the row",
			id:   1,
			setupMocks: func(mBackend *storeMocks.MockBackend, mRepo *repoMocks.MockLeadRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(leadWithResume(), nil)
				mBackend.On("Delete", ctx, mock.Anything).Return(false, errors.New("storage fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mBackend := &storeMocks.MockBackend{BackendKind: model.StorageFilesystem}
			mRepo := new(repoMocks.MockLeadRepository)
			svc := newTestService(mBackend, mRepo, nil)

			tt.setupMocks(mBackend, mRepo)

			ok, err := svc.Delete(ctx, tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantOK, ok)
			}
			mBackend.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestLeadService_OpenResume(t *testing.T) {
	ctx := context.Background()

	t.Run("streams from the recorded backend", func(t *testing.T) {
		lead := &model.Lead{ID: 1}
		lead.SetResume(model.StorageFilesystem, "abc123.pdf", "resume.pdf", "application/pdf", 4, nil)

		mBackend := &storeMocks.MockBackend{BackendKind: model.StorageFilesystem}
		mRepo := new(repoMocks.MockLeadRepository)
		mRepo.On("FindByID", ctx, int64(1)).Return(lead, nil)
		mBackend.On("Open", ctx, lead).Return(io.NopCloser(strings.NewReader("data")), nil)

		svc := newTestService(mBackend, mRepo, nil)
		got, rc, err := svc.OpenResume(ctx, 1)

		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, lead, got)
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "data", string(b))
	})

	t.Run("lead without resume", func(t *testing.T) {
		mRepo := new(repoMocks.MockLeadRepository)
		mRepo.On("FindByID", ctx, int64(1)).Return(&model.Lead{ID: 1}, nil)

		svc := newTestService(&storeMocks.MockBackend{}, mRepo, nil)
		_, _, err := svc.OpenResume(ctx, 1)

		assert.ErrorIs(t, err, ErrNoResume)
	})

	t.Run("bytes gone out-of-band", func(t *testing.T) {
		lead := &model.Lead{ID: 1}
		lead.SetResume(model.StorageFilesystem, "gone.pdf", "resume.pdf", "application/pdf", 4, nil)

		mBackend := &storeMocks.MockBackend{BackendKind: model.StorageFilesystem}
		mRepo := new(repoMocks.MockLeadRepository)
		mRepo.On("FindByID", ctx, int64(1)).Return(lead, nil)
		mBackend.On("Open", ctx, lead).Return(nil, storage.ErrNotStored)

		svc := newTestService(mBackend, mRepo, nil)
		_, _, err := svc.OpenResume(ctx, 1)

		assert.ErrorIs(t, err, ErrNoResume)
	})
}
