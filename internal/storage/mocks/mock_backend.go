package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/justinloyola/alma/internal/model"
)

type MockBackend struct {
	mock.Mock
	BackendKind model.StorageKind
}

func (m *MockBackend) Kind() model.StorageKind {
	if m.BackendKind != "" {
		return m.BackendKind
	}
	return model.StorageFilesystem
}

func (m *MockBackend) Save(ctx context.Context, lead *model.Lead, r io.Reader, originalFilename, mimeType string, metadata map[string]string) (string, error) {
	args := m.Called(ctx, lead, r, originalFilename, mimeType, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Open(ctx context.Context, lead *model.Lead) (io.ReadCloser, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBackend) Delete(ctx context.Context, lead *model.Lead) (bool, error) {
	args := m.Called(ctx, lead)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) URL(lead *model.Lead) string {
	args := m.Called(lead)
	return args.String(0)
}
