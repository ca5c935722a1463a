package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockLeadBlobStore struct {
	mock.Mock
}

func (m *MockLeadBlobStore) WriteResumeBlob(ctx context.Context, leadID int64, data []byte) error {
	args := m.Called(ctx, leadID, data)
	return args.Error(0)
}

func (m *MockLeadBlobStore) ReadResumeBlob(ctx context.Context, leadID int64) ([]byte, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockLeadBlobStore) DeleteResumeBlob(ctx context.Context, leadID int64) (bool, error) {
	args := m.Called(ctx, leadID)
	return args.Bool(0), args.Error(1)
}
