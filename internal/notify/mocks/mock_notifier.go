package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/justinloyola/alma/internal/model"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) LeadCreated(ctx context.Context, lead *model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}
