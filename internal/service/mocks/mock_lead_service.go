package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/justinloyola/alma/internal/model"
	"github.com/justinloyola/alma/internal/service"
)

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) Create(ctx context.Context, in service.CreateLeadInput) (*model.Lead, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) Get(ctx context.Context, id int64) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) List(ctx context.Context, skip, limit int) ([]model.Lead, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *MockLeadService) Update(ctx context.Context, id int64, in service.UpdateLeadInput) (*model.Lead, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) MarkReachedOut(ctx context.Context, id int64) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadService) OpenResume(ctx context.Context, id int64) (*model.Lead, io.ReadCloser, error) {
	args := m.Called(ctx, id)
	var lead *model.Lead
	if args.Get(0) != nil {
		lead = args.Get(0).(*model.Lead)
	}
	var rc io.ReadCloser
	if args.Get(1) != nil {
		rc = args.Get(1).(io.ReadCloser)
	}
	return lead, rc, args.Error(2)
}

func (m *MockLeadService) ResumeURL(lead *model.Lead) string {
	args := m.Called(lead)
	return args.String(0)
}
