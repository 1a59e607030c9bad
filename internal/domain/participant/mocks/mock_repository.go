package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quorumgate/quorumgate/internal/domain/participant"
)

// MockRepository is a mock implementation of participant.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, p *participant.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*participant.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participant.Participant), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *participant.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]*participant.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participant.Participant), args.Error(1)
}

func (m *MockRepository) ListActive(ctx context.Context) ([]*participant.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participant.Participant), args.Error(1)
}
