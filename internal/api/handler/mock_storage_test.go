package handler_test

import (
	"campusdesk/backend/internal/models"
	"context"
	"sync/atomic"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify/mock implementation of storage.Storage.
// SubscribeChanges hands out the Changes channel so tests can push events.
type MockStorage struct {
	mock.Mock
	Changes chan models.ChangeEvent

	listCalls atomic.Int32
}

func newMockStorage() *MockStorage {
	return &MockStorage{Changes: make(chan models.ChangeEvent, 10)}
}

func (m *MockStorage) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaints(ctx context.Context, filter models.ComplaintFilter, limit int) ([]models.Complaint, error) {
	m.listCalls.Add(1)
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ApplyTransition(ctx context.Context, id string, status models.Status, reply string) (*models.Complaint, bool, error) {
	args := m.Called(ctx, id, status, reply)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Complaint), args.Bool(1), args.Error(2)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) PublishChange(ctx context.Context, ev models.ChangeEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockStorage) SubscribeChanges(ctx context.Context) (<-chan models.ChangeEvent, error) {
	return m.Changes, nil
}
