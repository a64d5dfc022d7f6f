package complaint_test

import (
	"campusdesk/backend/internal/feedhub"
	"campusdesk/backend/internal/models"
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// stubClassifier returns a fixed urgency and records what it was asked.
type stubClassifier struct {
	mu       sync.Mutex
	urgency  models.Urgency
	received []string
}

func (c *stubClassifier) Classify(_ context.Context, description string) models.Urgency {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, description)
	return c.urgency
}

func (c *stubClassifier) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}

// recordingFeed captures the filter it is asked to observe.
type recordingFeed struct {
	filter models.ComplaintFilter
}

func (f *recordingFeed) Observe(_ context.Context, filter models.ComplaintFilter) (*feedhub.Subscription, error) {
	f.filter = filter
	return &feedhub.Subscription{}, nil
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ComplaintSubmitted(ctx context.Context, c *models.Complaint) {
	m.Called(ctx, c)
}

func (m *MockNotifier) ComplaintTransitioned(ctx context.Context, c *models.Complaint) {
	m.Called(ctx, c)
}
