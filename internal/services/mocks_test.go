package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"greendrake/realty/internal/notify"
)

// MockNotifier is a mock type for notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg notify.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
