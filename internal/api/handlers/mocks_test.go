package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"greendrake/realty/internal/models"
	"greendrake/realty/internal/services"
)

// --- Mocks ---

// MockDashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) ListProperties(ctx context.Context, filter services.DashboardFilter) ([]models.PropertyCard, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropertyCard), args.Error(1)
}

// MockContactRequestService
type MockContactRequestService struct {
	mock.Mock
}

func (m *MockContactRequestService) CreateRequest(ctx context.Context, actor services.Actor, agentID, propertyID string) (*models.ContactRequest, error) {
	args := m.Called(ctx, actor, agentID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactRequest), args.Error(1)
}

// MockRatingService
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) SubmitRating(ctx context.Context, actor services.Actor, agentID, propertyID string, ratingValue *int, comment string) (*models.Rating, error) {
	args := m.Called(ctx, actor, agentID, propertyID, ratingValue, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

// MockRatingPageService
type MockRatingPageService struct {
	mock.Mock
}

func (m *MockRatingPageService) LoadRatingPage(ctx context.Context, actor services.Actor, agentID string) (*services.RatingPage, error) {
	args := m.Called(ctx, actor, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RatingPage), args.Error(1)
}
