package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/store"
)

// IAccessService answers whether a client may rate an agent. Granting
// access happens outside this application; Unlock exists for seeding.
type IAccessService interface {
	IsUnlocked(ctx context.Context, clientID, agentID primitive.ObjectID) (bool, error)
	Unlock(ctx context.Context, clientID, agentID primitive.ObjectID) error
}

type accessService struct {
	users store.UserStore
}

func NewAccessService(users store.UserStore) IAccessService {
	return &accessService{users: users}
}

func (s *accessService) IsUnlocked(ctx context.Context, clientID, agentID primitive.ObjectID) (bool, error) {
	client, err := s.users.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load client: %w", err)
	}
	return client.HasUnlocked(agentID), nil
}

func (s *accessService) Unlock(ctx context.Context, clientID, agentID primitive.ObjectID) error {
	if err := s.users.AddUnlockedAgent(ctx, clientID, agentID); err != nil {
		return lookupError("client", err)
	}
	return nil
}
