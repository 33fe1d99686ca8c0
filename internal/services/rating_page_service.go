package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/models"
	"greendrake/realty/internal/store"
)

// RatingPage is what the rating form shows.
type RatingPage struct {
	Agent      *models.User
	Properties []models.Property
	// Rated marks the properties the client already rated this agent for.
	Rated map[primitive.ObjectID]bool
}

// IRatingPageService loads the rating form for an unlocked agent.
type IRatingPageService interface {
	LoadRatingPage(ctx context.Context, actor Actor, agentID string) (*RatingPage, error)
}

type ratingPageService struct {
	users   store.UserStore
	props   store.PropertyStore
	ratings store.RatingStore
	access  IAccessService
}

func NewRatingPageService(users store.UserStore, props store.PropertyStore, ratings store.RatingStore, access IAccessService) IRatingPageService {
	return &ratingPageService{users: users, props: props, ratings: ratings, access: access}
}

// LoadRatingPage returns ErrNotFound for an unknown agent and ErrNotUnlocked
// when the actor has not unlocked the agent.
func (s *ratingPageService) LoadRatingPage(ctx context.Context, actor Actor, agentID string) (*RatingPage, error) {
	if err := actor.requireClient(); err != nil {
		return nil, err
	}
	agentOID, err := parseRef("agentId", agentID)
	if err != nil {
		return nil, err
	}
	agent, err := s.users.FindByID(ctx, agentOID)
	if err != nil {
		return nil, lookupError("agent", err)
	}
	if agent.Role != models.RoleAgent {
		return nil, ErrNotFound
	}
	unlocked, err := s.access.IsUnlocked(ctx, actor.ID, agent.ID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, ErrNotUnlocked
	}
	props, err := s.props.FindActiveByAgent(ctx, agent.ID)
	if err != nil {
		return nil, err
	}

	rated := make(map[primitive.ObjectID]bool)
	for _, p := range props {
		_, err := s.ratings.FindOne(ctx, models.Triple{ClientID: actor.ID, AgentID: agent.ID, PropertyID: p.ID})
		switch {
		case err == nil:
			rated[p.ID] = true
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}
	return &RatingPage{Agent: agent, Properties: props, Rated: rated}, nil
}
