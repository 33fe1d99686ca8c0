package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/models"
	"greendrake/realty/internal/store"
)

// IRatingService defines the agent rating workflow.
type IRatingService interface {
	SubmitRating(ctx context.Context, actor Actor, agentID, propertyID string, ratingValue *int, comment string) (*models.Rating, error)
}

type ratingService struct {
	users   store.UserStore
	ratings store.RatingStore
}

func NewRatingService(users store.UserStore, ratings store.RatingStore) IRatingService {
	return &ratingService{users: users, ratings: ratings}
}

// SubmitRating stores the actor's rating for the triple and recomputes the
// agent's mean over every persisted rating.
func (s *ratingService) SubmitRating(ctx context.Context, actor Actor, agentID, propertyID string, ratingValue *int, comment string) (*models.Rating, error) {
	if ratingValue == nil || *ratingValue < models.MinRating || *ratingValue > models.MaxRating {
		return nil, ErrInvalidRating
	}
	if err := actor.requireClient(); err != nil {
		return nil, err
	}
	agentOID, err := parseRef("agentId", agentID)
	if err != nil {
		return nil, err
	}
	propertyOID, err := parseRef("propertyId", propertyID)
	if err != nil {
		return nil, err
	}

	agent, err := s.users.FindByID(ctx, agentOID)
	if err != nil {
		return nil, lookupError("agent", err)
	}
	if agent.Role != models.RoleAgent {
		return nil, fmt.Errorf("%w: agent %s", ErrNotFound, agentID)
	}

	rating := &models.Rating{
		ClientID:   actor.ID,
		AgentID:    agent.ID,
		PropertyID: propertyOID,
		Rating:     *ratingValue,
		Comment:    strings.TrimSpace(comment),
	}
	if err := s.ratings.Insert(ctx, rating); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateRating
		}
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	if err := s.recompute(ctx, agent.ID); err != nil {
		return nil, err
	}
	return rating, nil
}

// recompute writes the exact mean and count of the agent's ratings.
// Concurrent submissions may briefly leave a stale mean; the next recompute
// corrects it.
func (s *ratingService) recompute(ctx context.Context, agentID primitive.ObjectID) error {
	ratings, err := s.ratings.FindByAgent(ctx, agentID)
	if err != nil {
		return fmt.Errorf("failed to load ratings for agent: %w", err)
	}
	agg := models.Aggregate(ratings)
	if err := s.users.UpdateAgentRating(ctx, agentID, agg); err != nil {
		return fmt.Errorf("failed to update agent rating: %w", err)
	}
	log.Debug().Str("agent", agentID.Hex()).Float64("rating", agg.Average).Int("total_ratings", agg.Count).Msg("agent rating recomputed")
	return nil
}
