// Package store holds the MongoDB backed persistence for users, properties,
// ratings, contact requests and email templates.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"greendrake/realty/internal/db"
	"greendrake/realty/internal/models"
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	UpdateAgentRating(ctx context.Context, agentID primitive.ObjectID, agg models.RatingAggregate) error
	AddUnlockedAgent(ctx context.Context, clientID, agentID primitive.ObjectID) error
}

type PropertyStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	// FindActive returns properties matching filter, newest first. The caller
	// is responsible for constraining status.
	FindActive(ctx context.Context, filter bson.M) ([]models.Property, error)
	FindActiveByAgent(ctx context.Context, agentID primitive.ObjectID) ([]models.Property, error)
}

type RatingStore interface {
	FindOne(ctx context.Context, triple models.Triple) (*models.Rating, error)
	FindByAgent(ctx context.Context, agentID primitive.ObjectID) ([]models.Rating, error)
	Insert(ctx context.Context, rating *models.Rating) error
}

type ContactRequestStore interface {
	Insert(ctx context.Context, req *models.ContactRequest) error
}

type EmailTemplateStore interface {
	Find(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error)
	Save(ctx context.Context, tpl *models.EmailTemplate) error
}

// mapError translates driver errors into store errors.
func mapError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case db.IsMongoDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
