package services

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/models"
)

// Actor is the authenticated user on whose behalf a service call runs.
type Actor struct {
	ID   primitive.ObjectID
	Role models.Role
}

func (a Actor) requireClient() error {
	if a.ID.IsZero() || a.Role != models.RoleClient {
		return ErrForbidden
	}
	return nil
}

// parseRef validates a required id. Empty is a missing field; anything that
// is not an ObjectID can never resolve, so it is NotFound.
func parseRef(field, raw string) (primitive.ObjectID, error) {
	if raw == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s %q", ErrNotFound, field, raw)
	}
	return id, nil
}
