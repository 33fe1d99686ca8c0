package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactRequestStatus tracks follow-up on a contact request.
type ContactRequestStatus string

const (
	ContactPending   ContactRequestStatus = "pending"
	ContactContacted ContactRequestStatus = "contacted"
	ContactClosed    ContactRequestStatus = "closed"
)

// IsValid reports whether s is a known status.
func (s ContactRequestStatus) IsValid() bool {
	switch s {
	case ContactPending, ContactContacted, ContactClosed:
		return true
	}
	return false
}

// ContactRequest records a client reaching out to an agent about a property.
// At most one exists per (client, agent, property).
type ContactRequest struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	ClientID   primitive.ObjectID   `bson:"client" json:"client"`
	AgentID    primitive.ObjectID   `bson:"agent" json:"agent"`
	PropertyID primitive.ObjectID   `bson:"property" json:"property"`
	Status     ContactRequestStatus `bson:"status" json:"status"`
	Notes      string               `bson:"notes" json:"notes"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}

// Triple returns the uniqueness key of the request.
func (r *ContactRequest) Triple() Triple {
	return Triple{ClientID: r.ClientID, AgentID: r.AgentID, PropertyID: r.PropertyID}
}
