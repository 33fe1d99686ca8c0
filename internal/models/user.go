package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the user's part in the marketplace.
type Role string

const (
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// User represents a client, agent or admin account.
// Agents carry the rating aggregate; clients carry the agents they unlocked.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string               `bson:"name" json:"name"`
	Email          string               `bson:"email" json:"email"`
	Phone          string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Role           Role                 `bson:"role" json:"role"`
	Rating         float64              `bson:"rating" json:"rating"`
	TotalRatings   int                  `bson:"total_ratings" json:"total_ratings"`
	UnlockedAgents []primitive.ObjectID `bson:"unlocked_agents,omitempty" json:"-"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// HasUnlocked reports whether agentID is in the client's unlocked set.
func (u *User) HasUnlocked(agentID primitive.ObjectID) bool {
	for _, id := range u.UnlockedAgents {
		if id == agentID {
			return true
		}
	}
	return false
}
