package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyStatus is the listing state of a property.
type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "active"
	PropertyPending  PropertyStatus = "pending"
	PropertySold     PropertyStatus = "sold"
	PropertyInactive PropertyStatus = "inactive"
)

// Property represents a listed property managed by an agent.
type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Type        string             `bson:"type" json:"type"` // e.g. "apartment", "house", "land"
	Price       float64            `bson:"price" json:"price"`
	Location    string             `bson:"location" json:"location"`
	State       string             `bson:"state" json:"state"`
	Area        string             `bson:"area" json:"area"`
	Images      []string           `bson:"images" json:"images"` // public URLs
	AgentID     primitive.ObjectID `bson:"agent" json:"agent"`
	Status      PropertyStatus     `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// AgentContact is the subset of an agent's record shown next to a property.
type AgentContact struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone,omitempty"`
	Rating       float64            `json:"rating"`
	TotalRatings int                `json:"total_ratings"`
}

// PropertyCard is a property with its agent's contact fields attached.
type PropertyCard struct {
	Property
	Agent *AgentContact `json:"agent_contact,omitempty"`
}
