package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a client's rating of an agent for a property.
type Rating struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ClientID   primitive.ObjectID `bson:"client" json:"client"`
	AgentID    primitive.ObjectID `bson:"agent" json:"agent"`
	PropertyID primitive.ObjectID `bson:"property" json:"property"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Triple returns the uniqueness key of the rating.
func (r *Rating) Triple() Triple {
	return Triple{ClientID: r.ClientID, AgentID: r.AgentID, PropertyID: r.PropertyID}
}

// RatingAggregate is the mean and count over an agent's ratings.
type RatingAggregate struct {
	Average float64
	Count   int
}

// Aggregate computes the exact mean over all ratings. An empty set yields zeros.
func Aggregate(ratings []Rating) RatingAggregate {
	if len(ratings) == 0 {
		return RatingAggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return RatingAggregate{
		Average: float64(sum) / float64(len(ratings)),
		Count:   len(ratings),
	}
}
