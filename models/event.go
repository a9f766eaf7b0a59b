package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Date        *time.Time         `bson:"date,omitempty" json:"date,omitempty"`
	StartTime   string             `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime     string             `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`

	// Set of enrolled user ids; an id appears at most once.
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
