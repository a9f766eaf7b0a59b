package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is structurally an Event with a running duration instead of a
// single date; both share the same enrollment semantics.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	StartDate   *time.Time         `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`

	Participants []primitive.ObjectID `bson:"participants" json:"participants"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
