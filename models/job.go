package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Job struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Location     string             `bson:"location,omitempty" json:"location,omitempty"`
	Type         string             `bson:"type,omitempty" json:"type,omitempty"` // full-time, part-time, volunteer
	Deadline     *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	ApplyEmail   string             `bson:"apply_email,omitempty" json:"apply_email,omitempty"`
	Requirements string             `bson:"requirements,omitempty" json:"requirements,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
