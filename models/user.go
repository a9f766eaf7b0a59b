package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a registrant may hold. Admin is assigned out of band, never through
// the public registration endpoint.
const (
	RoleMember  = "member"
	RoleDonor   = "donor"
	RoleAdmin   = "admin"
	RoleTrainee = "trainee"
	RoleCompany = "company"
	RoleNGO     = "ngo"
)

// Approval states for company/ngo accounts. Other roles never leave the
// zero value and are usable immediately.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ValidRegistrationRole reports whether role is selectable at registration.
func ValidRegistrationRole(role string) bool {
	switch role {
	case RoleMember, RoleDonor, RoleTrainee, RoleCompany, RoleNGO:
		return true
	}
	return false
}

// RequiresApproval reports whether accounts with this role go through the
// pending/approved/rejected workflow.
func RequiresApproval(role string) bool {
	return role == RoleCompany || role == RoleNGO
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password_hash" json:"-"` // bcrypt hash, never serialized
	Role     string             `bson:"role" json:"role"`

	// Approval fields, meaningful only when RequiresApproval(Role).
	// Invariant: IsApproved == true iff ApprovalStatus == "approved".
	IsApproved      bool   `bson:"is_approved" json:"is_approved"`
	ApprovalStatus  string `bson:"approval_status,omitempty" json:"approval_status,omitempty"`
	RejectionReason string `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`

	Phone     string   `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string   `bson:"address,omitempty" json:"address,omitempty"`
	Image     string   `bson:"image,omitempty" json:"image,omitempty"`
	Documents []string `bson:"documents,omitempty" json:"documents,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ParticipantSummary is the slimmed-down user view returned inside
// event/program participant listings.
type ParticipantSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Phone string             `bson:"phone,omitempty" json:"phone,omitempty"`
}
