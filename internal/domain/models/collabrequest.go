// internal/domain/models/collabrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collaboration request statuses.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// ValidDecision reports whether d is a terminal request status an owner can
// move a pending request to.
func ValidDecision(d string) bool {
	return d == RequestAccepted || d == RequestRejected
}

// CollabRequest is one user's offer to collaborate on one project.
//
// Each request is its own document, unique on (project_id, requester_id), so
// concurrent submissions and resolutions against the same project write
// disjoint documents. Requester fields are denormalized from the requesting
// user's profile at submission time. A request is only ever removed together
// with its project.
type CollabRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID      primitive.ObjectID `bson:"project_id" json:"project_id"`
	RequesterID    primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	RequesterName  string             `bson:"requester_name" json:"requester_name"`
	RequesterRole  string             `bson:"requester_role" json:"requester_role"`
	RequesterEmail string             `bson:"requester_email" json:"requester_email"`

	Status      string     `bson:"status" json:"status"` // pending | accepted | rejected
	RequestedAt time.Time  `bson:"requested_at" json:"requested_at"`
	ResolvedAt  *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}
