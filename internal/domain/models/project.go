// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Help types a project can ask collaborators for.
var HelpTypes = []string{"funding", "volunteers", "technology", "expertise", "partnerships", "resources"}

// ValidHelpType reports whether t is a recognized help type.
func ValidHelpType(t string) bool {
	for _, h := range HelpTypes {
		if h == t {
			return true
		}
	}
	return false
}

// Project is a posted sustainability initiative seeking collaborators.
//
// Owner fields are denormalized from the owning user at creation time and
// never change afterward. SDG must be in [1,17] (see system/sdg).
// Collaboration requests live in their own collection keyed by
// (project_id, requester_id); they are not embedded here.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped
	Description string             `bson:"description" json:"description"`
	SDG         int                `bson:"sdg" json:"sdg"` // 1..17
	Location    string             `bson:"location" json:"location"`
	LocationCI  string             `bson:"location_ci" json:"location_ci"`
	HelpNeeded  []string           `bson:"help_needed" json:"help_needed"`

	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerName string             `bson:"owner_name" json:"owner_name"`
	OwnerRole string             `bson:"owner_role" json:"owner_role"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
