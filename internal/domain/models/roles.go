// internal/domain/models/roles.go
package models

// Organization roles a user can pick during onboarding.
const (
	RoleNGO        = "ngo"
	RoleStartup    = "startup"
	RoleFundraiser = "fundraiser"
	RoleGovernment = "government"
)

// Roles lists the selectable organization roles in display order.
var Roles = []string{RoleNGO, RoleStartup, RoleFundraiser, RoleGovernment}

// ValidRole reports whether role is one of the selectable organization roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultSiteName is shown when no custom site settings exist.
const DefaultSiteName = "SDG Bridge"
