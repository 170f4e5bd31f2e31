// Package permissions evaluates module access for a resolved profile.
// Evaluation is a pure function of the profile's role and allowed module
// set, so the same call can guard routes and filter what the UI renders.
package permissions

import (
	"github.com/rmacedo/opsdesk-api/internal/models"
)

// CanAccess reports whether the profile may use the given module.
// Admins pass unconditionally, pending profiles never pass, everyone else
// needs the module (or the wildcard) in their allowed set.
func CanAccess(profile *models.Profile, moduleID string) bool {
	if profile == nil {
		return false
	}
	switch profile.Role {
	case models.RoleAdmin:
		return true
	case models.RolePending:
		return false
	}
	for _, m := range profile.AllowedModules {
		if m == moduleID || m == models.ModuleWildcard {
			return true
		}
	}
	return false
}

// Filter returns the catalog modules the profile may use, in catalog order.
func Filter(profile *models.Profile, catalog []Module) []Module {
	var allowed []Module
	for _, mod := range catalog {
		if CanAccess(profile, mod.ID) {
			allowed = append(allowed, mod)
		}
	}
	return allowed
}
