package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/permissions"
)

const ProfileKey = "profile"

// ProfileLoader resolves the authenticated profile with its module set.
type ProfileLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// LoadProfile resolves the bearer's profile and stows it on the context.
// Must run after Auth.
func LoadProfile(profiles ProfileLoader) drift.HandlerFunc {
	return func(c *drift.Context) {
		profileID := GetProfileID(c)
		if profileID == uuid.Nil {
			c.Unauthorized("not authenticated")
			return
		}

		profile, err := profiles.GetByID(c.Request.Context(), profileID)
		if err != nil {
			c.Unauthorized("profile not found")
			return
		}

		c.Set(ProfileKey, profile)
		c.Next()
	}
}

// RequireAdmin rejects everyone but admins. Must run after LoadProfile.
func RequireAdmin() drift.HandlerFunc {
	return func(c *drift.Context) {
		if !GetProfile(c).IsAdmin() {
			c.Forbidden("admin access required")
			return
		}
		c.Next()
	}
}

// RequireModule guards a route behind a module grant. Must run after
// LoadProfile.
func RequireModule(moduleID string) drift.HandlerFunc {
	return func(c *drift.Context) {
		if !permissions.CanAccess(GetProfile(c), moduleID) {
			c.Forbidden("module access required: " + moduleID)
			return
		}
		c.Next()
	}
}

func GetProfile(c *drift.Context) *models.Profile {
	if p, ok := c.Get(ProfileKey); ok {
		if profile, ok := p.(*models.Profile); ok {
			return profile
		}
	}
	return nil
}
