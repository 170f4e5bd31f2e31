package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/oauth"
)

// WhitelistChecker is the gate the resolver consults before trusting any
// persistent profile.
type WhitelistChecker interface {
	Check(ctx context.Context, email string) (*models.WhitelistDecision, error)
}

// ProfileStore is the persistent-profile contract the resolver needs.
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateFromSession(ctx context.Context, info *oauth.UserInfo, roleTag string, roleID *uuid.UUID) (*models.Profile, error)
	SyncProviderInfo(ctx context.Context, id uuid.UUID, fullName, avatarURL string) error
}

// RoleLookup resolves whitelist default roles by name.
type RoleLookup interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
}

// ProfileResolver turns a provider identity into a ready Profile:
// whitelist check, persistent lookup or first-time bootstrap, then module
// flattening. Denial is ErrDenied; anything else unexpected wraps
// ErrProfileFetch and leaves no profile behind.
type ProfileResolver struct {
	whitelist WhitelistChecker
	profiles  ProfileStore
	roles     RoleLookup
}

func NewProfileResolver(whitelist WhitelistChecker, profiles ProfileStore, roles RoleLookup) *ProfileResolver {
	return &ProfileResolver{
		whitelist: whitelist,
		profiles:  profiles,
		roles:     roles,
	}
}

func (r *ProfileResolver) Resolve(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error) {
	decision, err := r.whitelist.Check(ctx, info.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	if !decision.Allowed {
		return nil, ErrDenied
	}

	profile, err := r.profiles.GetByEmail(ctx, info.Email)
	if errors.Is(err, ErrNotFound) {
		return r.bootstrap(ctx, info, decision.DefaultRole)
	}
	if err != nil {
		return nil, err
	}

	// Keep name and avatar in step with the provider; a failure here is
	// not worth failing the whole resolution.
	if profile.FullName != info.Name || (profile.AvatarURL == nil && info.AvatarURL != "") {
		if syncErr := r.profiles.SyncProviderInfo(ctx, profile.ID, info.Name, info.AvatarURL); syncErr == nil {
			profile.FullName = info.Name
			if info.AvatarURL != "" {
				profile.AvatarURL = &info.AvatarURL
			}
		}
	}

	return profile, nil
}

// bootstrap creates the first persistent record for a whitelisted email and
// derives its module set from the whitelist's default role.
func (r *ProfileResolver) bootstrap(ctx context.Context, info *oauth.UserInfo, defaultRole string) (*models.Profile, error) {
	var (
		roleID      *uuid.UUID
		roleModules []string
	)
	if defaultRole != models.RoleAdmin && defaultRole != models.RolePending {
		role, err := r.roles.GetByName(ctx, defaultRole)
		switch {
		case err == nil:
			roleID = &role.ID
			roleModules = role.Modules
		case errors.Is(err, ErrNotFound):
			// Registry may not know the role yet; the tag fallback in
			// ComputeAllowedModules covers it.
		default:
			return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
		}
	}

	profile, err := r.profiles.CreateFromSession(ctx, info, defaultRole, roleID)
	if err != nil {
		return nil, err
	}

	profile.AllowedModules = ComputeAllowedModules(profile.Role, roleModules)
	return profile, nil
}
