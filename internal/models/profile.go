package models

import (
	"time"

	"github.com/google/uuid"
)

// Role tags carried on a profile. Custom registry roles use their role name
// as the tag; these three are built in.
const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RolePending = "pending"
)

// ModuleWildcard grants every module. It is computed for admins at
// resolution time and never persisted.
const ModuleWildcard = "*"

// Profile is the resolved session-scoped identity and permission record.
// AllowedModules is derived from the joined role on every resolution.
type Profile struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	Provider       string     `json:"provider"`
	ProviderID     string     `json:"-"`
	Role           string     `json:"role"`
	RoleID         *uuid.UUID `json:"role_id,omitempty"`
	AllowedModules []string   `json:"allowed_modules"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
