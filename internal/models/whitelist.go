package models

import (
	"time"

	"github.com/google/uuid"
)

// WhitelistEntry pre-approves an email for profile creation. The email is
// stored lowercased and trimmed; it is the unique key.
type WhitelistEntry struct {
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	InvitedBy *uuid.UUID `json:"invited_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// WhitelistDecision is the outcome of the gate check. DefaultRole is only
// meaningful when Allowed is true.
type WhitelistDecision struct {
	Allowed     bool   `json:"allowed"`
	DefaultRole string `json:"default_role,omitempty"`
}
