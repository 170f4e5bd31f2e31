package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmacedo/opsdesk-api/internal/models"
)

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type WhitelistEntryResponse struct {
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	InvitedBy *uuid.UUID `json:"invited_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type WhitelistResponse struct {
	Entries []WhitelistEntryResponse `json:"entries"`
}

func ToWhitelistEntry(entry models.WhitelistEntry) WhitelistEntryResponse {
	return WhitelistEntryResponse{
		Email:     entry.Email,
		Role:      entry.Role,
		Active:    entry.Active,
		InvitedBy: entry.InvitedBy,
		CreatedAt: entry.CreatedAt,
	}
}

func ToWhitelistEntries(entries []models.WhitelistEntry) []WhitelistEntryResponse {
	out := make([]WhitelistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ToWhitelistEntry(entry))
	}
	return out
}
