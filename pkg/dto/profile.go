package dto

import (
	"github.com/google/uuid"

	"github.com/rmacedo/opsdesk-api/internal/models"
)

type ProfileResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	Role           string     `json:"role"`
	RoleID         *uuid.UUID `json:"role_id,omitempty"`
	AllowedModules []string   `json:"allowed_modules"`
	IsAdmin        bool       `json:"is_admin"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

type UserListResponse struct {
	Users []ProfileResponse `json:"users"`
}

func ToProfileResponse(profile models.Profile) ProfileResponse {
	modules := profile.AllowedModules
	if modules == nil {
		modules = []string{}
	}
	return ProfileResponse{
		ID:             profile.ID,
		Email:          profile.Email,
		FullName:       profile.FullName,
		AvatarURL:      profile.AvatarURL,
		Role:           profile.Role,
		RoleID:         profile.RoleID,
		AllowedModules: modules,
		IsAdmin:        profile.IsAdmin(),
	}
}

func ToProfileResponses(profiles []models.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, ToProfileResponse(profile))
	}
	return out
}
