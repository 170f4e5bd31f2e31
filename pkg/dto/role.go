package dto

import (
	"github.com/google/uuid"

	"github.com/rmacedo/opsdesk-api/internal/models"
)

type SaveRoleRequest struct {
	Name    string   `json:"name"`
	Modules []string `json:"modules"`
}

type RoleResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Modules   []string  `json:"modules"`
	Protected bool      `json:"protected"`
}

// RoleListResponse always carries the authoritative list; Role is set on
// mutations so clients can reconcile their optimistic state in one round trip.
type RoleListResponse struct {
	Role  *RoleResponse  `json:"role,omitempty"`
	Roles []RoleResponse `json:"roles"`
}

func ToRoleResponse(role models.Role) RoleResponse {
	modules := role.Modules
	if modules == nil {
		modules = []string{}
	}
	return RoleResponse{
		ID:        role.ID,
		Name:      role.Name,
		Modules:   modules,
		Protected: role.Protected,
	}
}

func ToRoleResponses(roles []models.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, ToRoleResponse(role))
	}
	return out
}
