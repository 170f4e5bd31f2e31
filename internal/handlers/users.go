package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/services"
	"github.com/rmacedo/opsdesk-api/pkg/dto"
)

// UsersHandler is the administrative view over resolved profiles. Its role
// mutation is how a pending user gets promoted after first login.
type UsersHandler struct {
	profileService ProfileServiceInterface
	roleService    RoleServiceInterface
}

func NewUsersHandler(profileService ProfileServiceInterface, roleService RoleServiceInterface) *UsersHandler {
	return &UsersHandler{profileService: profileService, roleService: roleService}
}

func (h *UsersHandler) List(c *drift.Context) {
	profiles, err := h.profileService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to list users")
		return
	}

	_ = c.JSON(200, dto.UserListResponse{Users: dto.ToProfileResponses(profiles)})
}

// UpdateRole rebinds a profile to a new role. The tag is resolved against
// the registry the same way a first-login bootstrap resolves the whitelist
// default: built-in tags skip the registry and an unregistered custom tag
// stands alone. Established tokens keep working with the new grants since
// the profile is reloaded per request.
func (h *UsersHandler) UpdateRole(c *drift.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	roleTag := strings.TrimSpace(req.Role)
	if roleTag == "" {
		c.BadRequest("role is required")
		return
	}

	var roleID *uuid.UUID
	if roleTag != models.RoleAdmin && roleTag != models.RolePending {
		role, err := h.roleService.GetByName(context.Background(), roleTag)
		switch {
		case err == nil:
			roleID = &role.ID
		case errors.Is(err, services.ErrNotFound):
			// Unregistered tags are legal; module derivation falls back
			// to the tag itself.
		default:
			c.InternalServerError("failed to resolve role")
			return
		}
	}

	profile, err := h.profileService.UpdateRole(context.Background(), id, roleTag, roleID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to update user role")
		return
	}

	_ = c.JSON(200, dto.ToProfileResponse(*profile))
}
