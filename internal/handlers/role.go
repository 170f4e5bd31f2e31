package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/permissions"
	"github.com/rmacedo/opsdesk-api/internal/services"
	"github.com/rmacedo/opsdesk-api/pkg/dto"
)

// RoleHandler is the administrative registry over permission profiles.
// Every mutation responds with the authoritative role list re-read from the
// store, so an optimistic client can replace its tentative list wholesale
// instead of attempting a partial rollback.
type RoleHandler struct {
	roleService RoleServiceInterface
}

func NewRoleHandler(roleService RoleServiceInterface) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) List(c *drift.Context) {
	roles, err := h.roleService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to list roles")
		return
	}

	_ = c.JSON(200, dto.RoleListResponse{Roles: dto.ToRoleResponses(roles)})
}

func (h *RoleHandler) Create(c *drift.Context) {
	var req dto.SaveRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if unknown := firstUnknownModule(req.Modules); unknown != "" {
		c.BadRequest("unknown module: " + unknown)
		return
	}

	role, err := h.roleService.Create(context.Background(), req.Name, req.Modules)
	if err != nil {
		h.respondRoleError(c, err)
		return
	}

	h.respondWithList(c, 201, role)
}

func (h *RoleHandler) Update(c *drift.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid role id")
		return
	}

	var req dto.SaveRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if unknown := firstUnknownModule(req.Modules); unknown != "" {
		c.BadRequest("unknown module: " + unknown)
		return
	}

	role, err := h.roleService.Update(context.Background(), id, req.Name, req.Modules)
	if err != nil {
		h.respondRoleError(c, err)
		return
	}

	h.respondWithList(c, 200, role)
}

func (h *RoleHandler) Delete(c *drift.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid role id")
		return
	}

	if err := h.roleService.Delete(context.Background(), id); err != nil {
		h.respondRoleError(c, err)
		return
	}

	h.respondWithList(c, 200, nil)
}

// respondWithList re-reads the authoritative list after a mutation.
func (h *RoleHandler) respondWithList(c *drift.Context, status int, role *models.Role) {
	roles, err := h.roleService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to refresh role list")
		return
	}

	resp := dto.RoleListResponse{Roles: dto.ToRoleResponses(roles)}
	if role != nil {
		r := dto.ToRoleResponse(*role)
		resp.Role = &r
	}

	_ = c.JSON(status, resp)
}

func (h *RoleHandler) respondRoleError(c *drift.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrNotFound):
		c.NotFound("role not found")
	case errors.Is(err, services.ErrProtectedRole):
		_ = c.JSON(409, map[string]string{"error": "this role is protected and cannot be deleted"})
	default:
		c.InternalServerError("failed to save role")
	}
}

func firstUnknownModule(moduleIDs []string) string {
	for _, id := range moduleIDs {
		if !permissions.KnownModule(id) {
			return id
		}
	}
	return ""
}
