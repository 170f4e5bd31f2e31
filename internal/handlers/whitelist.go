package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/middleware"
	"github.com/rmacedo/opsdesk-api/internal/services"
	"github.com/rmacedo/opsdesk-api/pkg/dto"
)

// WhitelistHandler is the administrative pre-approval surface. An entry
// here is the only way an email can ever obtain a profile.
type WhitelistHandler struct {
	whitelistService WhitelistServiceInterface
}

func NewWhitelistHandler(whitelistService WhitelistServiceInterface) *WhitelistHandler {
	return &WhitelistHandler{whitelistService: whitelistService}
}

func (h *WhitelistHandler) List(c *drift.Context) {
	entries, err := h.whitelistService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to list whitelist")
		return
	}

	_ = c.JSON(200, dto.WhitelistResponse{Entries: dto.ToWhitelistEntries(entries)})
}

// Invite pre-approves an email with a default role. Re-inviting
// reactivates a deactivated entry.
func (h *WhitelistHandler) Invite(c *drift.Context) {
	var req dto.InviteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	var invitedBy *uuid.UUID
	if id := middleware.GetProfileID(c); id != uuid.Nil {
		invitedBy = &id
	}

	entry, err := h.whitelistService.Upsert(context.Background(), req.Email, req.Role, invitedBy)
	if err != nil {
		if services.IsValidation(err) {
			c.BadRequest(err.Error())
			return
		}
		c.InternalServerError("failed to save whitelist entry")
		return
	}

	_ = c.JSON(201, dto.ToWhitelistEntry(*entry))
}

// Deactivate blocks future resolutions for the email. A session already
// established stays alive until its next refresh.
func (h *WhitelistHandler) Deactivate(c *drift.Context) {
	email := c.Param("email")
	if email == "" {
		c.BadRequest("email is required")
		return
	}

	if err := h.whitelistService.Deactivate(context.Background(), email); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.NotFound("whitelist entry not found")
			return
		}
		c.InternalServerError("failed to deactivate whitelist entry")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "whitelist entry deactivated"})
}
