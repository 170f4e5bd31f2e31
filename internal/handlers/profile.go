package handlers

import (
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/middleware"
	"github.com/rmacedo/opsdesk-api/pkg/dto"
)

type ProfileHandler struct {
	controller ControllerInterface
}

func NewProfileHandler(controller ControllerInterface) *ProfileHandler {
	return &ProfileHandler{controller: controller}
}

// GetMe returns the resolved profile with its derived module set. This is
// the read side of the published session boundary.
func (h *ProfileHandler) GetMe(c *drift.Context) {
	profile := middleware.GetProfile(c)
	if profile == nil {
		c.Unauthorized("not authenticated")
		return
	}

	_ = c.JSON(200, dto.ToProfileResponse(*profile))
}
