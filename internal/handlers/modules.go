package handlers

import (
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/middleware"
	"github.com/rmacedo/opsdesk-api/internal/permissions"
	"github.com/rmacedo/opsdesk-api/pkg/dto"
)

type ModulesHandler struct{}

func NewModulesHandler() *ModulesHandler {
	return &ModulesHandler{}
}

// List returns the catalog filtered to what the caller may use. The same
// evaluator guards the routes themselves, so what is rendered and what is
// reachable never disagree.
func (h *ModulesHandler) List(c *drift.Context) {
	profile := middleware.GetProfile(c)
	if profile == nil {
		c.Unauthorized("not authenticated")
		return
	}

	allowed := permissions.Filter(profile, permissions.Catalog)

	resp := dto.ModuleListResponse{Modules: []dto.ModuleResponse{}}
	for _, m := range allowed {
		resp.Modules = append(resp.Modules, dto.ModuleResponse{
			ID:   m.ID,
			Name: m.Name,
			Icon: m.Icon,
		})
	}

	_ = c.JSON(200, resp)
}
