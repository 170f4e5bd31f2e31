package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/permissions"
	"github.com/rmacedo/opsdesk-api/pkg/dto"
	"github.com/rmacedo/opsdesk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestModulesHandler_List_Filtered(t *testing.T) {
	mockProfileService := new(testutil.MockProfileService)
	handler := NewModulesHandler()

	profileID := uuid.New()
	profile := &models.Profile{
		ID:             profileID,
		Email:          "ana@example.com",
		Role:           "financeiro",
		AllowedModules: []string{"financeiro", "relatorios"},
	}
	mockProfileService.On("GetByID", mock.Anything, profileID).Return(profile, nil)

	app := resolvedApp(mockProfileService, func(app *drift.Engine) {
		app.Get("/modules", handler.List)
	})

	token := testutil.GenerateTestToken(t, profileID, profile.Email)
	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ModuleListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	ids := make([]string, 0, len(response.Modules))
	for _, m := range response.Modules {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"financeiro", "relatorios"}, ids)
}

func TestModulesHandler_List_AdminSeesAll(t *testing.T) {
	mockProfileService := new(testutil.MockProfileService)
	handler := NewModulesHandler()

	profileID := uuid.New()
	admin := &models.Profile{
		ID:             profileID,
		Email:          "chefe@example.com",
		Role:           models.RoleAdmin,
		AllowedModules: []string{models.ModuleWildcard},
	}
	mockProfileService.On("GetByID", mock.Anything, profileID).Return(admin, nil)

	app := resolvedApp(mockProfileService, func(app *drift.Engine) {
		app.Get("/modules", handler.List)
	})

	token := testutil.GenerateTestToken(t, profileID, admin.Email)
	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ModuleListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Modules, len(permissions.Catalog))
}

func TestModulesHandler_List_PendingSeesNothing(t *testing.T) {
	mockProfileService := new(testutil.MockProfileService)
	handler := NewModulesHandler()

	profileID := uuid.New()
	pending := &models.Profile{
		ID:    profileID,
		Email: "novo@example.com",
		Role:  models.RolePending,
	}
	mockProfileService.On("GetByID", mock.Anything, profileID).Return(pending, nil)

	app := resolvedApp(mockProfileService, func(app *drift.Engine) {
		app.Get("/modules", handler.List)
	})

	token := testutil.GenerateTestToken(t, profileID, pending.Email)
	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ModuleListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Empty(t, response.Modules)
}
