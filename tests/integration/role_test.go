package integration

import (
	"context"
	"testing"

	"github.com/rmacedo/opsdesk-api/internal/services"
	"github.com/rmacedo/opsdesk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleService_Integration_CreateAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewRoleService(tdb.DB)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Financeiro", []string{"financeiro"})
	require.NoError(t, err)
	assert.False(t, created.Protected)

	roles, err := svc.List(ctx)
	require.NoError(t, err)

	// The seeded sentinel role is always present.
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "Financeiro")
	assert.Contains(t, names, "Super Admin")
}

func TestRoleService_Integration_DuplicateName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewRoleService(tdb.DB)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Comercial", []string{"comercial"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Comercial", []string{"comercial"})
	assert.True(t, services.IsValidation(err))
}

func TestRoleService_Integration_UpdateReplacesModules(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewRoleService(tdb.DB)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Operacional", []string{"operacional", "relatorios"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, "Operacional", []string{"operacional"})
	require.NoError(t, err)

	// Replacement, not merge.
	assert.Equal(t, []string{"operacional"}, updated.Modules)
}

func TestRoleService_Integration_DeleteProtectedSentinel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewRoleService(tdb.DB)
	ctx := context.Background()

	sentinel, err := svc.GetByName(ctx, "Super Admin")
	require.NoError(t, err)
	require.True(t, sentinel.Protected)

	err = svc.Delete(ctx, sentinel.ID)
	assert.ErrorIs(t, err, services.ErrProtectedRole)

	// Still present after the refused delete.
	again, err := svc.GetByID(ctx, sentinel.ID)
	require.NoError(t, err)
	assert.Equal(t, sentinel.ID, again.ID)
}

func TestRoleService_Integration_DeleteDetachesProfiles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	roleSvc := services.NewRoleService(tdb.DB)
	profileSvc := services.NewProfileService(tdb.DB)
	ctx := context.Background()

	role := fixtures.CreateRole(t, "Cadastros", []string{"cadastros"})
	profile := fixtures.CreateProfile(t, testutil.WithRole("cadastros", &role.ID))

	require.NoError(t, roleSvc.Delete(ctx, role.ID))

	// The schema nulls the reference; the next read falls back to the
	// role tag's own module.
	reloaded, err := profileSvc.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.RoleID)
	assert.Equal(t, []string{"cadastros"}, reloaded.AllowedModules)
}
