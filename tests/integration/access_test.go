package integration

import (
	"context"
	"testing"

	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/oauth"
	"github.com/rmacedo/opsdesk-api/internal/services"
	"github.com/rmacedo/opsdesk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(tdb *testutil.TestDB) *services.ProfileResolver {
	return services.NewProfileResolver(
		services.NewWhitelistService(tdb.DB),
		services.NewProfileService(tdb.DB),
		services.NewRoleService(tdb.DB),
	)
}

func TestResolver_Integration_DeniedWhenNotWhitelisted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	resolver := newResolver(tdb)
	ctx := context.Background()

	profile, err := resolver.Resolve(ctx, &oauth.UserInfo{
		Email:    "stranger@example.com",
		Name:     "Stranger",
		ID:       "g-1",
		Provider: "google",
	})

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, services.ErrDenied)
}

func TestResolver_Integration_BootstrapWithRegisteredRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	resolver := newResolver(tdb)
	ctx := context.Background()

	role := fixtures.CreateRole(t, "Financeiro", []string{"financeiro", "relatorios"})
	fixtures.WhitelistEmail(t, "ana@example.com", "Financeiro")

	profile, err := resolver.Resolve(ctx, &oauth.UserInfo{
		Email:    "Ana@Example.com",
		Name:     "Ana Souza",
		ID:       "g-2",
		Provider: "google",
	})

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)
	require.NotNil(t, profile.RoleID)
	assert.Equal(t, role.ID, *profile.RoleID)
	assert.ElementsMatch(t, []string{"financeiro", "relatorios"}, profile.AllowedModules)
	assert.NotContains(t, profile.AllowedModules, models.ModuleWildcard)

	// A second resolution finds the persisted record instead of creating
	// another one.
	again, err := resolver.Resolve(ctx, &oauth.UserInfo{
		Email:    "ana@example.com",
		Name:     "Ana Souza",
		ID:       "g-2",
		Provider: "google",
	})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestResolver_Integration_UnregisteredRoleFallsBackToTag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	resolver := newResolver(tdb)
	ctx := context.Background()

	// No registry entry exists for this role name; the tag itself names a
	// catalog module.
	fixtures.WhitelistEmail(t, "bruno@example.com", "financeiro")

	profile, err := resolver.Resolve(ctx, &oauth.UserInfo{
		Email:    "bruno@example.com",
		Name:     "Bruno Lima",
		ID:       "g-3",
		Provider: "google",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"financeiro"}, profile.AllowedModules)
	assert.NotContains(t, profile.AllowedModules, models.ModuleWildcard)
}

func TestResolver_Integration_AdminWhitelistGetsWildcard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	resolver := newResolver(tdb)
	ctx := context.Background()

	fixtures.WhitelistEmail(t, "chefe@example.com", models.RoleAdmin)

	profile, err := resolver.Resolve(ctx, &oauth.UserInfo{
		Email:    "chefe@example.com",
		Name:     "Chefe",
		ID:       "g-4",
		Provider: "google",
	})

	require.NoError(t, err)
	assert.True(t, profile.IsAdmin())
	assert.Equal(t, []string{models.ModuleWildcard}, profile.AllowedModules)
}

func TestResolver_Integration_DeactivationDeniesNextResolution(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	resolver := newResolver(tdb)
	ctx := context.Background()

	fixtures.WhitelistEmail(t, "ana@example.com", "financeiro")

	info := &oauth.UserInfo{
		Email:    "ana@example.com",
		Name:     "Ana Souza",
		ID:       "g-5",
		Provider: "google",
	}

	_, err := resolver.Resolve(ctx, info)
	require.NoError(t, err)

	fixtures.DeactivateWhitelistEntry(t, "ana@example.com")

	profile, err := resolver.Resolve(ctx, info)
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, services.ErrDenied)
}
