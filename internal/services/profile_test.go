package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rmacedo/opsdesk-api/internal/database"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfileService(t *testing.T) (*ProfileService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewProfileService(db), mock
}

var profileColumns = []string{
	"id", "email", "full_name", "avatar_url", "provider", "provider_id",
	"role", "role_id", "created_at", "updated_at", "modules",
}

func TestProfileService_GetByEmail(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	roleID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(profileColumns).AddRow(
		profileID, "ana@example.com", "Ana Souza", nil, "google", "g-1",
		"financeiro", &roleID, now, now, []string{"financeiro", "relatorios"},
	)

	mock.ExpectQuery(`SELECT p.id, p.email, p.full_name`).
		WithArgs("ana@example.com").
		WillReturnRows(rows)

	profile, err := svc.GetByEmail(ctx, " Ana@Example.com")

	require.NoError(t, err)
	assert.Equal(t, profileID, profile.ID)
	assert.Equal(t, "financeiro", profile.Role)
	assert.Equal(t, []string{"financeiro", "relatorios"}, profile.AllowedModules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_GetByEmail_NotFound(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT p.id, p.email, p.full_name`).
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	profile, err := svc.GetByEmail(ctx, "missing@example.com")

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_GetByID_QueryErrorWrapsProfileFetch(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()

	mock.ExpectQuery(`SELECT p.id, p.email, p.full_name`).
		WithArgs(profileID).
		WillReturnError(assert.AnError)

	profile, err := svc.GetByID(ctx, profileID)

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrProfileFetch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_GetByID_AdminGetsWildcard(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(profileColumns).AddRow(
		profileID, "chefe@example.com", "Chefe", nil, "google", "g-2",
		models.RoleAdmin, nil, now, now, nil,
	)

	mock.ExpectQuery(`SELECT p.id, p.email, p.full_name`).
		WithArgs(profileID).
		WillReturnRows(rows)

	profile, err := svc.GetByID(ctx, profileID)

	require.NoError(t, err)
	assert.Equal(t, []string{models.ModuleWildcard}, profile.AllowedModules)
	assert.True(t, profile.IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_GetByID_PendingGetsNothing(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(profileColumns).AddRow(
		profileID, "novo@example.com", "Novo", nil, "github", "gh-1",
		models.RolePending, nil, now, now, nil,
	)

	mock.ExpectQuery(`SELECT p.id, p.email, p.full_name`).
		WithArgs(profileID).
		WillReturnRows(rows)

	profile, err := svc.GetByID(ctx, profileID)

	require.NoError(t, err)
	assert.Empty(t, profile.AllowedModules)
	assert.NotNil(t, profile.AllowedModules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_CreateFromSession(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	roleID := uuid.New()
	now := time.Now()
	avatar := "https://example.com/a.png"
	info := &oauth.UserInfo{
		Email:     "Ana@Example.com",
		Name:      "Ana Souza",
		AvatarURL: avatar,
		ID:        "g-1",
		Provider:  "google",
	}

	rows := pgxmock.NewRows([]string{
		"id", "email", "full_name", "avatar_url", "provider", "provider_id",
		"role", "role_id", "created_at", "updated_at",
	}).AddRow(profileID, "ana@example.com", info.Name, &avatar, info.Provider, info.ID, "financeiro", &roleID, now, now)

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("ana@example.com", info.Name, &avatar, info.Provider, info.ID, "financeiro", &roleID).
		WillReturnRows(rows)

	profile, err := svc.CreateFromSession(ctx, info, "financeiro", &roleID)

	require.NoError(t, err)
	assert.Equal(t, profileID, profile.ID)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_SyncProviderInfo(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	avatar := "https://example.com/new.png"

	mock.ExpectExec(`UPDATE profiles SET full_name = .+, avatar_url = COALESCE`).
		WithArgs("Ana S.", &avatar, profileID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := svc.SyncProviderInfo(ctx, profileID, "Ana S.", avatar)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_List(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	adminID := uuid.New()
	pendingID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(profileColumns).
		AddRow(adminID, "root@example.com", "Root", nil, "google", "g-0",
			"admin", nil, now, now, []string(nil)).
		AddRow(pendingID, "novo@example.com", "Novo", nil, "github", "gh-9",
			"pending", nil, now, now, []string(nil))

	mock.ExpectQuery(`SELECT p.id, p.email, p.full_name`).
		WillReturnRows(rows)

	profiles, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, []string{models.ModuleWildcard}, profiles[0].AllowedModules)
	assert.Empty(t, profiles[1].AllowedModules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_UpdateRole(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()
	roleID := uuid.New()
	now := time.Now()

	mock.ExpectExec(`UPDATE profiles SET role = .+, role_id = .+`).
		WithArgs("gestor", &roleID, profileID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rows := pgxmock.NewRows(profileColumns).AddRow(
		profileID, "ana@example.com", "Ana Souza", nil, "google", "g-1",
		"gestor", &roleID, now, now, []string{"financeiro", "comercial"},
	)
	mock.ExpectQuery(`SELECT p.id, p.email, p.full_name`).
		WithArgs(profileID).
		WillReturnRows(rows)

	profile, err := svc.UpdateRole(ctx, profileID, "gestor", &roleID)

	require.NoError(t, err)
	assert.Equal(t, "gestor", profile.Role)
	assert.Equal(t, []string{"financeiro", "comercial"}, profile.AllowedModules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_UpdateRole_NotFound(t *testing.T) {
	svc, mock := setupProfileService(t)
	ctx := context.Background()
	profileID := uuid.New()

	mock.ExpectExec(`UPDATE profiles SET role = .+, role_id = .+`).
		WithArgs("user", (*uuid.UUID)(nil), profileID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	profile, err := svc.UpdateRole(ctx, profileID, "user", nil)

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputeAllowedModules(t *testing.T) {
	assert.Equal(t, []string{models.ModuleWildcard}, ComputeAllowedModules(models.RoleAdmin, []string{"financeiro"}))
	assert.Empty(t, ComputeAllowedModules(models.RolePending, []string{"financeiro"}))
	assert.Equal(t, []string{"financeiro", "comercial"}, ComputeAllowedModules("gestor", []string{"financeiro", "comercial"}))

	// A role with no registry entry falls back to its own tag when the
	// tag names a catalog module.
	assert.Equal(t, []string{"financeiro"}, ComputeAllowedModules("financeiro", nil))
	assert.Empty(t, ComputeAllowedModules("mystery", nil))
}
