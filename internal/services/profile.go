package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rmacedo/opsdesk-api/internal/database"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/oauth"
	"github.com/rmacedo/opsdesk-api/internal/permissions"
)

type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

const profileJoin = `
	SELECT p.id, p.email, p.full_name, p.avatar_url, p.provider, p.provider_id,
	       p.role, p.role_id, p.created_at, p.updated_at, r.modules
	FROM profiles p
	LEFT JOIN app_roles r ON p.role_id = r.id
`

func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.getOne(ctx, profileJoin+`WHERE p.id = $1`, id)
}

func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.getOne(ctx, profileJoin+`WHERE p.email = $1`, NormalizeEmail(email))
}

// List returns every profile with its derived module set, oldest first.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.Pool.Query(ctx, profileJoin+`ORDER BY p.created_at`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var (
			profile     models.Profile
			roleModules []string
		)
		if err := rows.Scan(
			&profile.ID, &profile.Email, &profile.FullName, &profile.AvatarURL,
			&profile.Provider, &profile.ProviderID, &profile.Role, &profile.RoleID,
			&profile.CreatedAt, &profile.UpdatedAt, &roleModules,
		); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
		}
		profile.AllowedModules = ComputeAllowedModules(profile.Role, roleModules)
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// UpdateRole rebinds a profile to a new role tag and registry entry, then
// re-reads the joined record so the returned module set is authoritative.
// Sessions already established pick the change up on their next resolution.
func (s *ProfileService) UpdateRole(ctx context.Context, id uuid.UUID, roleTag string, roleID *uuid.UUID) (*models.Profile, error) {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE profiles SET role = $1, role_id = $2, updated_at = NOW()
		WHERE id = $3
	`, roleTag, roleID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, id)
}

func (s *ProfileService) getOne(ctx context.Context, query string, arg any) (*models.Profile, error) {
	var (
		profile     models.Profile
		roleModules []string
	)
	err := s.db.Pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.AvatarURL,
		&profile.Provider, &profile.ProviderID, &profile.Role, &profile.RoleID,
		&profile.CreatedAt, &profile.UpdatedAt, &roleModules,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}

	profile.AllowedModules = ComputeAllowedModules(profile.Role, roleModules)
	return &profile, nil
}

// CreateFromSession materializes the persistent record for a first-time
// login. Callers must have passed the whitelist gate already; this method
// never runs for an unapproved email.
func (s *ProfileService) CreateFromSession(ctx context.Context, info *oauth.UserInfo, roleTag string, roleID *uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (email, full_name, avatar_url, provider, provider_id, role, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, full_name, avatar_url, provider, provider_id, role, role_id, created_at, updated_at
	`, NormalizeEmail(info.Email), info.Name, nullableString(info.AvatarURL), info.Provider, info.ID, roleTag, roleID).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.AvatarURL,
		&profile.Provider, &profile.ProviderID, &profile.Role, &profile.RoleID,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create profile: %w", ErrProfileFetch, err)
	}

	return &profile, nil
}

// SyncProviderInfo refreshes name and avatar from the provider on login.
func (s *ProfileService) SyncProviderInfo(ctx context.Context, id uuid.UUID, fullName, avatarURL string) error {
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE profiles SET full_name = $1, avatar_url = COALESCE($2, avatar_url), updated_at = NOW()
		WHERE id = $3
	`, fullName, nullableString(avatarURL), id)
	if err != nil {
		return fmt.Errorf("failed to sync provider info: %w", err)
	}
	return nil
}

// ComputeAllowedModules flattens a role into the derived module set.
// Admins always resolve to the wildcard, pending always to nothing,
// overriding whatever the joined role carries. A custom role whose registry
// entry is missing falls back to its own tag when that tag names a catalog
// module, so a freshly whitelisted department head is not locked out.
func ComputeAllowedModules(roleTag string, roleModules []string) []string {
	switch roleTag {
	case models.RoleAdmin:
		return []string{models.ModuleWildcard}
	case models.RolePending:
		return []string{}
	}
	if len(roleModules) > 0 {
		return roleModules
	}
	if permissions.KnownModule(roleTag) {
		return []string{roleTag}
	}
	return []string{}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
