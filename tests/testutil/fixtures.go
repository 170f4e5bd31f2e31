package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rmacedo/opsdesk-api/internal/database"
	"github.com/rmacedo/opsdesk-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// ProfileOption configures a test profile
type ProfileOption func(*models.Profile)

func WithRole(role string, roleID *uuid.UUID) ProfileOption {
	return func(p *models.Profile) {
		p.Role = role
		p.RoleID = roleID
	}
}

func WithEmail(email string) ProfileOption {
	return func(p *models.Profile) {
		p.Email = email
	}
}

// CreateProfile creates a test profile with default values
func (f *Fixtures) CreateProfile(t *testing.T, opts ...ProfileOption) *models.Profile {
	t.Helper()
	f.counter++

	profile := &models.Profile{
		Email:      fmt.Sprintf("operator%d@example.com", f.counter),
		FullName:   fmt.Sprintf("Operator %d", f.counter),
		Provider:   "google",
		ProviderID: fmt.Sprintf("provider-%d", f.counter),
		Role:       models.RoleUser,
	}

	for _, opt := range opts {
		opt(profile)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (email, full_name, avatar_url, provider, provider_id, role, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, full_name, avatar_url, provider, provider_id, role, role_id, created_at, updated_at
	`, profile.Email, profile.FullName, profile.AvatarURL, profile.Provider, profile.ProviderID, profile.Role, profile.RoleID).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.AvatarURL,
		&profile.Provider, &profile.ProviderID, &profile.Role, &profile.RoleID,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return profile
}

// CreateRole creates a role registry entry
func (f *Fixtures) CreateRole(t *testing.T, name string, modules []string) *models.Role {
	t.Helper()

	if modules == nil {
		modules = []string{}
	}

	role := &models.Role{}
	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO app_roles (name, modules)
		VALUES ($1, $2)
		RETURNING id, name, modules, protected, created_at, updated_at
	`, name, modules).Scan(
		&role.ID, &role.Name, &role.Modules, &role.Protected, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create role: %v", err)
	}

	return role
}

// WhitelistEmail pre-approves an email with a default role
func (f *Fixtures) WhitelistEmail(t *testing.T, email, role string) {
	t.Helper()

	ctx := context.Background()
	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO access_whitelist (email, role, active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (email) DO UPDATE SET role = $2, active = TRUE
	`, email, role)
	if err != nil {
		t.Fatalf("failed to whitelist email: %v", err)
	}
}

// DeactivateWhitelistEntry turns off an existing whitelist entry
func (f *Fixtures) DeactivateWhitelistEntry(t *testing.T, email string) {
	t.Helper()

	ctx := context.Background()
	_, err := f.db.Pool.Exec(ctx, `
		UPDATE access_whitelist SET active = FALSE WHERE email = $1
	`, email)
	if err != nil {
		t.Fatalf("failed to deactivate whitelist entry: %v", err)
	}
}
