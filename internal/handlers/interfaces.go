package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/oauth"
	"github.com/rmacedo/opsdesk-api/internal/services"
)

// ControllerInterface is the session-controller surface the auth handler
// drives.
type ControllerInterface interface {
	Establish(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error)
	Logout(ctx context.Context, email string, profileID uuid.UUID)
	CanAccess(email, moduleID string) bool
}

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, roleTag string, roleID *uuid.UUID) (*models.Profile, error)
}

// RoleServiceInterface defines the methods used by handlers from RoleService
type RoleServiceInterface interface {
	Create(ctx context.Context, name string, modules []string) (*models.Role, error)
	Update(ctx context.Context, id uuid.UUID, name string, modules []string) (*models.Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}

// WhitelistServiceInterface defines the methods used by handlers from WhitelistService
type WhitelistServiceInterface interface {
	Upsert(ctx context.Context, email, role string, invitedBy *uuid.UUID) (*models.WhitelistEntry, error)
	Deactivate(ctx context.Context, email string) error
	List(ctx context.Context) ([]models.WhitelistEntry, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, profileID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllProfileTokens(ctx context.Context, profileID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(profileID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}
