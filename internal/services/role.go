package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rmacedo/opsdesk-api/internal/database"
	"github.com/rmacedo/opsdesk-api/internal/models"
)

type RoleService struct {
	db *database.DB
}

func NewRoleService(db *database.DB) *RoleService {
	return &RoleService{db: db}
}

func (s *RoleService) Create(ctx context.Context, name string, modules []string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if modules == nil {
		modules = []string{}
	}

	var role models.Role
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO app_roles (name, modules)
		VALUES ($1, $2)
		RETURNING id, name, modules, protected, created_at, updated_at
	`, name, modules).Scan(
		&role.ID, &role.Name, &role.Modules, &role.Protected, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ValidationError{Field: "name", Reason: "already in use"}
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return &role, nil
}

// Update replaces the module set wholesale; it is never a merge.
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, name string, modules []string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if modules == nil {
		modules = []string{}
	}

	var role models.Role
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE app_roles SET name = $1, modules = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, modules, protected, created_at, updated_at
	`, name, modules, id).Scan(
		&role.ID, &role.Name, &role.Modules, &role.Protected, &role.CreatedAt, &role.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ValidationError{Field: "name", Reason: "already in use"}
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return &role, nil
}

// Delete removes a role unless it is the protection sentinel. Profiles
// referencing it lose the grant on their next resolution (role_id is set
// null by the schema).
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	var protected bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT protected FROM app_roles WHERE id = $1
	`, id).Scan(&protected)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load role: %w", err)
	}
	if protected {
		return ErrProtectedRole
	}

	_, err = s.db.Pool.Exec(ctx, `DELETE FROM app_roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, modules, protected, created_at, updated_at
		FROM app_roles WHERE id = $1
	`, id).Scan(
		&role.ID, &role.Name, &role.Modules, &role.Protected, &role.CreatedAt, &role.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName resolves a role by name, case-insensitively. The whitelist
// stores default roles by name, not id.
func (s *RoleService) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, modules, protected, created_at, updated_at
		FROM app_roles WHERE LOWER(name) = LOWER($1)
	`, name).Scan(
		&role.ID, &role.Name, &role.Modules, &role.Protected, &role.CreatedAt, &role.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, modules, protected, created_at, updated_at
		FROM app_roles
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(
			&role.ID, &role.Name, &role.Modules, &role.Protected, &role.CreatedAt, &role.UpdatedAt,
		); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
