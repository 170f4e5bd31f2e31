package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rmacedo/opsdesk-api/internal/database"
	"github.com/rmacedo/opsdesk-api/internal/models"
)

type WhitelistService struct {
	db *database.DB
}

func NewWhitelistService(db *database.DB) *WhitelistService {
	return &WhitelistService{db: db}
}

// NormalizeEmail lowercases and trims an email the same way entries are
// stored, so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Check is the default-deny gate: it allows only when an active entry
// exists for the normalized email. It must run before any persistent
// profile is trusted.
func (s *WhitelistService) Check(ctx context.Context, email string) (*models.WhitelistDecision, error) {
	var (
		role   string
		active bool
	)
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role, active FROM access_whitelist WHERE email = $1
	`, NormalizeEmail(email)).Scan(&role, &active)

	if errors.Is(err, pgx.ErrNoRows) {
		return &models.WhitelistDecision{Allowed: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check whitelist: %w", err)
	}
	if !active {
		return &models.WhitelistDecision{Allowed: false}, nil
	}

	return &models.WhitelistDecision{Allowed: true, DefaultRole: role}, nil
}

// Upsert pre-approves an email with a default role. Re-inviting an existing
// email updates its role and reactivates it.
func (s *WhitelistService) Upsert(ctx context.Context, email, role string, invitedBy *uuid.UUID) (*models.WhitelistEntry, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if role == "" {
		return nil, &ValidationError{Field: "role", Reason: "must not be empty"}
	}

	var entry models.WhitelistEntry
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO access_whitelist (email, role, active, invited_by)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (email) DO UPDATE SET role = $2, active = TRUE, invited_by = $3, updated_at = NOW()
		RETURNING email, role, active, invited_by, created_at, updated_at
	`, normalized, role, invitedBy).Scan(
		&entry.Email, &entry.Role, &entry.Active, &entry.InvitedBy, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert whitelist entry: %w", err)
	}

	return &entry, nil
}

// Deactivate blocks future resolutions for the email. Sessions already
// established stay alive until their next resolution.
func (s *WhitelistService) Deactivate(ctx context.Context, email string) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE access_whitelist SET active = FALSE, updated_at = NOW() WHERE email = $1
	`, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to deactivate whitelist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *WhitelistService) List(ctx context.Context) ([]models.WhitelistEntry, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT email, role, active, invited_by, created_at, updated_at
		FROM access_whitelist
		ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.WhitelistEntry
	for rows.Next() {
		var entry models.WhitelistEntry
		if err := rows.Scan(
			&entry.Email, &entry.Role, &entry.Active, &entry.InvitedBy, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
