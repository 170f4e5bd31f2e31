package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is an administratively managed set of module grants. Protected roles
// (the "Super Admin" sentinel) cannot be deleted through the registry.
type Role struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Modules   []string  `json:"modules"`
	Protected bool      `json:"protected"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
