package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rmacedo/opsdesk-api/internal/services"
)

const (
	ProfileIDKey = "profile_id"
	EmailKey     = "email"
)

func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(ProfileIDKey, claims.ProfileID)
		c.Set(EmailKey, claims.Email)

		c.Next()
	}
}

func GetProfileID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(ProfileIDKey); ok {
		if pid, ok := id.(uuid.UUID); ok {
			return pid
		}
	}
	return uuid.Nil
}

func GetEmail(c *drift.Context) string {
	if email, ok := c.Get(EmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}
