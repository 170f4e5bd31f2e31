// Package session owns the authoritative session/profile state published to
// the rest of the application. A single Controller instance is injected
// wherever session state is needed; nothing here is a package-level global.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rmacedo/opsdesk-api/internal/models"
	"github.com/rmacedo/opsdesk-api/internal/oauth"
	"github.com/rmacedo/opsdesk-api/internal/permissions"
	"github.com/rmacedo/opsdesk-api/internal/services"
)

type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateWhitelistCheck State = "whitelist_check"
	StateDenied         State = "denied"
	StateReady          State = "ready"
)

// Session is the provider identity behind an established session. The
// bearer token itself lives hashed in the store, never here.
type Session struct {
	Email          string `json:"email"`
	Provider       string `json:"provider"`
	ProviderUserID string `json:"provider_user_id"`
}

// Snapshot is an immutable copy of the published state for one identity.
// Readers get copies; only the controller writes.
type Snapshot struct {
	State     State
	Session   *Session
	Profile   *models.Profile
	AuthError string
	Loading   bool
}

// Resolver produces a ready Profile for a provider identity.
type Resolver interface {
	Resolve(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error)
}

// TokenRevoker destroys the durable half of a session. Used for logout and
// for the forced sign-out a denial triggers.
type TokenRevoker interface {
	RevokeAllProfileTokens(ctx context.Context, profileID uuid.UUID) error
}

// ProfileLookup finds the persistent record a denied email may still have,
// so its open sessions can be cut before the denial is published.
type ProfileLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type entry struct {
	attempts    uint64
	lastSettled uint64
	snapshot    Snapshot
}

// Controller drives the session lifecycle: establish, refresh, destroy.
// Resolutions are versioned per identity; a resolution that settles after a
// newer one has already been published is discarded, so a slow stale result
// can never overwrite a fresher one.
type Controller struct {
	resolver Resolver
	tokens   TokenRevoker
	profiles ProfileLookup
	hub      *Hub

	mu      sync.Mutex
	entries map[string]*entry
}

func NewController(resolver Resolver, tokens TokenRevoker, profiles ProfileLookup, hub *Hub) *Controller {
	return &Controller{
		resolver: resolver,
		tokens:   tokens,
		profiles: profiles,
		hub:      hub,
		entries:  make(map[string]*entry),
	}
}

// Establish runs a full resolution for a provider identity and publishes
// the outcome. On denial the underlying session is destroyed before the
// denied state becomes visible, so no consumer ever observes an
// authenticated-but-unauthorized flash.
func (c *Controller) Establish(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error) {
	email := services.NormalizeEmail(info.Email)
	version := c.begin(email, info)

	profile, err := c.resolver.Resolve(ctx, info)

	if errors.Is(err, services.ErrDenied) {
		c.forceSignOut(ctx, email)
		c.settle(email, version, Snapshot{
			State:     StateDenied,
			AuthError: oauth.DeniedMessage,
		})
		return nil, err
	}
	if err != nil {
		c.settle(email, version, Snapshot{
			State:     StateAnonymous,
			AuthError: "failed to load your profile, please try again",
		})
		return nil, err
	}

	c.settle(email, version, Snapshot{
		State: StateReady,
		Session: &Session{
			Email:          email,
			Provider:       info.Provider,
			ProviderUserID: info.ID,
		},
		Profile: profile,
	})
	return profile, nil
}

// Logout destroys the session and resets the identity to anonymous.
func (c *Controller) Logout(ctx context.Context, email string, profileID uuid.UUID) {
	email = services.NormalizeEmail(email)
	if profileID != uuid.Nil {
		_ = c.tokens.RevokeAllProfileTokens(ctx, profileID)
	}

	c.mu.Lock()
	e := c.ensureEntry(email)
	e.attempts++
	e.lastSettled = e.attempts
	e.snapshot = Snapshot{State: StateAnonymous}
	snap := e.snapshot
	c.mu.Unlock()

	c.hub.BroadcastStateChange(email, snap)
}

// Snapshot returns a copy of the current published state for an identity.
func (c *Controller) Snapshot(email string) Snapshot {
	email = services.NormalizeEmail(email)
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[email]; ok {
		return e.snapshot
	}
	return Snapshot{State: StateAnonymous}
}

// CanAccess evaluates module access against the published profile.
func (c *Controller) CanAccess(email, moduleID string) bool {
	snap := c.Snapshot(email)
	return permissions.CanAccess(snap.Profile, moduleID)
}

func (c *Controller) Subscribe(client *Client) {
	c.hub.Register(client)
}

func (c *Controller) Unsubscribe(client *Client) {
	c.hub.Unregister(client)
}

// begin stamps a new resolution attempt and publishes the loading phase.
func (c *Controller) begin(email string, info *oauth.UserInfo) uint64 {
	c.mu.Lock()
	e := c.ensureEntry(email)
	e.attempts++
	version := e.attempts
	loading := Snapshot{
		State:   StateWhitelistCheck,
		Loading: true,
		Session: &Session{Email: email, Provider: info.Provider, ProviderUserID: info.ID},
	}
	e.snapshot = loading
	c.mu.Unlock()

	c.hub.BroadcastStateChange(email, loading)
	return version
}

// settle publishes the outcome of an attempt unless a newer attempt already
// settled. Stale results are dropped without side effects on the snapshot.
func (c *Controller) settle(email string, version uint64, snap Snapshot) {
	c.mu.Lock()
	e := c.ensureEntry(email)
	if version <= e.lastSettled {
		c.mu.Unlock()
		return
	}
	e.lastSettled = version

	// A denied attempt is terminal: the published steady state loops back
	// to anonymous, keeping the denial message for the UI.
	if snap.State == StateDenied {
		e.snapshot = Snapshot{State: StateAnonymous, AuthError: snap.AuthError}
	} else {
		e.snapshot = snap
	}
	c.mu.Unlock()

	c.hub.BroadcastStateChange(email, snap)
}

// forceSignOut revokes whatever durable session the email still has. Runs
// before the denied state is published.
func (c *Controller) forceSignOut(ctx context.Context, email string) {
	profile, err := c.profiles.GetByEmail(ctx, email)
	if err != nil {
		return
	}
	_ = c.tokens.RevokeAllProfileTokens(ctx, profile.ID)
}

func (c *Controller) ensureEntry(email string) *entry {
	e, ok := c.entries[email]
	if !ok {
		e = &entry{snapshot: Snapshot{State: StateAnonymous}}
		c.entries[email] = e
	}
	return e
}
