// Package models defines client-side data models used by the FieldSync
// session core.
package models

import (
	"strings"
	"time"
)

// Credential is the bearer credential attached to outbound API calls.
// It is persisted as a whole: readers never observe a token without
// its expiry.
type Credential struct {
	// AccessToken is the opaque bearer token.
	AccessToken string `json:"access_token"`

	// ExpiresAt is the absolute expiry time in UTC. A credential is
	// invalid from this instant onward (now >= ExpiresAt).
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the credential is no longer usable at the
// given instant. The boundary is inclusive: at exactly ExpiresAt the
// credential is already expired.
func (c Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Identity describes the account the current session belongs to.
//
// An Identity is either remote-backed (ID issued by the backend, durable
// across devices) or local-only (ID derived from device identifiers,
// meaningful only on this device).
type Identity struct {
	// ID uniquely identifies the account. Local-only identities carry
	// a "local-" prefix.
	ID string `json:"id"`

	// Email is the account email. Local-only identities synthesize one
	// as "<deviceID>@local.device".
	Email string `json:"email"`

	// DisplayName is a human-readable name for the account.
	DisplayName string `json:"display_name"`

	// IsAnonymous is true until the identity is linked to verifiable
	// contact information.
	IsAnonymous bool `json:"is_anonymous"`

	// CreatedAt and UpdatedAt are account timestamps in UTC.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLocal reports whether the identity was synthesized on this device
// rather than issued by the backend.
func (i Identity) IsLocal() bool {
	return strings.HasPrefix(i.ID, "local-")
}

// Session pairs the current Identity with its Credential. Anonymous is
// persisted independently of the Identity so the UI can distinguish
// "anonymous but holding a token" from "fully authenticated".
type Session struct {
	Identity   Identity
	Credential Credential
	Anonymous  bool
}
