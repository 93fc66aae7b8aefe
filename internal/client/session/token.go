package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fieldsync/mobilecore/internal/client/models"
)

// authResponse is the payload returned by every credential-issuing
// endpoint. Expiry fields are optional; see credentialFromResponse for
// the resolution order.
type authResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	ExpiresAt   *time.Time   `json:"expires_at"`
	User        *userPayload `json:"user"`
}

type userPayload struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// expiryFromJWT extracts the exp claim from an access token whose
// payload happens to be a JWT. The signature is deliberately not
// verified: the client only needs the expiry hint, trust stays with the
// backend.
func expiryFromJWT(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// credentialFromResponse resolves the credential expiry, most specific
// source last: fallbackTTL from now, then a JWT exp claim embedded in
// the token, then the response's expires_in / expires_at fields.
func credentialFromResponse(resp authResponse, now time.Time, fallbackTTL time.Duration) models.Credential {
	expiresAt := now.Add(fallbackTTL)
	if exp, ok := expiryFromJWT(resp.AccessToken); ok {
		expiresAt = exp
	}
	if resp.ExpiresIn > 0 {
		expiresAt = now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	if resp.ExpiresAt != nil {
		expiresAt = *resp.ExpiresAt
	}
	return models.Credential{AccessToken: resp.AccessToken, ExpiresAt: expiresAt}
}

// identityFromUser maps the backend user payload to a client Identity.
func identityFromUser(u userPayload, anonymous bool) models.Identity {
	return models.Identity{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsAnonymous: anonymous,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
