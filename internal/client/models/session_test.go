package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCredential_Expired_Boundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"well before expiry", now.Add(30 * 24 * time.Hour), false},
		{"one ms before expiry", now.Add(time.Millisecond), false},
		{"exactly at expiry", now, true},
		{"one ms past expiry", now.Add(-time.Millisecond), true},
		{"long expired", now.Add(-365 * 24 * time.Hour), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Credential{AccessToken: "tok", ExpiresAt: tc.expiresAt}
			require.Equal(t, tc.want, c.Expired(now))
		})
	}
}

func TestIdentity_IsLocal(t *testing.T) {
	require.True(t, Identity{ID: "local-abc123-1717243200"}.IsLocal())
	require.False(t, Identity{ID: "usr_8f14e45f"}.IsLocal())
	require.False(t, Identity{}.IsLocal())
}
