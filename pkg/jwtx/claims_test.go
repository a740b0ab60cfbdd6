package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "tenancy"},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("tenancy"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("billing"), jwtx.ErrIssuer)
	})
}

func TestNewClaims(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	t.Run("access claims carry no jti", func(t *testing.T) {
		c := jwtx.NewAccessClaims("user-1", "a@b.com", "tenancy", time.Minute, now)
		require.Empty(t, c.ID)
		require.Equal(t, jwtx.TypeAccess, c.Type)
		require.Equal(t, now.Add(time.Minute), c.ExpiresAt.Time)
	})

	t.Run("refresh claims carry jti and tag", func(t *testing.T) {
		c := jwtx.NewRefreshClaims("user-1", "a@b.com", "jti-1", "tenancy", time.Hour, now)
		require.Equal(t, "jti-1", c.ID)
		require.NoError(t, c.ValidateType(jwtx.TypeRefresh))
		require.ErrorIs(t, c.ValidateType(jwtx.TypeAccess), jwtx.ErrWrongType)
	})
}

func TestValidateExpiryAt(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	c := jwtx.NewAccessClaims("user-1", "", "", time.Minute, now)

	require.NoError(t, c.ValidateExpiryAt(now.Add(30*time.Second)))
	require.ErrorIs(t, c.ValidateExpiryAt(now.Add(2*time.Minute)), jwtx.ErrExpired)
	require.ErrorIs(t, c.ValidateExpiryAt(now.Add(-time.Minute)), jwtx.ErrNotYetValid)
}
