package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var (
	secretA = []byte(strings.Repeat("a", 32))
	secretB = []byte(strings.Repeat("b", 32))
)

func TestNewHMAC_RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewHMAC([]byte("short"), "tenancy")
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHMAC_RoundTrip(t *testing.T) {
	h, err := jwtx.NewHMAC(secretA, "tenancy")
	require.NoError(t, err)

	claims := jwtx.NewRefreshClaims("user-1", "a@b.com", "jti-1", h.Issuer(), time.Hour, time.Now())
	tok, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.VerifyType(tok, jwtx.TypeRefresh)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "a@b.com", got.Email)
	require.Equal(t, "jti-1", got.ID)

	_, err = h.VerifyType(tok, jwtx.TypeAccess)
	require.ErrorIs(t, err, jwtx.ErrWrongType)
}

func TestHMAC_VerifyFailures(t *testing.T) {
	signer, err := jwtx.NewHMAC(secretA, "tenancy")
	require.NoError(t, err)

	now := time.Now()
	valid, err := signer.Sign(jwtx.NewAccessClaims("user-1", "", "tenancy", time.Minute, now))
	require.NoError(t, err)

	t.Run("different secret", func(t *testing.T) {
		other, err := jwtx.NewHMAC(secretB, "tenancy")
		require.NoError(t, err)
		_, err = other.Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("different issuer", func(t *testing.T) {
		other, err := jwtx.NewHMAC(secretA, "someone-else")
		require.NoError(t, err)
		_, err = other.Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		later := signer.WithClock(func() time.Time { return now.Add(time.Hour) })
		_, err := later.Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("alg none is rejected", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewAccessClaims("user-1", "", "tenancy", time.Minute, now))
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = signer.Verify(raw)
		require.Error(t, err)
	})
}
