package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T) *jwtx.HMAC {
	t.Helper()
	h, err := jwtx.NewHMAC([]byte(strings.Repeat("k", 32)), "tenancy")
	require.NoError(t, err)
	return h
}

func TestAuthnMiddleware(t *testing.T) {
	signer := newSigner(t)
	now := time.Now()

	access, err := signer.Sign(jwtx.NewAccessClaims("user-1", "a@example.com", "tenancy", time.Minute, now))
	require.NoError(t, err)
	refresh, err := signer.Sign(jwtx.NewRefreshClaims("user-1", "a@example.com", "jti", "tenancy", time.Hour, now))
	require.NoError(t, err)

	var gotUser string
	h := httpx.AuthnMiddleware(signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = httpx.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid access token", header: "Bearer " + access, want: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer " + access, want: http.StatusNoContent},
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "refresh token is not an access token", header: "Bearer " + refresh, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				require.Equal(t, "user-1", gotUser)
			} else {
				require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestOptionalAuthnMiddleware(t *testing.T) {
	signer := newSigner(t)
	access, err := signer.Sign(jwtx.NewAccessClaims("user-1", "", "tenancy", time.Minute, time.Now()))
	require.NoError(t, err)

	var authed bool
	h := httpx.OptionalAuthnMiddleware(signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authed = httpx.UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.False(t, authed)

	req.Header.Set("Authorization", "Bearer "+access)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, authed)

	req.Header.Set("Authorization", "Bearer broken")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.False(t, authed)
	require.Equal(t, http.StatusOK, rec.Code)
}
