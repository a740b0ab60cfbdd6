package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tenancy/pkg/apierror"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer access token.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := BearerToken(r)
			if !ok {
				WriteError(w, r, apierror.Unauthorized("Missing bearer token"))
				return
			}

			claims, err := verifyAccess(v, raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("access token rejected", "err", err)
				WriteError(w, r, apierror.Unauthorized("Invalid or expired access token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

// OptionalAuthnMiddleware attaches the caller identity when a valid bearer
// token is present and otherwise lets the request through anonymously.
func OptionalAuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := BearerToken(r); ok {
				if claims, err := verifyAccess(v, raw); err == nil {
					r = r.WithContext(contextWithAuth(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIPMiddleware records the caller address in the request context.
func ClientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), IPKeyExtractor(r))))
	})
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func verifyAccess(v jwtx.Verifier, raw string) (jwtx.Claims, error) {
	claims, err := v.Verify(raw)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if err := claims.ValidateType(jwtx.TypeAccess); err != nil {
		return jwtx.Claims{}, err
	}
	return claims, nil
}
