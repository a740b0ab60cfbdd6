package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/apierror"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

type membershipKey struct{}

// WithMembership stores the caller's resolved membership for the tenant in
// the request path.
func WithMembership(ctx context.Context, m domain.Membership) context.Context {
	return context.WithValue(ctx, membershipKey{}, m)
}

// MembershipFromContext returns the membership stored by TenantAccess.
func MembershipFromContext(ctx context.Context) (domain.Membership, bool) {
	m, ok := ctx.Value(membershipKey{}).(domain.Membership)
	return m, ok
}

// TenantAccess requires the authenticated caller to be a member of the
// {tenantID} in the path. It must run after httpx.AuthnMiddleware.
func TenantAccess(a *service.MembershipAuthorizer) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := httpx.UserIDFromContext(ctx)
			if !ok {
				httpx.WriteError(w, r, apierror.Unauthorized(""))
				return
			}
			tenantID := chi.URLParam(r, "tenantID")
			if tenantID == "" {
				httpx.WriteError(w, r, apierror.BadRequest("tenant id is required"))
				return
			}

			m, err := a.RequireMembership(ctx, userID, tenantID)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With("tenant_id", tenantID))
			next.ServeHTTP(w, r.WithContext(WithMembership(ctx, m)))
		})
	}
}

// RequireRoles requires the membership resolved by TenantAccess to rank at
// least as high as the lowest of roles.
func RequireRoles(a *service.MembershipAuthorizer, roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, ok := MembershipFromContext(r.Context())
			if !ok || !a.Authorize(m, roles...) {
				writeServiceError(w, r, service.ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
