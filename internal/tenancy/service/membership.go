package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
)

// MembershipAuthorizer answers "is this user in this tenant, and with what
// role". Every check reads the store; nothing is cached.
type MembershipAuthorizer struct {
	Store store.Store
	Retry RetryPolicy
}

// RequireMembership returns the caller's membership or ErrNotTenantMember.
func (a *MembershipAuthorizer) RequireMembership(ctx context.Context, userID, tenantID string) (domain.Membership, error) {
	if userID == "" || tenantID == "" {
		return domain.Membership{}, ErrNotTenantMember
	}

	m, err := retryStoreValue(ctx, a.Retry, func(ctx context.Context) (domain.Membership, error) {
		return a.Store.Memberships().GetMembership(ctx, tenantID, userID)
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Membership{}, ErrNotTenantMember
	}
	return m, err
}

// Authorize reports whether m satisfies required. An empty requirement
// allows everyone; otherwise the member needs at least the lowest rank listed.
func (a *MembershipAuthorizer) Authorize(m domain.Membership, required ...domain.Role) bool {
	if len(required) == 0 {
		return true
	}

	have := m.Role.Rank()
	if have == 0 {
		return false
	}

	need := required[0].Rank()
	for _, r := range required[1:] {
		need = min(need, r.Rank())
	}
	return have >= need
}

// RequireRole is RequireMembership followed by Authorize.
func (a *MembershipAuthorizer) RequireRole(ctx context.Context, userID, tenantID string, required ...domain.Role) (domain.Membership, error) {
	m, err := a.RequireMembership(ctx, userID, tenantID)
	if err != nil {
		return domain.Membership{}, err
	}
	if !a.Authorize(m, required...) {
		return domain.Membership{}, ErrInsufficientRole
	}
	return m, nil
}
