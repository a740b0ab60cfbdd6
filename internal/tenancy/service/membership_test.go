package service_test

import (
	"testing"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()
	a := &service.MembershipAuthorizer{}

	tests := []struct {
		name     string
		role     domain.Role
		required []domain.Role
		want     bool
	}{
		{"no requirement", domain.RoleMember, nil, true},
		{"member vs admin or owner", domain.RoleMember, []domain.Role{domain.RoleAdmin, domain.RoleOwner}, false},
		{"admin vs admin or owner", domain.RoleAdmin, []domain.Role{domain.RoleAdmin, domain.RoleOwner}, true},
		{"owner vs admin or owner", domain.RoleOwner, []domain.Role{domain.RoleAdmin, domain.RoleOwner}, true},
		{"owner implies member", domain.RoleOwner, []domain.Role{domain.RoleMember}, true},
		{"admin vs owner", domain.RoleAdmin, []domain.Role{domain.RoleOwner}, false},
		{"unknown role", domain.Role("ROOT"), []domain.Role{domain.RoleMember}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Authorize(domain.Membership{Role: tt.role}, tt.required...)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRequireMembership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	owner := f.register(t, "owner@example.com")
	member := f.register(t, "member@example.com")
	outsider := f.register(t, "outsider@example.com")
	tn := f.tenant(t, owner.User.ID, "acme")
	f.join(t, tn.ID, member.User.ID, domain.RoleMember)

	m, err := f.authz.RequireMembership(ctx, owner.User.ID, tn.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleOwner, m.Role)

	_, err = f.authz.RequireMembership(ctx, outsider.User.ID, tn.ID)
	require.ErrorIs(t, err, service.ErrNotTenantMember)
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.authz.RequireMembership(ctx, owner.User.ID, "no-such-tenant")
	require.ErrorIs(t, err, service.ErrNotTenantMember)

	t.Run("require role", func(t *testing.T) {
		_, err := f.authz.RequireRole(ctx, member.User.ID, tn.ID, domain.RoleAdmin, domain.RoleOwner)
		require.ErrorIs(t, err, service.ErrInsufficientRole)

		m, err := f.authz.RequireRole(ctx, owner.User.ID, tn.ID, domain.RoleAdmin, domain.RoleOwner)
		require.NoError(t, err)
		require.Equal(t, tn.ID, m.TenantID)
	})

	t.Run("no caching", func(t *testing.T) {
		require.NoError(t, f.store.Memberships().UpsertMembership(ctx, domain.Membership{
			TenantID: tn.ID, UserID: member.User.ID, Role: domain.RoleAdmin,
			CreatedAt: f.clock.Now(), UpdatedAt: f.clock.Now(),
		}))
		_, err := f.authz.RequireRole(ctx, member.User.ID, tn.ID, domain.RoleAdmin)
		require.NoError(t, err)
	})
}
