package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/stretchr/testify/require"
)

func TestCreateTenant(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()
	u := f.register(t, "owner@example.com")

	tn, err := f.tenants.CreateTenant(ctx, u.User.ID, "Acme Corp", "acme")
	require.NoError(t, err)
	require.Equal(t, domain.TenantActive, tn.Status)

	m, err := f.authz.RequireMembership(ctx, u.User.ID, tn.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleOwner, m.Role)

	got, err := f.tenants.GetTenant(ctx, tn.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", got.Name)

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := f.tenants.CreateTenant(ctx, u.User.ID, "Other", "acme")
		require.ErrorIs(t, err, service.ErrSlugTaken)
		require.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("invalid slugs", func(t *testing.T) {
		for _, slug := range []string{"ab", "Acme", "acme_corp", "-acme", "a--b"} {
			_, err := f.tenants.CreateTenant(ctx, u.User.ID, "X", slug)
			require.ErrorIs(t, err, service.ErrInvalidSlug, slug)
		}
	})

	t.Run("missing tenant", func(t *testing.T) {
		_, err := f.tenants.GetTenant(ctx, "nope")
		require.ErrorIs(t, err, service.ErrTenantNotFound)
	})

	t.Run("audited", func(t *testing.T) {
		f.audit.Flush()
		page, err := f.audit.List(ctx, tn.ID, 1, 20)
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		require.Equal(t, domain.AuditTenantCreated, page.Items[0].Action)
		require.Equal(t, u.User.ID, page.Items[0].ActorUserID)
	})
}

func TestListTenantsAndMembers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	owner := f.register(t, "owner@example.com")
	first := f.tenant(t, owner.User.ID, "first")
	f.clock.Advance(time.Minute)
	second := f.tenant(t, owner.User.ID, "second")

	mine, err := f.tenants.ListMyTenants(ctx, owner.User.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, second.ID, mine[0].Tenant.ID)
	require.Equal(t, first.ID, mine[1].Tenant.ID)

	member := f.register(t, "member@example.com")
	f.clock.Advance(time.Minute)
	admin := f.register(t, "admin@example.com")
	f.join(t, first.ID, member.User.ID, domain.RoleMember)
	f.clock.Advance(time.Minute)
	f.join(t, first.ID, admin.User.ID, domain.RoleAdmin)

	members, err := f.tenants.ListMembers(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	require.Equal(t, "owner@example.com", members[0].Email)
	require.Equal(t, "admin@example.com", members[1].Email)
	require.Equal(t, "member@example.com", members[2].Email)
}
