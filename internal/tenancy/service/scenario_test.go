package service_test

import (
	"testing"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/stretchr/testify/require"
)

// U1 creates "acme", invites u2, u2 registers and accepts, a second accept
// with the same token is rejected.
func TestInviteScenario(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	u1 := f.register(t, "u1@acme.test")
	acme, err := f.tenants.CreateTenant(ctx, u1.User.ID, "Acme", "acme")
	require.NoError(t, err)

	inv, err := f.invites.CreateInvite(ctx, acme.ID, u1.User.ID, "u2@acme.test", domain.RoleMember, "")
	require.NoError(t, err)

	u2 := f.register(t, "u2@acme.test")

	res, err := f.invites.AcceptInvite(ctx, inv.Token, u2.User.ID)
	require.NoError(t, err)
	require.Equal(t, acme.ID, res.TenantID)

	m, err := f.authz.RequireMembership(ctx, u2.User.ID, acme.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, m.Role)

	_, err = f.invites.AcceptInvite(ctx, inv.Token, u2.User.ID)
	require.ErrorIs(t, err, service.ErrInviteNotPending)
	require.ErrorIs(t, err, service.ErrBadRequest)

	f.audit.Flush()
	page, err := f.audit.List(ctx, acme.ID, 1, 20)
	require.NoError(t, err)
	actions := make([]string, 0, len(page.Items))
	for _, e := range page.Items {
		actions = append(actions, e.Action)
	}
	require.ElementsMatch(t, []string{
		domain.AuditTenantCreated, domain.AuditInviteCreated, domain.AuditInviteAccepted,
	}, actions)
}
