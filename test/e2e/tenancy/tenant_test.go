package tenancy_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
	"github.com/stretchr/testify/require"
)

// TestTenantInviteFlow tests the complete invitation flow:
// 1. Owner creates a tenant and invites a user as ADMIN
// 2. A repeat invite returns the same pending invite
// 3. The invitee accepts and can see the tenant
// 4. The token cannot be accepted twice
// 5. The audit log records each step
func TestTenantInviteFlow(t *testing.T) {
	baseURL := setupTenancyContainer(t, relaxedRateLimits)
	client := tenancysdk.NewSDKClient(baseURL)
	ctx := t.Context()

	owner := registerUser(t, client, "owner@example.com", "Owner")
	tenant := createTenant(t, owner, "Acme Corp", "acme")

	_, err := owner.CreateTenant(ctx, tenancysdk.CreateTenantRequest{Name: "Other Acme", Slug: "acme"})
	assertStatus(t, err, http.StatusConflict, "Duplicate slug")

	invite, err := owner.CreateInvite(ctx, tenant.ID, tenancysdk.CreateInviteRequest{Email: "bob@example.com", Role: "ADMIN"})
	require.NoError(t, err)
	require.Equal(t, "PENDING", invite.Status)
	require.Equal(t, "ADMIN", invite.Role)
	require.NotEmpty(t, invite.Token, "Dev mode should expose the invite token")

	again, err := owner.CreateInvite(ctx, tenant.ID, tenancysdk.CreateInviteRequest{Email: "BOB@example.com"})
	require.NoError(t, err)
	require.Equal(t, invite.ID, again.ID, "Repeat invite should reuse the pending one")
	require.Equal(t, "ADMIN", again.Role, "Repeat invite keeps the original role")

	bob := registerUser(t, client, "bob@example.com", "Bob")

	_, err = bob.GetTenant(ctx, tenant.ID)
	assertStatus(t, err, http.StatusForbidden, "Non-member tenant read")

	accepted, err := bob.AcceptInvite(ctx, invite.Token)
	require.NoError(t, err)
	require.True(t, accepted.OK)
	require.Equal(t, tenant.ID, accepted.TenantID)
	require.Equal(t, "ADMIN", accepted.Role)

	got, err := bob.GetTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, "ADMIN", got.Role)

	_, err = bob.AcceptInvite(ctx, invite.Token)
	assertStatus(t, err, http.StatusBadRequest, "Second accept")

	members, err := owner.ListMembers(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, members.Members, 2)

	mine, err := bob.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, mine.Tenants, 1)

	require.Eventually(t, func() bool {
		page, err := owner.ListAuditLogs(ctx, tenant.ID, 1, 50)
		return err == nil && page.Total >= 3
	}, 5*time.Second, 100*time.Millisecond, "Audit log should record tenant, invite and accept")

	t.Logf("Invite flow verified for tenant %s", tenant.ID)
}

// TestInviteRequiresAdmin verifies members cannot invite or read audit logs.
func TestInviteRequiresAdmin(t *testing.T) {
	baseURL := setupTenancyContainer(t, relaxedRateLimits)
	client := tenancysdk.NewSDKClient(baseURL)
	ctx := t.Context()

	owner := registerUser(t, client, "owner@example.com", "Owner")
	tenant := createTenant(t, owner, "Acme Corp", "acme")

	invite, err := owner.CreateInvite(ctx, tenant.ID, tenancysdk.CreateInviteRequest{Email: "carol@example.com"})
	require.NoError(t, err)
	require.Equal(t, "MEMBER", invite.Role, "Role should default to MEMBER")

	carol := registerUser(t, client, "carol@example.com", "Carol")
	_, err = carol.AcceptInvite(ctx, invite.Token)
	require.NoError(t, err)

	_, err = carol.CreateInvite(ctx, tenant.ID, tenancysdk.CreateInviteRequest{Email: "dave@example.com"})
	assertStatus(t, err, http.StatusForbidden, "Member invite")

	_, err = carol.ListAuditLogs(ctx, tenant.ID, 0, 0)
	assertStatus(t, err, http.StatusForbidden, "Member audit read")

	dave := registerUser(t, client, "dave@example.com", "Dave")
	_, err = dave.AcceptInvite(ctx, invite.Token)
	assertStatus(t, err, http.StatusBadRequest, "Accept of a used invite")
}

// TestRedisQueue runs the service against Redis: readiness reports the
// queue and invites go through it.
func TestRedisQueue(t *testing.T) {
	baseURL := setupTenancyWithRedis(t)
	client := tenancysdk.NewSDKClient(baseURL)
	ctx := t.Context()

	ready, err := client.GetReadiness(ctx)
	assertHealthy(t, ready, err)
	require.Equal(t, "ok", ready.Checks.Redis)

	owner := registerUser(t, client, "owner@example.com", "Owner")
	tenant := createTenant(t, owner, "Queue Corp", "queue-corp")

	first, err := owner.CreateInvite(ctx, tenant.ID, tenancysdk.CreateInviteRequest{Email: "erin@example.com"})
	require.NoError(t, err)
	second, err := owner.CreateInvite(ctx, tenant.ID, tenancysdk.CreateInviteRequest{Email: "erin@example.com"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}
