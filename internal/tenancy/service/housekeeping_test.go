package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	owner := f.register(t, "owner@example.com")
	tn := f.tenant(t, owner.User.ID, "acme")
	inv, err := f.invites.CreateInvite(ctx, tn.ID, owner.User.ID, "a@b.com", domain.RoleMember, "")
	require.NoError(t, err)

	claims, err := f.tokens.RefreshSigner.Verify(owner.Tokens.RefreshToken)
	require.NoError(t, err)

	now := f.clock.Now()
	require.NoError(t, f.store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		JTI: "ancient", TokenHash: "x", UserID: owner.User.ID,
		ExpiresAt: now.Add(-40 * 24 * time.Hour), CreatedAt: now.Add(-60 * 24 * time.Hour),
	}))

	hk := service.NewHousekeepingService(f.store, slogx.Discard(), time.Hour)
	hk.Clock = func() time.Time { return now.Add(service.DefaultInviteTTL + time.Hour) }
	hk.Sweep(ctx)

	rec, err := f.store.RefreshTokens().GetRefreshTokenByJTI(ctx, claims.ID)
	require.NoError(t, err)
	require.True(t, rec.Revoked(), "expired session revoked")

	_, err = f.store.RefreshTokens().GetRefreshTokenByJTI(ctx, "ancient")
	require.ErrorIs(t, err, store.ErrNotFound, "long expired record deleted")

	got, err := f.store.Invites().GetInviteByToken(ctx, inv.Token)
	require.NoError(t, err)
	require.Equal(t, domain.InviteExpired, got.Status)
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	hk := service.NewHousekeepingService(f.store, slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)
	hk.Start()
	hk.Stop()
}
