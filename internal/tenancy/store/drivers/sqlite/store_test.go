package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/testutil"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC)

func seedUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$stub",
		Name:         "Test",
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	require.NoError(t, s.Users().CreateUser(t.Context(), u))
	return u
}

func seedTenant(t *testing.T, s store.Store, slug string, createdAt time.Time) domain.Tenant {
	t.Helper()
	tn := domain.Tenant{
		ID:        idx.New().String(),
		Name:      slug,
		Slug:      slug,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, s.Tenants().CreateTenant(t.Context(), tn))
	return tn
}

func TestUsers(t *testing.T) {
	t.Parallel()
	s := testutil.NewStore(t)
	ctx := t.Context()

	u := seedUser(t, s, "a@example.com")

	got, err := s.Users().GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.True(t, t0.Equal(got.CreatedAt), "timestamps round trip with nanoseconds")

	_, err = s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	dup := u
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
}

func TestTenantsAndMemberships(t *testing.T) {
	t.Parallel()
	s := testutil.NewStore(t)
	ctx := t.Context()

	owner := seedUser(t, s, "owner@example.com")
	admin := seedUser(t, s, "admin@example.com")
	member := seedUser(t, s, "member@example.com")

	older := seedTenant(t, s, "older", t0)
	newer := seedTenant(t, s, "newer", t0.Add(time.Hour))

	_, err := s.Tenants().GetTenantBySlug(ctx, "older")
	require.NoError(t, err)
	require.ErrorIs(t, s.Tenants().CreateTenant(ctx, domain.Tenant{
		ID: idx.New().String(), Name: "x", Slug: "older", CreatedAt: t0, UpdatedAt: t0,
	}), store.ErrAlreadyExists)

	add := func(tenantID, userID string, role domain.Role, at time.Time) {
		require.NoError(t, s.Memberships().CreateMembership(ctx, domain.Membership{
			TenantID: tenantID, UserID: userID, Role: role, CreatedAt: at, UpdatedAt: at,
		}))
	}
	add(older.ID, member.ID, domain.RoleMember, t0)
	add(older.ID, admin.ID, domain.RoleAdmin, t0.Add(2*time.Minute))
	add(older.ID, owner.ID, domain.RoleOwner, t0.Add(time.Minute))
	add(newer.ID, owner.ID, domain.RoleOwner, t0)

	t.Run("duplicate membership", func(t *testing.T) {
		err := s.Memberships().CreateMembership(ctx, domain.Membership{
			TenantID: older.ID, UserID: member.ID, Role: domain.RoleAdmin, CreatedAt: t0, UpdatedAt: t0,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("members ordered by rank then joined-at", func(t *testing.T) {
		members, err := s.Memberships().ListMembers(ctx, older.ID)
		require.NoError(t, err)
		require.Len(t, members, 3)
		require.Equal(t, []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleMember},
			[]domain.Role{members[0].Role, members[1].Role, members[2].Role})
		require.Equal(t, "owner@example.com", members[0].Email)
	})

	t.Run("tenants for user newest first", func(t *testing.T) {
		list, err := s.Tenants().ListTenantsForUser(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, newer.ID, list[0].Tenant.ID)
		require.Equal(t, domain.RoleOwner, list[0].Role)
	})

	t.Run("upsert keeps joined-at and changes role", func(t *testing.T) {
		later := t0.Add(24 * time.Hour)
		require.NoError(t, s.Memberships().UpsertMembership(ctx, domain.Membership{
			TenantID: older.ID, UserID: member.ID, Role: domain.RoleAdmin, CreatedAt: later, UpdatedAt: later,
		}))
		m, err := s.Memberships().GetMembership(ctx, older.ID, member.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, m.Role)
		require.True(t, t0.Equal(m.CreatedAt))
		require.True(t, later.Equal(m.UpdatedAt))
	})

	t.Run("is member by email", func(t *testing.T) {
		ok, err := s.Memberships().IsMemberByEmail(ctx, older.ID, "admin@example.com")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Memberships().IsMemberByEmail(ctx, newer.ID, "admin@example.com")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestRefreshTokens(t *testing.T) {
	t.Parallel()
	s := testutil.NewStore(t)
	ctx := t.Context()
	u := seedUser(t, s, "r@example.com")

	mk := func(jti string, expires time.Time) {
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			JTI: jti, TokenHash: "hash-" + jti, UserID: u.ID, ExpiresAt: expires, CreatedAt: t0,
		}))
	}
	mk("a", t0.Add(time.Hour))
	mk("b", t0.Add(time.Hour))
	mk("old", t0.Add(-time.Hour))
	mk("ancient", t0.Add(-60*24*time.Hour))

	t.Run("revoke is a one-way CAS", func(t *testing.T) {
		require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, "a", t0))
		require.ErrorIs(t, s.RefreshTokens().RevokeRefreshToken(ctx, "a", t0.Add(time.Second)), store.ErrNotFound)

		rec, err := s.RefreshTokens().GetRefreshTokenByJTI(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, rec.RevokedAt)
		require.True(t, t0.Equal(*rec.RevokedAt), "second revoke must not move revoked_at")
	})

	t.Run("revoke expired", func(t *testing.T) {
		n, err := s.RefreshTokens().RevokeExpired(ctx, t0)
		require.NoError(t, err)
		require.Equal(t, int64(2), n)
	})

	t.Run("delete long expired", func(t *testing.T) {
		n, err := s.RefreshTokens().DeleteExpiredBefore(ctx, t0.Add(-30*24*time.Hour))
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
		_, err = s.RefreshTokens().GetRefreshTokenByJTI(ctx, "ancient")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("revoke all for user", func(t *testing.T) {
		n, err := s.RefreshTokens().RevokeAllForUser(ctx, u.ID, t0)
		require.NoError(t, err)
		require.Equal(t, int64(1), n, "only b was still active")
	})
}

func TestInvites(t *testing.T) {
	t.Parallel()
	s := testutil.NewStore(t)
	ctx := t.Context()
	u := seedUser(t, s, "owner@example.com")
	tn := seedTenant(t, s, "acme", t0)

	newInvite := func(token string) domain.Invite {
		return domain.Invite{
			ID: idx.New().String(), TenantID: tn.ID, CreatedByUserID: u.ID,
			Email: "new@example.com", Role: domain.RoleMember, Token: token,
			ExpiresAt: t0.Add(time.Hour), CreatedAt: t0, UpdatedAt: t0,
		}
	}

	first := newInvite("token-1")
	require.NoError(t, s.Invites().CreateInvite(ctx, first))

	t.Run("one pending invite per tenant and email", func(t *testing.T) {
		err := s.Invites().CreateInvite(ctx, newInvite("token-2"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		pending, err := s.Invites().GetPendingInvite(ctx, tn.ID, "new@example.com")
		require.NoError(t, err)
		require.Equal(t, first.ID, pending.ID)
		require.Equal(t, domain.InvitePending, pending.Status)
	})

	t.Run("accept is a CAS", func(t *testing.T) {
		require.NoError(t, s.Invites().MarkAccepted(ctx, first.ID, t0))
		require.ErrorIs(t, s.Invites().MarkAccepted(ctx, first.ID, t0), store.ErrNotFound)
		require.ErrorIs(t, s.Invites().MarkExpired(ctx, first.ID, t0), store.ErrNotFound)

		got, err := s.Invites().GetInviteByToken(ctx, "token-1")
		require.NoError(t, err)
		require.Equal(t, domain.InviteAccepted, got.Status)
		require.NotNil(t, got.AcceptedAt)
	})

	t.Run("a new pending invite is allowed once the old one left PENDING", func(t *testing.T) {
		require.NoError(t, s.Invites().CreateInvite(ctx, newInvite("token-3")))
	})

	t.Run("expire pending sweep", func(t *testing.T) {
		n, err := s.Invites().ExpirePending(ctx, t0.Add(2*time.Hour))
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		_, err = s.Invites().GetPendingInvite(ctx, tn.ID, "new@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestAuditLogs(t *testing.T) {
	t.Parallel()
	s := testutil.NewStore(t)
	ctx := t.Context()

	for i := range 5 {
		require.NoError(t, s.AuditLogs().CreateAuditLog(ctx, domain.AuditEvent{
			ID:           idx.New().String(),
			TenantID:     "tenant-1",
			ActorUserID:  "user-1",
			Action:       domain.AuditInviteCreated,
			ResourceType: "invite",
			Metadata:     map[string]any{"n": i},
			CreatedAt:    t0.Add(time.Duration(i) * time.Minute),
		}))
	}

	total, err := s.AuditLogs().CountAuditLogs(ctx, "tenant-1")
	require.NoError(t, err)
	require.Equal(t, 5, total)

	page, err := s.AuditLogs().ListAuditLogs(ctx, "tenant-1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, float64(4), page[0].Metadata["n"], "newest first")
	require.Empty(t, page[0].IP)
}

func TestWithTx(t *testing.T) {
	t.Parallel()
	s := testutil.NewStore(t)
	ctx := t.Context()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, domain.User{
			ID: "u1", Email: "tx@example.com", PasswordHash: "x", CreatedAt: t0, UpdatedAt: t0,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByID(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound, "rolled back")

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.Error(t, err, "nested transactions are rejected")

	require.NoError(t, s.Ping(context.Background()))
}
