package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrTransient marks failures worth retrying: lock contention, busy
	// database, deadline exceeded on a single attempt.
	ErrTransient = errors.New("store: transient failure")
)

// Store is the root data access interface. Sub-repositories keep concerns
// tidy, and a Tx exposes the same repos bound to one transaction so callers
// cannot mix transactional and non-transactional writes by accident.
type Store interface {
	Users() Users
	Tenants() Tenants
	Memberships() Memberships
	RefreshTokens() RefreshTokens
	Invites() Invites
	AuditLogs() AuditLogs

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only use tx, never the outer Store.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail expects an already normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser fails with ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error
}

type Tenants interface {
	// CreateTenant fails with ErrAlreadyExists when the slug is taken.
	CreateTenant(ctx context.Context, t domain.Tenant) error

	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error)

	// ListTenantsForUser returns the user's tenants, newest first.
	ListTenantsForUser(ctx context.Context, userID string) ([]domain.TenantMembership, error)
}

type Memberships interface {
	GetMembership(ctx context.Context, tenantID, userID string) (domain.Membership, error)

	// CreateMembership fails with ErrAlreadyExists on a duplicate pair.
	CreateMembership(ctx context.Context, m domain.Membership) error

	// UpsertMembership inserts or overwrites the role of an existing pair.
	UpsertMembership(ctx context.Context, m domain.Membership) error

	// ListMembers orders by role rank (OWNER first), then joined-at ascending.
	ListMembers(ctx context.Context, tenantID string) ([]domain.Member, error)

	// IsMemberByEmail reports whether a user with the normalized email
	// belongs to the tenant.
	IsMemberByEmail(ctx context.Context, tenantID, email string) (bool, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	GetRefreshTokenByJTI(ctx context.Context, jti string) (domain.RefreshToken, error)

	// RevokeRefreshToken sets revoked_at only if it is still null. It returns
	// ErrNotFound when no un-revoked record matched, which is how a caller
	// learns it lost a rotation race.
	RevokeRefreshToken(ctx context.Context, jti string, at time.Time) error

	// RevokeAllForUser revokes every un-revoked record of the user and
	// reports how many changed.
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error)

	// RevokeExpired revokes un-revoked records whose expiry is before now.
	RevokeExpired(ctx context.Context, now time.Time) (int64, error)

	// DeleteExpiredBefore removes records that expired before cutoff.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Invites interface {
	// CreateInvite fails with ErrAlreadyExists when the token collides or a
	// PENDING invite already exists for (tenant, email).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	GetInviteByToken(ctx context.Context, token string) (domain.Invite, error)

	// GetPendingInvite returns the PENDING invite for (tenant, email).
	GetPendingInvite(ctx context.Context, tenantID, email string) (domain.Invite, error)

	// MarkAccepted moves a PENDING invite to ACCEPTED. ErrNotFound means it
	// was no longer PENDING.
	MarkAccepted(ctx context.Context, id string, at time.Time) error

	// MarkExpired moves a PENDING invite to EXPIRED. ErrNotFound means it
	// was no longer PENDING.
	MarkExpired(ctx context.Context, id string, at time.Time) error

	// ExpirePending moves every PENDING invite past its expiry to EXPIRED.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

type AuditLogs interface {
	CreateAuditLog(ctx context.Context, e domain.AuditEvent) error

	// ListAuditLogs pages a tenant's log, newest first.
	ListAuditLogs(ctx context.Context, tenantID string, limit, offset int) ([]domain.AuditEvent, error)

	CountAuditLogs(ctx context.Context, tenantID string) (int, error)
}
