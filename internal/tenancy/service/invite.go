package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/jobs"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// DefaultInviteTTL is how long an invite token can be redeemed.
const DefaultInviteTTL = 7 * 24 * time.Hour

// createAttempts bounds the read-or-insert loop when concurrent creators
// race on the pending index.
const createAttempts = 3

// NotificationDispatcher hands a job to a durable queue. Enqueueing twice
// with the same dedupeKey must be harmless.
type NotificationDispatcher interface {
	Enqueue(ctx context.Context, queue, jobName string, payload any, dedupeKey string) error
}

// Locker serialises work on a key across processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// AcceptResult is what a successful accept reveals to the caller.
type AcceptResult struct {
	TenantID string
	Role     domain.Role
}

// InviteService runs the invitation workflow: at most one pending invite per
// (tenant, email), and at most one notification job per invite.
type InviteService struct {
	Store      store.Store
	Authorizer *MembershipAuthorizer
	Dispatcher NotificationDispatcher
	Locker     Locker
	Audit      AuditRecorder
	InviteTTL  time.Duration
	Retry      RetryPolicy
	Clock      func() time.Time
}

// InviteDedupeKey identifies the notification for a (tenant, email) pair.
func InviteDedupeKey(tenantID, email string) string {
	sum := sha256.Sum256([]byte(tenantID + "|" + strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

// CreateInvite invites email into tenantID with role, or returns the invite
// that is already pending for the pair. Either way the notification job is
// (re-)enqueued under the pair's dedupe key.
func (s *InviteService) CreateInvite(ctx context.Context, tenantID, creatorUserID, email string, role domain.Role, correlationID string) (domain.Invite, error) {
	l := slogx.FromContext(ctx)

	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Invite{}, fmt.Errorf("%w: email is required", ErrBadRequest)
	}
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return domain.Invite{}, ErrInvalidRole
	}

	// Who may invite is decided at the transport; here the creator only
	// needs to belong to the tenant.
	if _, err := s.Authorizer.RequireMembership(ctx, creatorUserID, tenantID); err != nil {
		return domain.Invite{}, err
	}

	member, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (bool, error) {
		return s.Store.Memberships().IsMemberByEmail(ctx, tenantID, email)
	})
	if err != nil {
		return domain.Invite{}, err
	}
	if member {
		return domain.Invite{}, ErrAlreadyMember
	}

	dedupeKey := InviteDedupeKey(tenantID, email)

	if s.Locker != nil {
		release, err := s.Locker.Acquire(ctx, "invite:"+dedupeKey)
		if err != nil {
			return domain.Invite{}, fmt.Errorf("%w: invite lock: %v", ErrUnavailable, err)
		}
		defer release()
	}

	inv, reused, err := s.pendingOrCreate(ctx, tenantID, creatorUserID, email, role)
	if err != nil {
		return domain.Invite{}, err
	}

	if correlationID == "" {
		correlationID = slogx.RequestIDFromContext(ctx)
	}
	payload := jobs.InviteEmailPayload{
		InviteID:      inv.ID,
		TenantID:      inv.TenantID,
		Email:         inv.Email,
		Role:          string(inv.Role),
		Token:         inv.Token,
		ExpiresAt:     inv.ExpiresAt,
		InvitedBy:     creatorUserID,
		CorrelationID: correlationID,
	}

	err = s.Retry.do(ctx, jobs.Transient, func(ctx context.Context) error {
		return s.Dispatcher.Enqueue(ctx, jobs.QueueNotifications, jobs.TypeInviteEmail, payload, dedupeKey)
	})
	if err != nil {
		l.Error("invite notification enqueue failed",
			slog.String("invite_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invite{}, err
	}

	outcome := "created"
	if reused {
		outcome = "reused"
	}
	metrics.InvitesTotal.WithLabelValues(outcome).Inc()

	recordAudit(ctx, s.Audit, domain.AuditEvent{
		TenantID:     tenantID,
		ActorUserID:  creatorUserID,
		Action:       domain.AuditInviteCreated,
		ResourceType: "invite",
		ResourceID:   inv.ID,
		Metadata: map[string]any{
			"email":  inv.Email,
			"role":   string(inv.Role),
			"reused": reused,
		},
	})

	l.Info("invite ready",
		slog.String("invite_id", inv.ID),
		slog.String("tenant_id", tenantID),
		slog.Bool("reused", reused),
	)
	return inv, nil
}

// pendingOrCreate returns the live pending invite for the pair or inserts a
// new one. A pending invite past its expiry is moved to EXPIRED first. When
// the insert loses a race on the pending index the winner's row is returned.
func (s *InviteService) pendingOrCreate(ctx context.Context, tenantID, creatorUserID, email string, role domain.Role) (domain.Invite, bool, error) {
	for range createAttempts {
		now := s.now()

		existing, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.Invite, error) {
			return s.Store.Invites().GetPendingInvite(ctx, tenantID, email)
		})
		switch {
		case err == nil && !existing.ExpiredAt(now):
			return existing, true, nil
		case err == nil:
			err := retryStore(ctx, s.Retry, func(ctx context.Context) error {
				return s.Store.Invites().MarkExpired(ctx, existing.ID, now)
			})
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return domain.Invite{}, false, err
			}
		case !errors.Is(err, store.ErrNotFound):
			return domain.Invite{}, false, err
		}

		token, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return domain.Invite{}, false, fmt.Errorf("generate invite token: %w", err)
		}

		inv := domain.Invite{
			ID:              idx.New().String(),
			TenantID:        tenantID,
			CreatedByUserID: creatorUserID,
			Email:           email,
			Role:            role,
			Token:           token,
			Status:          domain.InvitePending,
			ExpiresAt:       now.Add(s.inviteTTL()),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		err = retryStore(ctx, s.Retry, func(ctx context.Context) error {
			return s.Store.Invites().CreateInvite(ctx, inv)
		})
		if err == nil {
			return inv, false, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.Invite{}, false, err
		}
	}
	return domain.Invite{}, false, fmt.Errorf("%w: pending invite kept changing", ErrUnavailable)
}

// AcceptInvite redeems token for acceptingUserID. The membership upsert and
// the move to ACCEPTED commit together, so a token is redeemed at most once.
func (s *InviteService) AcceptInvite(ctx context.Context, token, acceptingUserID string) (AcceptResult, error) {
	l := slogx.FromContext(ctx)

	inv, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.Invite, error) {
		return s.Store.Invites().GetInviteByToken(ctx, token)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AcceptResult{}, ErrInviteNotFound
		}
		return AcceptResult{}, err
	}

	if inv.Status != domain.InvitePending {
		return AcceptResult{}, ErrInviteNotPending
	}

	now := s.now()
	if inv.ExpiredAt(now) {
		err := retryStore(ctx, s.Retry, func(ctx context.Context) error {
			return s.Store.Invites().MarkExpired(ctx, inv.ID, now)
		})
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			l.Warn("failed to mark invite expired", slog.String("invite_id", inv.ID), slog.Any("error", err))
		}
		return AcceptResult{}, ErrInviteExpired
	}

	user, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.User, error) {
		return s.Store.Users().GetUserByID(ctx, acceptingUserID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AcceptResult{}, ErrUserNotFound
		}
		return AcceptResult{}, err
	}

	if !strings.EqualFold(user.Email, inv.Email) {
		return AcceptResult{}, ErrInviteEmailMismatch
	}

	err = retryStore(ctx, s.Retry, func(ctx context.Context) error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			err := tx.Memberships().UpsertMembership(ctx, domain.Membership{
				TenantID:  inv.TenantID,
				UserID:    user.ID,
				Role:      inv.Role,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}

			if err := tx.Invites().MarkAccepted(ctx, inv.ID, now); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrInviteNotPending
				}
				return err
			}
			return nil
		})
	})
	if err != nil {
		return AcceptResult{}, err
	}

	metrics.InvitesTotal.WithLabelValues("accepted").Inc()

	recordAudit(ctx, s.Audit, domain.AuditEvent{
		TenantID:     inv.TenantID,
		ActorUserID:  user.ID,
		Action:       domain.AuditInviteAccepted,
		ResourceType: "invite",
		ResourceID:   inv.ID,
		Metadata:     map[string]any{"role": string(inv.Role)},
	})

	l.Info("invite accepted",
		slog.String("invite_id", inv.ID),
		slog.String("tenant_id", inv.TenantID),
		slog.String("user_id", user.ID),
	)
	return AcceptResult{TenantID: inv.TenantID, Role: inv.Role}, nil
}

func (s *InviteService) inviteTTL() time.Duration {
	if s.InviteTTL <= 0 {
		return DefaultInviteTTL
	}
	return s.InviteTTL
}

func (s *InviteService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
