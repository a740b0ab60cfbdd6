package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/validator"
)

const (
	minSlugLen = 3
	maxSlugLen = 64
)

type TenantService struct {
	Store store.Store
	Audit AuditRecorder
	Retry RetryPolicy
	Clock func() time.Time
}

// CreateTenant creates a tenant owned by userID.
func (s *TenantService) CreateTenant(ctx context.Context, userID, name, slug string) (domain.Tenant, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	if name == "" {
		return domain.Tenant{}, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if len(slug) < minSlugLen || len(slug) > maxSlugLen || !validator.ValidSlug(slug) {
		return domain.Tenant{}, ErrInvalidSlug
	}

	now := s.now()
	t := domain.Tenant{
		ID:        idx.New().String(),
		Name:      name,
		Slug:      slug,
		Status:    domain.TenantActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := retryStore(ctx, s.Retry, func(ctx context.Context) error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Tenants().CreateTenant(ctx, t); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return ErrSlugTaken
				}
				return err
			}
			return tx.Memberships().CreateMembership(ctx, domain.Membership{
				TenantID:  t.ID,
				UserID:    userID,
				Role:      domain.RoleOwner,
				CreatedAt: now,
				UpdatedAt: now,
			})
		})
	})
	if err != nil {
		return domain.Tenant{}, err
	}

	recordAudit(ctx, s.Audit, domain.AuditEvent{
		TenantID:     t.ID,
		ActorUserID:  userID,
		Action:       domain.AuditTenantCreated,
		ResourceType: "tenant",
		ResourceID:   t.ID,
		Metadata:     map[string]any{"slug": t.Slug},
	})

	slogx.FromContext(ctx).Info("tenant created",
		slog.String("tenant_id", t.ID),
		slog.String("slug", t.Slug),
	)
	return t, nil
}

// ListMyTenants returns the caller's tenants with their role, newest first.
func (s *TenantService) ListMyTenants(ctx context.Context, userID string) ([]domain.TenantMembership, error) {
	return retryStoreValue(ctx, s.Retry, func(ctx context.Context) ([]domain.TenantMembership, error) {
		return s.Store.Tenants().ListTenantsForUser(ctx, userID)
	})
}

// GetTenant loads a tenant. Membership is checked by the caller.
func (s *TenantService) GetTenant(ctx context.Context, tenantID string) (domain.Tenant, error) {
	t, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.Tenant, error) {
		return s.Store.Tenants().GetTenantByID(ctx, tenantID)
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Tenant{}, ErrTenantNotFound
	}
	return t, err
}

// ListMembers returns members ordered OWNER, ADMIN, MEMBER, then by join time.
func (s *TenantService) ListMembers(ctx context.Context, tenantID string) ([]domain.Member, error) {
	return retryStoreValue(ctx, s.Retry, func(ctx context.Context) ([]domain.Member, error) {
		return s.Store.Memberships().ListMembers(ctx, tenantID)
	})
}

func (s *TenantService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
