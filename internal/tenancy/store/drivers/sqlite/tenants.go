package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
)

type tenantsRepo struct {
	db dbtx
}

const tenantColumns = `t.id, t.name, t.slug, t.status, t.created_at, t.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	status := t.Status
	if status == "" {
		status = domain.TenantActive
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenants (id, name, slug, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Slug, string(status), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	return mapErr(err)
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	return scanTenant(r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.id = ?`, id))
}

func (r *tenantsRepo) GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	return scanTenant(r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.slug = ?`, slug))
}

func (r *tenantsRepo) ListTenantsForUser(ctx context.Context, userID string) ([]domain.TenantMembership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tenantColumns+`, m.role
		 FROM tenants t
		 JOIN memberships m ON m.tenant_id = t.id
		 WHERE m.user_id = ?
		 ORDER BY t.created_at DESC, t.id DESC`,
		userID,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.TenantMembership
	for rows.Next() {
		var (
			tm   domain.TenantMembership
			role string
		)
		t, err := scanTenantInto(rows, &role)
		if err != nil {
			return nil, err
		}
		tm.Tenant = t
		tm.Role = domain.Role(role)
		out = append(out, tm)
	}
	return out, mapErr(rows.Err())
}

func scanTenant(row scanner) (domain.Tenant, error) {
	return scanTenantInto(row)
}

// scanTenantInto scans the tenant columns followed by any extra destinations.
func scanTenantInto(row scanner, extra ...any) (domain.Tenant, error) {
	var (
		t                    domain.Tenant
		status               string
		createdAt, updatedAt string
	)
	dest := append([]any{&t.ID, &t.Name, &t.Slug, &status, &createdAt, &updatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Tenant{}, mapErr(err)
	}
	t.Status = domain.TenantStatus(status)

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Tenant{}, fmt.Errorf("tenant %s: %w", t.ID, err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Tenant{}, fmt.Errorf("tenant %s: %w", t.ID, err)
	}
	return t, nil
}
