package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
)

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) GetMembership(ctx context.Context, tenantID, userID string) (domain.Membership, error) {
	var (
		m                    domain.Membership
		role                 string
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id, user_id, role, created_at, updated_at
		 FROM memberships WHERE tenant_id = ? AND user_id = ?`,
		tenantID, userID,
	).Scan(&m.TenantID, &m.UserID, &role, &createdAt, &updatedAt)
	if err != nil {
		return domain.Membership{}, mapErr(err)
	}
	m.Role = domain.Role(role)

	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Membership{}, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Membership{}, err
	}
	return m, nil
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (tenant_id, user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.TenantID, m.UserID, string(m.Role), formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	return mapErr(err)
}

// UpsertMembership keeps the original joined-at on conflict.
func (r *membershipsRepo) UpsertMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (tenant_id, user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (tenant_id, user_id) DO UPDATE SET
		     role = excluded.role,
		     updated_at = excluded.updated_at`,
		m.TenantID, m.UserID, string(m.Role), formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	return mapErr(err)
}

func (r *membershipsRepo) ListMembers(ctx context.Context, tenantID string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.user_id, u.email, u.name, m.role, m.created_at
		 FROM memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.tenant_id = ?
		 ORDER BY CASE m.role WHEN 'OWNER' THEN 0 WHEN 'ADMIN' THEN 1 ELSE 2 END,
		          m.created_at ASC`,
		tenantID,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var (
			mem      domain.Member
			role     string
			joinedAt string
		)
		if err := rows.Scan(&mem.UserID, &mem.Email, &mem.Name, &role, &joinedAt); err != nil {
			return nil, mapErr(err)
		}
		mem.Role = domain.Role(role)
		if mem.JoinedAt, err = parseTime(joinedAt); err != nil {
			return nil, err
		}
		out = append(out, mem)
	}
	return out, mapErr(rows.Err())
}

func (r *membershipsRepo) IsMemberByEmail(ctx context.Context, tenantID, email string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.tenant_id = ? AND u.email = ?`,
		tenantID, email,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapErr(err)
	}
	return true, nil
}
