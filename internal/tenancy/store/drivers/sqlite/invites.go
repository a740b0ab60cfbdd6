package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
)

type invitesRepo struct {
	db dbtx
}

const inviteColumns = `id, tenant_id, created_by_user_id, email, role, token, status,
	expires_at, accepted_at, created_at, updated_at`

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	status := inv.Status
	if status == "" {
		status = domain.InvitePending
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invites (`+inviteColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TenantID, inv.CreatedByUserID, inv.Email, string(inv.Role), inv.Token, string(status),
		formatTime(inv.ExpiresAt), formatOptionalTime(inv.AcceptedAt), formatTime(inv.CreatedAt), formatTime(inv.UpdatedAt),
	)
	return mapErr(err)
}

func (r *invitesRepo) GetInviteByToken(ctx context.Context, token string) (domain.Invite, error) {
	return scanInvite(r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token = ?`, token))
}

func (r *invitesRepo) GetPendingInvite(ctx context.Context, tenantID, email string) (domain.Invite, error) {
	return scanInvite(r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE tenant_id = ? AND email = ? AND status = 'PENDING'`,
		tenantID, email))
}

func (r *invitesRepo) MarkAccepted(ctx context.Context, id string, at time.Time) error {
	ts := formatTime(at)
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE invites SET status = 'ACCEPTED', accepted_at = ?, updated_at = ?
		 WHERE id = ? AND status = 'PENDING'`,
		ts, ts, id,
	))
}

func (r *invitesRepo) MarkExpired(ctx context.Context, id string, at time.Time) error {
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE invites SET status = 'EXPIRED', updated_at = ?
		 WHERE id = ? AND status = 'PENDING'`,
		formatTime(at), id,
	))
}

func (r *invitesRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	ts := formatTime(now)
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE invites SET status = 'EXPIRED', updated_at = ?
		 WHERE status = 'PENDING' AND expires_at <= ?`,
		ts, ts,
	))
}

func scanInvite(row scanner) (domain.Invite, error) {
	var (
		inv                             domain.Invite
		role, status                    string
		expiresAt, createdAt, updatedAt string
		acceptedAt                      sql.NullString
	)
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.CreatedByUserID, &inv.Email, &role, &inv.Token, &status,
		&expiresAt, &acceptedAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.Invite{}, mapErr(err)
	}
	inv.Role = domain.Role(role)
	inv.Status = domain.InviteStatus(status)

	if inv.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return domain.Invite{}, err
	}
	if inv.AcceptedAt, err = parseNullTime(acceptedAt); err != nil {
		return domain.Invite{}, err
	}
	if inv.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Invite{}, err
	}
	if inv.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Invite{}, err
	}
	return inv, nil
}
