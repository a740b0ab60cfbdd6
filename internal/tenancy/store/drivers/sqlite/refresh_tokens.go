package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (jti, token_hash, user_id, expires_at, revoked_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.JTI, t.TokenHash, t.UserID, formatTime(t.ExpiresAt), formatOptionalTime(t.RevokedAt), formatTime(t.CreatedAt),
	)
	return mapErr(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByJTI(ctx context.Context, jti string) (domain.RefreshToken, error) {
	var (
		t                    domain.RefreshToken
		expiresAt, createdAt string
		revokedAt            sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT jti, token_hash, user_id, expires_at, revoked_at, created_at
		 FROM refresh_tokens WHERE jti = ?`,
		jti,
	).Scan(&t.JTI, &t.TokenHash, &t.UserID, &expiresAt, &revokedAt, &createdAt)
	if err != nil {
		return domain.RefreshToken{}, mapErr(err)
	}

	if t.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return domain.RefreshToken{}, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.RefreshToken{}, err
	}
	if t.RevokedAt, err = parseNullTime(revokedAt); err != nil {
		return domain.RefreshToken{}, err
	}
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, jti string, at time.Time) error {
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE jti = ? AND revoked_at IS NULL`,
		formatTime(at), jti,
	))
}

func (r *refreshTokensRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		formatTime(at), userID,
	))
}

func (r *refreshTokensRepo) RevokeExpired(ctx context.Context, now time.Time) (int64, error) {
	ts := formatTime(now)
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE revoked_at IS NULL AND expires_at <= ?`,
		ts, ts,
	))
}

func (r *refreshTokensRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`,
		formatTime(cutoff),
	))
}
