package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
)

type auditLogsRepo struct {
	db dbtx
}

func (r *auditLogsRepo) CreateAuditLog(ctx context.Context, e domain.AuditEvent) error {
	meta := []byte("{}")
	if len(e.Metadata) > 0 {
		var err error
		if meta, err = json.Marshal(e.Metadata); err != nil {
			return fmt.Errorf("audit metadata: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, tenant_id, actor_user_id, action, resource_type, resource_id,
		                         request_id, ip, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TenantID, mapStringNull(e.ActorUserID), e.Action, e.ResourceType, mapStringNull(e.ResourceID),
		mapStringNull(e.RequestID), mapStringNull(e.IP), string(meta), formatTime(e.CreatedAt),
	)
	return mapErr(err)
}

func (r *auditLogsRepo) ListAuditLogs(ctx context.Context, tenantID string, limit, offset int) ([]domain.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tenant_id, actor_user_id, action, resource_type, resource_id,
		        request_id, ip, metadata, created_at
		 FROM audit_logs
		 WHERE tenant_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		tenantID, limit, offset,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		var (
			e                                domain.AuditEvent
			actor, resourceID, requestID, ip sql.NullString
			meta, createdAt                  string
		)
		if err := rows.Scan(&e.ID, &e.TenantID, &actor, &e.Action, &e.ResourceType, &resourceID,
			&requestID, &ip, &meta, &createdAt); err != nil {
			return nil, mapErr(err)
		}
		e.ActorUserID = mapNullString(actor)
		e.ResourceID = mapNullString(resourceID)
		e.RequestID = mapNullString(requestID)
		e.IP = mapNullString(ip)
		if meta != "" && meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
				return nil, fmt.Errorf("audit %s metadata: %w", e.ID, err)
			}
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, mapErr(rows.Err())
}

func (r *auditLogsRepo) CountAuditLogs(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE tenant_id = ?`, tenantID).Scan(&n)
	return n, mapErr(err)
}
