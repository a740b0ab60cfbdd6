package domain

import "time"

// Audit actions.
const (
	AuditTenantCreated  = "tenant.created"
	AuditInviteCreated  = "invite.created"
	AuditInviteAccepted = "invite.accepted"
)

type AuditEvent struct {
	ID           string
	TenantID     string
	ActorUserID  string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	IP           string
	Metadata     map[string]any
	CreatedAt    time.Time
}

type AuditPage struct {
	Items    []AuditEvent
	Page     int
	PageSize int
	Total    int
}
