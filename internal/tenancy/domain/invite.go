package domain

import "time"

type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteAccepted InviteStatus = "ACCEPTED"
	InviteExpired  InviteStatus = "EXPIRED"
)

// Invite is an offer to join a tenant. Status only moves out of PENDING,
// and at most one PENDING invite exists per (TenantID, Email).
type Invite struct {
	ID              string
	TenantID        string
	CreatedByUserID string
	Email           string // normalized
	Role            Role
	Token           string
	Status          InviteStatus
	ExpiresAt       time.Time
	AcceptedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (i Invite) ExpiredAt(now time.Time) bool { return !now.Before(i.ExpiresAt) }
