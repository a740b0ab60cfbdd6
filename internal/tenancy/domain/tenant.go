package domain

import "time"

type TenantStatus string

const TenantActive TenantStatus = "ACTIVE"

type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Status    TenantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantMembership is a tenant seen from one member's point of view.
type TenantMembership struct {
	Tenant Tenant
	Role   Role
}
