package tenancysdk

import "time"

// ============================================================================
// Auth Types
// ============================================================================

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=100" example:"Alice"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest revokes one refresh token when RefreshToken is set.
// Otherwise every session of the bearer is revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LogoutResponse reports how many sessions were revoked by a logout-all.
type LogoutResponse struct {
	OK      bool  `json:"ok"`
	Revoked int64 `json:"revoked,omitempty"`
}

// TokenResponse is a bearer token pair.
type TokenResponse struct {
	// AccessToken is the short-lived JWT sent as "Authorization: Bearer".
	AccessToken string `json:"access_token"`

	// RefreshToken is single use. Every refresh returns a new one.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User UserResponse `json:"user"`
	TokenResponse
}

// ============================================================================
// Tenant Types
// ============================================================================

// CreateTenantRequest creates a tenant owned by the caller.
type CreateTenantRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100" example:"Acme"`
	Slug string `json:"slug" validate:"required,min=3,max=64,slug" example:"acme"`
}

// TenantResponse describes a tenant. Role is the caller's role where known.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Role      string    `json:"role,omitempty"`
}

// ListTenantsResponse lists the caller's tenants, newest first.
type ListTenantsResponse struct {
	Tenants []TenantResponse `json:"tenants"`
}

// MemberResponse is a tenant member joined with their profile.
type MemberResponse struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ListMembersResponse lists members by role rank, then join time.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ============================================================================
// Invite Types
// ============================================================================

// CreateInviteRequest invites an email address into a tenant.
// Role defaults to MEMBER.
type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email,max=254" example:"bob@example.com"`
	Role  string `json:"role,omitempty" validate:"omitempty,role" example:"MEMBER"`
}

// InviteResponse describes a pending invite. Token is only populated when
// the server runs with invite token exposure enabled (development).
type InviteResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token,omitempty"`
}

// AcceptInviteRequest redeems an invite token for the caller.
type AcceptInviteRequest struct {
	Token string `json:"token" validate:"required,min=20"`
}

// AcceptInviteResponse names the tenant the caller joined.
type AcceptInviteResponse struct {
	OK       bool   `json:"ok"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// ============================================================================
// Audit Types
// ============================================================================

// AuditLogResponse is one audit record.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	ActorUserID  string         `json:"actor_user_id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	IP           string         `json:"ip,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditPageResponse is one page of audit records, newest first.
type AuditPageResponse struct {
	Items    []AuditLogResponse `json:"items"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Total    int                `json:"total"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status is "ok" or "degraded".
	Status string `json:"status"`

	// Uptime is the service uptime (e.g. "1h23m45s").
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`

	// Redis is omitted when the service runs without Redis.
	Redis string `json:"redis,omitempty"`
}
