package domain

import "time"

// Role is a tenant-scoped role. Higher rank implies every lower one.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// AllRoles lists roles from highest to lowest rank.
func AllRoles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleMember}
}

// Rank orders roles. Unknown roles rank 0, below every real role.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool { return r.Rank() > 0 }

// Membership links a user to a tenant. (TenantID, UserID) is unique.
type Membership struct {
	TenantID  string
	UserID    string
	Role      Role
	CreatedAt time.Time // joined at
	UpdatedAt time.Time
}

// Member is a membership joined with the user's profile.
type Member struct {
	UserID   string
	Email    string
	Name     string
	Role     Role
	JoinedAt time.Time
}
