package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns on purpose wraps exactly one of
// these, so transports can branch with errors.Is without knowing the
// specific failure.
var (
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")

	// ErrUnavailable means a dependency kept failing transiently. The
	// caller may retry the whole operation.
	ErrUnavailable = errors.New("temporarily unavailable")
)

// Auth
var (
	ErrEmailTaken          = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", ErrUnauthenticated)
	ErrInvalidAccessToken  = fmt.Errorf("%w: invalid access token", ErrUnauthenticated)
	ErrRefreshTokenRevoked = fmt.Errorf("%w: refresh token revoked", ErrForbidden)
	ErrRefreshTokenExpired = fmt.Errorf("%w: refresh token expired", ErrForbidden)
	ErrRefreshTokenReuse   = fmt.Errorf("%w: refresh token reuse detected", ErrForbidden)
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrNotFound)
)

// Membership
var (
	ErrNotTenantMember  = fmt.Errorf("%w: not a member of this tenant", ErrForbidden)
	ErrInsufficientRole = fmt.Errorf("%w: insufficient role", ErrForbidden)
	ErrInvalidRole      = fmt.Errorf("%w: unknown role", ErrBadRequest)
)

// Tenants
var (
	ErrSlugTaken      = fmt.Errorf("%w: tenant slug already taken", ErrConflict)
	ErrInvalidSlug    = fmt.Errorf("%w: invalid tenant slug", ErrBadRequest)
	ErrTenantNotFound = fmt.Errorf("%w: tenant not found", ErrNotFound)
)

// Invites
var (
	ErrAlreadyMember       = fmt.Errorf("%w: user is already a member", ErrBadRequest)
	ErrInviteNotFound      = fmt.Errorf("%w: invite not found", ErrNotFound)
	ErrInviteNotPending    = fmt.Errorf("%w: invite is no longer pending", ErrBadRequest)
	ErrInviteExpired       = fmt.Errorf("%w: invite expired", ErrBadRequest)
	ErrInviteEmailMismatch = fmt.Errorf("%w: invite was issued to a different email", ErrForbidden)
)
