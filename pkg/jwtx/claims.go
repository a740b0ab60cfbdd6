package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Both are overridable per service.
const (
	// DefaultAccessTokenTTL keeps bearer tokens short-lived; revocation only
	// reaches refresh tokens, so this bounds how long a leaked one is useful.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the session lifetime between logins.
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour
)

// Token type tags carried in the "typ" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims are the claims embedded in both token kinds. Access tokens carry
// identity only; refresh tokens additionally carry the jti (RegisteredClaims.ID)
// that anchors the stored refresh record.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the subject at issue time.
	Email string `json:"email,omitempty"`

	// Type is TypeAccess or TypeRefresh.
	Type string `json:"typ"`
}

// NewAccessClaims builds access-token claims. There is deliberately no jti.
func NewAccessClaims(subject, email, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Type:  TypeAccess,
	}
}

// NewRefreshClaims builds refresh-token claims around a session id.
func NewRefreshClaims(subject, email, jti, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Type:  TypeRefresh,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateType checks the typ tag.
func (c *Claims) ValidateType(expected string) error {
	if c.Type != expected {
		return ErrWrongType
	}
	return nil
}

// ValidateExpiryAt ensures the token is inside its [nbf, exp] window at now.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
