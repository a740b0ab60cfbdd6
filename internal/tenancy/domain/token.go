package domain

import "time"

// TokenPair is what register, login and refresh hand back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}

// AuthResult is a token pair plus the user it was issued to.
type AuthResult struct {
	User   User
	Tokens TokenPair
}

// RefreshToken models the stored refresh token record. RevokedAt only ever
// moves from nil to a timestamp.
type RefreshToken struct {
	JTI       string
	TokenHash string // base64url SHA-256 of the full refresh JWT
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (t RefreshToken) Revoked() bool { return t.RevokedAt != nil }

func (t RefreshToken) ExpiredAt(now time.Time) bool { return !now.Before(t.ExpiresAt) }
