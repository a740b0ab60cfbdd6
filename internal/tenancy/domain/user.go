package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string // lower-cased and trimmed
	PasswordHash string // argon2id PHC string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail is the canonical form used for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
