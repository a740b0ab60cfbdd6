package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
)

// previewLen is how much of a secret may appear in diagnostics.
const previewLen = 12

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, base64url-encoded without padding. Invite tokens use
// TokenSize256.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token
// (43 chars base64url). Refresh tokens are stored only as fingerprints.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// MatchFingerprint reports, in constant time, whether token hashes to fp.
func MatchFingerprint(token, fp string) bool {
	return subtle.ConstantTimeCompare([]byte(FingerprintToken(token)), []byte(fp)) == 1
}

// Preview returns a short non-reversible prefix of a secret for logs.
func Preview(secret string) string {
	if len(secret) <= previewLen {
		return "..."
	}
	return secret[:previewLen] + "..."
}
