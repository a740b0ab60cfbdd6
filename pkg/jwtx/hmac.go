package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret we accept (256 bits).
const MinSecretLength = 32

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrWeakSecret   = errors.New("jwtx: secret too short")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrWrongType    = errors.New("jwtx: wrong token type")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// HMAC signs and verifies HS256 tokens with a single shared secret. Access
// and refresh tokens each get their own instance so that one secret leaking
// does not let an attacker mint the other kind.
type HMAC struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewHMAC creates an HS256 signer/verifier. An empty issuer disables the
// issuer check on verify.
func NewHMAC(secret []byte, issuer string) (*HMAC, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(secret))
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &HMAC{secret: key, issuer: issuer, now: time.Now}, nil
}

// WithClock returns a copy that reads time from now. Tests use it to move
// tokens past their expiry without sleeping.
func (h *HMAC) WithClock(now func() time.Time) *HMAC {
	cp := *h
	cp.now = now
	return &cp
}

// Issuer returns the issuer stamped into signed claims.
func (h *HMAC) Issuer() string { return h.issuer }

// Sign turns claims into a compact HS256 JWT.
func (h *HMAC) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

// Verify checks signature, algorithm, expiry and issuer and returns the claims.
func (h *HMAC) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(h.now),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing sub", ErrInvalidClaim)
	}

	return *claims, nil
}

// VerifyType is Verify plus a typ check.
func (h *HMAC) VerifyType(tokenStr, typ string) (Claims, error) {
	claims, err := h.Verify(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateType(typ); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", ErrNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
