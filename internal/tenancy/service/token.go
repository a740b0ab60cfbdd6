package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/google/uuid"
)

// TokenType is the token_type returned with every pair.
const TokenType = "Bearer"

// TokenService issues, rotates and revokes session credentials.
//
// Access and refresh tokens are signed with independent keys. Only refresh
// tokens are stored, as a fingerprint keyed by jti, so a refresh token can be
// rotated once and a replayed or forged one is caught.
type TokenService struct {
	Store         store.Store
	AccessSigner  *jwtx.HMAC
	RefreshSigner *jwtx.HMAC
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Retry         RetryPolicy
	Clock         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// Register creates a user and signs them in.
func (s *TokenService) Register(ctx context.Context, email, password, name string) (domain.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.AuthResult{}, fmt.Errorf("%w: email and password are required", ErrBadRequest)
	}

	_, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.User, error) {
		return s.Store.Users().GetUserByEmail(ctx, email)
	})
	switch {
	case err == nil:
		return domain.AuthResult{}, ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return domain.AuthResult{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var pair domain.TokenPair
	err = retryStore(ctx, s.Retry, func(ctx context.Context) error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return ErrEmailTaken
				}
				return err
			}

			var err error
			pair, err = s.issueTokens(ctx, tx.RefreshTokens(), user)
			return err
		})
	})
	if err != nil {
		return domain.AuthResult{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues("register").Inc()
	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", user.ID))

	return domain.AuthResult{User: user, Tokens: pair}, nil
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller, and both paths run the password hash.
func (s *TokenService) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	l := slogx.FromContext(ctx)
	email = domain.NormalizeEmail(email)

	user, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.User, error) {
		return s.Store.Users().GetUserByEmail(ctx, email)
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return domain.AuthResult{}, err
		}
		_ = cryptox.VerifyPassword(password, s.dummy())
		metrics.LoginFailuresTotal.Inc()
		return domain.AuthResult{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", slog.String("user_id", user.ID), slog.Any("error", err))
		}
		metrics.LoginFailuresTotal.Inc()
		return domain.AuthResult{}, ErrInvalidCredentials
	}

	pair, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.TokenPair, error) {
		return s.issueTokens(ctx, s.Store.RefreshTokens(), user)
	})
	if err != nil {
		return domain.AuthResult{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()
	return domain.AuthResult{User: user, Tokens: pair}, nil
}

// issueTokens signs a new pair and stores the refresh fingerprint through
// repo, which may be bound to a transaction.
func (s *TokenService) issueTokens(ctx context.Context, repo store.RefreshTokens, user domain.User) (domain.TokenPair, error) {
	now := s.now()
	accessTTL, refreshTTL := s.accessTTL(), s.refreshTTL()
	jti := uuid.NewString()

	access, err := s.AccessSigner.Sign(jwtx.NewAccessClaims(user.ID, user.Email, s.AccessSigner.Issuer(), accessTTL, now))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.RefreshSigner.Sign(jwtx.NewRefreshClaims(user.ID, user.Email, jti, s.RefreshSigner.Issuer(), refreshTTL, now))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	rec := domain.RefreshToken{
		JTI:       jti,
		TokenHash: cryptox.FingerprintToken(refresh),
		UserID:    user.ID,
		ExpiresAt: now.Add(refreshTTL),
		CreatedAt: now,
	}
	if err := repo.CreateRefreshToken(ctx, rec); err != nil {
		return domain.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenType,
		ExpiresIn:    int64(accessTTL / time.Second),
	}, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued in the same transaction. A token whose stored fingerprint
// does not match is treated as stolen and its record revoked.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.RefreshSigner.VerifyType(refreshToken, jwtx.TypeRefresh)
	if err != nil || claims.Subject == "" || claims.ID == "" {
		metrics.RefreshFailuresTotal.WithLabelValues("invalid").Inc()
		return domain.TokenPair{}, ErrInvalidRefreshToken
	}

	rec, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.RefreshToken, error) {
		return s.Store.RefreshTokens().GetRefreshTokenByJTI(ctx, claims.ID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RefreshFailuresTotal.WithLabelValues("unknown").Inc()
			return domain.TokenPair{}, ErrRefreshTokenRevoked
		}
		return domain.TokenPair{}, err
	}
	if rec.UserID != claims.Subject || rec.Revoked() {
		metrics.RefreshFailuresTotal.WithLabelValues("revoked").Inc()
		return domain.TokenPair{}, ErrRefreshTokenRevoked
	}

	now := s.now()
	if rec.ExpiredAt(now) {
		s.revokeBestEffort(ctx, rec.JTI, now)
		metrics.RefreshFailuresTotal.WithLabelValues("expired").Inc()
		return domain.TokenPair{}, ErrRefreshTokenExpired
	}

	if !cryptox.MatchFingerprint(refreshToken, rec.TokenHash) {
		l.Warn("refresh token reuse detected",
			slog.String("user_id", rec.UserID),
			slog.String("jti", rec.JTI),
		)
		s.revokeBestEffort(ctx, rec.JTI, now)
		metrics.RefreshFailuresTotal.WithLabelValues("reuse").Inc()
		return domain.TokenPair{}, ErrRefreshTokenReuse
	}

	var pair domain.TokenPair
	err = retryStore(ctx, s.Retry, func(ctx context.Context) error {
		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.RefreshTokens().RevokeRefreshToken(ctx, rec.JTI, now); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrRefreshTokenRevoked
				}
				return err
			}

			user, err := tx.Users().GetUserByID(ctx, rec.UserID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrRefreshTokenRevoked
				}
				return err
			}

			pair, err = s.issueTokens(ctx, tx.RefreshTokens(), user)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, ErrRefreshTokenRevoked) {
			metrics.RefreshFailuresTotal.WithLabelValues("race").Inc()
		}
		return domain.TokenPair{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	return pair, nil
}

// revokeBestEffort revokes a record on a rejection path. Failure is logged
// and never replaces the rejection.
func (s *TokenService) revokeBestEffort(ctx context.Context, jti string, at time.Time) {
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, jti, at)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("best-effort refresh revoke failed",
			slog.String("jti", jti),
			slog.Any("error", err),
		)
	}
}

// LogoutOne revokes the session behind a refresh token. Invalid, unknown and
// already revoked tokens are not errors.
func (s *TokenService) LogoutOne(ctx context.Context, refreshToken string) error {
	claims, err := s.RefreshSigner.VerifyType(refreshToken, jwtx.TypeRefresh)
	if err != nil || claims.ID == "" {
		return nil
	}

	err = retryStore(ctx, s.Retry, func(ctx context.Context) error {
		return s.Store.RefreshTokens().RevokeRefreshToken(ctx, claims.ID, s.now())
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// LogoutAll revokes every active session of the user and reports how many
// were revoked.
func (s *TokenService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	n, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (int64, error) {
		return s.Store.RefreshTokens().RevokeAllForUser(ctx, userID, s.now())
	})
	if err != nil {
		return 0, err
	}

	slogx.FromContext(ctx).Info("all sessions revoked",
		slog.String("user_id", userID),
		slog.Int64("count", n),
	)
	return n, nil
}

// VerifyAccess validates a bearer access token.
func (s *TokenService) VerifyAccess(token string) (jwtx.Claims, error) {
	claims, err := s.AccessSigner.VerifyType(token, jwtx.TypeAccess)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}
	return claims, nil
}

// AccessVerifier adapts VerifyAccess to jwtx.Verifier for the bearer middleware.
func (s *TokenService) AccessVerifier() jwtx.Verifier { return accessVerifier{s} }

type accessVerifier struct{ s *TokenService }

func (v accessVerifier) Verify(token string) (jwtx.Claims, error) { return v.s.VerifyAccess(token) }

// Me returns the authenticated user's profile.
func (s *TokenService) Me(ctx context.Context, userID string) (domain.User, error) {
	u, err := retryStoreValue(ctx, s.Retry, func(ctx context.Context) (domain.User, error) {
		return s.Store.Users().GetUserByID(ctx, userID)
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

func (s *TokenService) dummy() string {
	s.dummyOnce.Do(func() {
		// Failure leaves an unparsable hash, which still fails verification.
		s.dummyHash, _ = cryptox.HashPassword("tenancy-timing-equalizer")
	})
	return s.dummyHash
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

func (s *TokenService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
