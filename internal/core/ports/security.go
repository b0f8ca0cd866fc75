package ports

import (
	"context"

	"github.com/natours/booking-api/internal/core/domain"
)

// PasswordHasher produces and checks one-way salted digests. Both calls may
// block waiting for hashing capacity and give up when ctx is done.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify returns false, nil for a wrong password and an error only when
	// the digest itself is unusable.
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}

// TokenService mints and verifies signed bearer tokens.
type TokenService interface {
	Issue(identityID string) (string, error)
	// Verify fails with an error wrapping domain.ErrInvalidToken for any
	// malformed, tampered or expired token.
	Verify(token string) (*domain.TokenClaims, error)
}

// RateLimiter counts requests per key within a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
