package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/natours/booking-api/internal/core/domain"
)

// DefaultLifetime matches the 90 day expiry of issued tokens.
const DefaultLifetime = 90 * 24 * time.Hour

// claims is the signed payload: the identity id under "id" plus the
// registered iat, exp and jti claims.
type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// JWTService issues and verifies HS256 bearer tokens with a single
// server-held secret.
type JWTService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option customises a JWTService.
type Option func(*JWTService)

// WithClock replaces time.Now, for tests that need to land on expiry
// boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

func NewJWTService(secret string, lifetime time.Duration, opts ...Option) *JWTService {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	s := &JWTService{secret: []byte(secret), lifetime: lifetime, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token binding identityID, valid for the configured lifetime.
func (s *JWTService) Issue(identityID string) (string, error) {
	if identityID == "" {
		return "", errors.New("issue token: empty identity id")
	}
	now := s.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			ID:        uuid.NewString(),
		},
		UserID: identityID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. A token is expired from
// the instant now reaches its exp claim.
func (s *JWTService) Verify(tokenString string) (*domain.TokenClaims, error) {
	var c claims
	tkn, err := jwt.ParseWithClaims(tokenString, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid || c.UserID == "" || c.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing claims", domain.ErrInvalidToken)
	}

	return &domain.TokenClaims{
		IdentityID: c.UserID,
		TokenID:    c.ID,
		IssuedAt:   c.IssuedAt.Time,
		ExpiresAt:  c.ExpiresAt.Time,
	}, nil
}
