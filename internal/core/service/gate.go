package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// Gate resolves the bearer token of a request into an identity. It reads
// the store but never writes; the decision depends only on the token, the
// current identity record and the current time.
type Gate struct {
	tokens     ports.TokenService
	identities ports.IdentityFinder
	log        zerolog.Logger
}

func NewGate(tokens ports.TokenService, identities ports.IdentityFinder, log zerolog.Logger) *Gate {
	return &Gate{tokens: tokens, identities: identities, log: log}
}

// ExtractBearer returns the token of an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ExtractBearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate runs the four Gate checks in order: header present, token
// verifies, identity still exists, password unchanged since issuance.
// Every rejection is a *domain.UnauthenticatedError.
func (g *Gate) Authenticate(ctx context.Context, authorizationHeader string) (*domain.Identity, error) {
	raw, ok := ExtractBearer(authorizationHeader)
	if !ok {
		return nil, g.reject(domain.FailureMissingToken, nil, nil)
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		g.log.Debug().Err(err).Msg("token verification failed")
		return nil, g.reject(domain.FailureInvalidToken, nil, nil)
	}

	identity, err := g.identities.FindByID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, g.reject(domain.FailureIdentityGone, claims, nil)
		}
		return nil, err
	}

	if identity.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, g.reject(domain.FailurePasswordChanged, claims, identity)
	}

	g.log.Debug().
		Str("user_id", identity.ID).
		Str("jti", claims.TokenID).
		Msg("request authenticated")
	return identity, nil
}

// reject logs the precise reason internally. The raw token never reaches
// the log; the jti identifies it instead.
func (g *Gate) reject(f domain.AuthFailure, claims *domain.TokenClaims, identity *domain.Identity) error {
	ev := g.log.Info().Str("reason", f.String())
	if claims != nil {
		ev = ev.Str("jti", claims.TokenID).Str("user_id", claims.IdentityID)
	}
	if identity != nil && identity.PasswordChangedAt != nil {
		ev = ev.Time("password_changed_at", *identity.PasswordChangedAt)
	}
	ev.Msg("request not authenticated")
	return domain.NewUnauthenticated(f)
}
