package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown email, so both failure paths pay the same hashing cost.
const dummyPassword = "natours-timing-equaliser"

// AuthService implements signup, login and password update on top of the
// credential store, hasher and token service.
type AuthService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    zerolog.Logger

	dummyMu   sync.Mutex
	dummyHash string
}

func NewAuthService(store ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, hasher: hasher, tokens: tokens, log: log}
}

// Signup creates the identity and logs it straight in.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	identity, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(identity)
}

// Login never reveals whether the email or the password was wrong: both
// produce the same UnauthenticatedError after the same amount of hashing.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.NewValidationError("credentials", "Please provide email and password!")
	}

	cred, err := s.store.FindByEmailWithSecret(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, err
		}
		if err := s.burnVerify(ctx, password); err != nil {
			return nil, err
		}
		s.log.Info().Str("reason", domain.FailureBadCredentials.String()).Msg("login rejected")
		return nil, domain.NewUnauthenticated(domain.FailureBadCredentials)
	}

	ok, err := s.hasher.Verify(ctx, password, cred.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.log.Info().Str("reason", domain.FailureBadCredentials.String()).Msg("login rejected")
		return nil, domain.NewUnauthenticated(domain.FailureBadCredentials)
	}

	identity := cred.Identity
	return s.issue(&identity)
}

// UpdatePassword changes the password of the authenticated identity after
// re-checking the current one, then issues a fresh token. Tokens issued
// before the change stop passing the Gate.
func (s *AuthService) UpdatePassword(ctx context.Context, in ports.UpdatePasswordInput) (*ports.AuthResult, error) {
	if in.CurrentPassword == "" || in.Password == "" || in.PasswordConfirm == "" {
		return nil, domain.NewValidationError("password", "Please provide passwordCurrent, password and passwordConfirm!")
	}
	if in.Password != in.PasswordConfirm {
		return nil, domain.NewValidationError("passwordConfirm", "Passwords do not match")
	}

	identity, err := s.store.FindByID(ctx, in.IdentityID)
	if err != nil {
		return nil, err
	}
	cred, err := s.store.FindByEmailWithSecret(ctx, identity.Email)
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, in.CurrentPassword, cred.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	if !ok {
		return nil, domain.ErrWrongCurrentPassword
	}

	updated, err := s.store.ChangePassword(ctx, identity.ID, in.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(updated)
}

func (s *AuthService) issue(identity *domain.Identity) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{Token: token, Identity: identity}, nil
}

func (s *AuthService) burnVerify(ctx context.Context, password string) error {
	digest, err := s.dummyDigest(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if _, err := s.hasher.Verify(ctx, password, digest); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// Warm computes the digest unknown-email logins verify against, so the
// first such login costs one Verify like every other.
func (s *AuthService) Warm(ctx context.Context) error {
	if _, err := s.dummyDigest(ctx); err != nil {
		return fmt.Errorf("warm login digest: %w", err)
	}
	return nil
}

func (s *AuthService) dummyDigest(ctx context.Context) (string, error) {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash == "" {
		h, err := s.hasher.Hash(ctx, dummyPassword)
		if err != nil {
			return "", err
		}
		s.dummyHash = h
	}
	return s.dummyHash, nil
}
