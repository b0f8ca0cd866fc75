package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
	"github.com/natours/booking-api/internal/pkg/validation"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

var errPasswordTooLong = domain.NewValidationError("password", "password must be at most 72 bytes")

// CredentialStore owns identity records: it validates signup input, keeps
// only password digests, and stamps passwordChangedAt on every change.
type CredentialStore struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	validate *validator.Validate
	now      func() time.Time
	log      zerolog.Logger
}

func NewCredentialStore(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{
		repo:     repo,
		hasher:   hasher,
		validate: validation.New(),
		now:      time.Now,
		log:      log,
	}
}

// NormalizeEmail is applied to every email before it is stored or looked up,
// which is what makes the uniqueness check case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers a new identity with the default role. Validation failures
// return *domain.ValidationError before anything is hashed or written.
func (s *CredentialStore) Create(ctx context.Context, in ports.SignupInput) (*domain.Identity, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, errPasswordTooLong
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}

	identity, err := s.repo.Create(ctx, ports.NewUserRecord{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", identity.ID).Msg("identity created")
	return identity, nil
}

// FindByEmailWithSecret is the login lookup; it is the only read returning
// the password digest.
func (s *CredentialStore) FindByEmailWithSecret(ctx context.Context, email string) (*domain.Credential, error) {
	return s.repo.FindByEmailWithSecret(ctx, NormalizeEmail(email))
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return s.repo.FindByID(ctx, id)
}

// ChangePassword rehashes and records the change time in a single write.
func (s *CredentialStore) ChangePassword(ctx context.Context, id, newPassword string) (*domain.Identity, error) {
	if err := s.validate.Var(newPassword, fmt.Sprintf("required,min=%d", domain.MinPasswordLength)); err != nil {
		return nil, domain.NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", domain.MinPasswordLength))
	}
	if len(newPassword) > maxPasswordBytes {
		return nil, errPasswordTooLong
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	identity, err := s.repo.UpdatePassword(ctx, id, hash, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Msg("password changed")
	return identity, nil
}
