package ports

import (
	"context"
	"time"

	"github.com/natours/booking-api/internal/core/domain"
)

// NewUserRecord is what the credential store hands to persistence on signup.
// PasswordHash is already a digest.
type NewUserRecord struct {
	Name         string
	Email        string
	PasswordHash string
	Role         domain.Role
	CreatedAt    time.Time
}

// UserRepository persists identities. Email uniqueness is enforced by the
// backing store; a duplicate insert fails with domain.ErrDuplicateEmail.
//
// FindByID never loads the password digest; FindByEmailWithSecret is the
// only method that does.
type UserRepository interface {
	Create(ctx context.Context, rec NewUserRecord) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByEmailWithSecret(ctx context.Context, email string) (*domain.Credential, error)
	// UpdatePassword replaces the digest and sets passwordChangedAt in one
	// atomic write.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) (*domain.Identity, error)
}
