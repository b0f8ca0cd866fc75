package ports

import (
	"context"

	"github.com/natours/booking-api/internal/core/domain"
)

// SignupInput is the external signup payload. Any role field a client sends
// is not part of it.
type SignupInput struct {
	Name            string `json:"name"            validate:"required,max=100"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordInput changes the password of an already authenticated identity.
type UpdatePasswordInput struct {
	IdentityID      string
	CurrentPassword string
	Password        string
	PasswordConfirm string
}

// AuthResult is a freshly minted token with the sanitized identity it binds.
type AuthResult struct {
	Token    string
	Identity *domain.Identity
}

// AuthService runs the flows that mint tokens.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	UpdatePassword(ctx context.Context, in UpdatePasswordInput) (*AuthResult, error)
}

// CredentialStore owns identity records and their password lifecycle.
type CredentialStore interface {
	Create(ctx context.Context, in SignupInput) (*domain.Identity, error)
	FindByEmailWithSecret(ctx context.Context, email string) (*domain.Credential, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	ChangePassword(ctx context.Context, id, newPassword string) (*domain.Identity, error)
}

// IdentityFinder is the read-only slice of the credential store the Gate needs.
type IdentityFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
}

// Authenticator turns a raw Authorization header into a resolved identity.
type Authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*domain.Identity, error)
}
