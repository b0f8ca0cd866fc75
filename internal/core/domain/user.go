package domain

import "time"

// MinPasswordLength is the shortest plaintext password accepted on signup
// and password change.
const MinPasswordLength = 8

// Identity is a registered account as every caller outside the login path
// sees it. It deliberately has no password field.
type Identity struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Photo             string     `json:"photo,omitempty"`
	Role              Role       `json:"role"`
	PasswordChangedAt *time.Time `json:"passwordChangedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// ChangedPasswordAfter reports whether a token issued at iat predates the
// identity's last password change.
func (i *Identity) ChangedPasswordAfter(iat time.Time) bool {
	return PasswordChangedAfter(iat, i.PasswordChangedAt)
}

// Credential is an Identity together with its password digest. It is only
// produced by the email lookup used for login and password verification.
type Credential struct {
	Identity
	PasswordHash string `json:"-"`
}

// PasswordChangedAfter is the token invalidation check. Both sides are
// truncated to whole seconds, the resolution of a token's iat claim, and a
// token is stale only when it was issued strictly before the change.
func PasswordChangedAfter(tokenIssuedAt time.Time, passwordChangedAt *time.Time) bool {
	if passwordChangedAt == nil || passwordChangedAt.IsZero() {
		return false
	}
	return tokenIssuedAt.Unix() < passwordChangedAt.Unix()
}

// TokenClaims is what a verified bearer token binds.
type TokenClaims struct {
	IdentityID string
	TokenID    string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}
