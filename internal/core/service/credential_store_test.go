package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

func TestCredentialStore_Create_Success(t *testing.T) {
	f := newAuthFixture(t)

	identity, err := f.store.Create(context.Background(), validSignup("  Jonas@Example.COM "))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if identity.Email != "jonas@example.com" {
		t.Errorf("email not normalized: %q", identity.Email)
	}
	if identity.Role != domain.RoleUser {
		t.Errorf("expected default role, got %s", identity.Role)
	}
	if identity.PasswordChangedAt != nil {
		t.Errorf("passwordChangedAt must be unset on creation")
	}
	if identity.ChangedPasswordAfter(f.clock.Now()) {
		t.Errorf("fresh identity must not report a password change")
	}

	cred, err := f.store.FindByEmailWithSecret(context.Background(), "JONAS@example.com")
	if err != nil {
		t.Fatalf("FindByEmailWithSecret: %v", err)
	}
	if cred.PasswordHash == "" || cred.PasswordHash == "abcd1234" {
		t.Fatalf("stored hash must be a non-empty digest, got %q", cred.PasswordHash)
	}
	ok, err := f.hasher.Verify(context.Background(), "abcd1234", cred.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestCredentialStore_Create_Validation(t *testing.T) {
	cases := map[string]func(*ports.SignupInput){
		"password mismatch": func(in *ports.SignupInput) { in.PasswordConfirm = "wrong" },
		"malformed email":   func(in *ports.SignupInput) { in.Email = "not-an-email" },
		"short password":    func(in *ports.SignupInput) { in.Password, in.PasswordConfirm = "abc123", "abc123" },
		"missing name":      func(in *ports.SignupInput) { in.Name = "   " },
		"too long password": func(in *ports.SignupInput) {
			long := strings.Repeat("é", 40) // 80 bytes, 40 runes
			in.Password, in.PasswordConfirm = long, long
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newAuthFixture(t)
			in := validSignup("a@example.com")
			mutate(&in)

			_, err := f.store.Create(context.Background(), in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if f.repo.count() != 0 {
				t.Fatalf("no record may be created on validation failure")
			}
		})
	}
}

func TestCredentialStore_Create_MismatchScenario(t *testing.T) {
	f := newAuthFixture(t)
	in := validSignup("a@example.com")
	in.Password, in.PasswordConfirm = "abcd1234", "wrong"

	_, err := f.store.Create(context.Background(), in)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Error(), "Passwords do not match") {
		t.Errorf("unexpected message: %s", ve.Error())
	}
	if _, err := f.store.FindByEmailWithSecret(context.Background(), "a@example.com"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("record must not exist, got %v", err)
	}
}

func TestCredentialStore_Create_DuplicateEmailCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.store.Create(context.Background(), validSignup("bob@example.com")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := f.store.Create(context.Background(), validSignup("BOB@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if f.repo.count() != 1 {
		t.Fatalf("expected exactly one record, got %d", f.repo.count())
	}
}

func TestCredentialStore_FindByID_HasNoSecret(t *testing.T) {
	f := newAuthFixture(t)
	created, _ := f.store.Create(context.Background(), validSignup("c@example.com"))

	identity, err := f.store.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	// domain.Identity has no password field; the compile-time shape is the
	// guarantee. Check the lookup resolved the right record.
	if identity.Email != "c@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if _, err := f.store.FindByID(context.Background(), "missing"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestCredentialStore_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	created, _ := f.store.Create(ctx, validSignup("d@example.com"))

	f.clock.Advance(time.Hour)
	updated, err := f.store.ChangePassword(ctx, created.ID, "newpass123")
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if updated.PasswordChangedAt == nil || !updated.PasswordChangedAt.Equal(f.clock.Now()) {
		t.Fatalf("passwordChangedAt = %v, want %v", updated.PasswordChangedAt, f.clock.Now())
	}
	if updated.PasswordChangedAt.After(f.clock.Now()) {
		t.Fatalf("passwordChangedAt must not be in the future")
	}

	cred, _ := f.store.FindByEmailWithSecret(ctx, "d@example.com")
	if ok, _ := f.hasher.Verify(ctx, "newpass123", cred.PasswordHash); !ok {
		t.Fatalf("new password does not verify")
	}
	if ok, _ := f.hasher.Verify(ctx, "abcd1234", cred.PasswordHash); ok {
		t.Fatalf("old password still verifies")
	}
}

func TestCredentialStore_ChangePassword_Validation(t *testing.T) {
	f := newAuthFixture(t)
	created, _ := f.store.Create(context.Background(), validSignup("e@example.com"))

	_, err := f.store.ChangePassword(context.Background(), created.ID, "short")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if _, err := f.store.ChangePassword(context.Background(), "missing", "longenough1"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}
