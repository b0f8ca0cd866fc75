package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
	"github.com/natours/booking-api/internal/infrastructure/password"
	"github.com/natours/booking-api/internal/infrastructure/token"
)

// ---------------------------------------------------------------------------
// In-memory stub user repository
// ---------------------------------------------------------------------------

type storedUser struct {
	identity domain.Identity
	hash     string
}

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*storedUser
	byEmail map[string]string
	seq     int
	findErr error // if set, FindByID returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*storedUser),
		byEmail: make(map[string]string),
	}
}

func (r *stubUserRepo) Create(_ context.Context, rec ports.NewUserRecord) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[rec.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.seq++
	id := fmt.Sprintf("%024x", r.seq)
	u := &storedUser{
		identity: domain.Identity{
			ID:        id,
			Name:      rec.Name,
			Email:     rec.Email,
			Role:      rec.Role,
			CreatedAt: rec.CreatedAt,
		},
		hash: rec.PasswordHash,
	}
	r.byID[id] = u
	r.byEmail[rec.Email] = id
	clone := u.identity
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	clone := u.identity
	return &clone, nil
}

func (r *stubUserRepo) FindByEmailWithSecret(_ context.Context, email string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	u := r.byID[id]
	return &domain.Credential{Identity: u.identity, PasswordHash: u.hash}, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string, changedAt time.Time) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	u.hash = hash
	at := changedAt
	u.identity.PasswordChangedAt = &at
	clone := u.identity
	return &clone, nil
}

func (r *stubUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.identity.Email)
		delete(r.byID, id)
	}
}

func (r *stubUserRepo) setRole(id string, role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id].identity.Role = role
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

const testSecret = "test-secret"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// authFixture wires the real bcrypt hasher (minimum cost) and JWT service
// around the in-memory repository, all sharing one fake clock.
type authFixture struct {
	repo   *stubUserRepo
	clock  *fakeClock
	hasher *password.BcryptHasher
	tokens *token.JWTService
	store  *CredentialStore
	auth   *AuthService
	gate   *Gate
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hasher, err := password.NewBcryptHasher(bcrypt.MinCost, 4)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	clock := newFakeClock()
	repo := newStubUserRepo()
	tokens := token.NewJWTService(testSecret, 90*24*time.Hour, token.WithClock(clock.Now))

	store := NewCredentialStore(repo, hasher, discardLogger)
	store.now = clock.Now

	return &authFixture{
		repo:   repo,
		clock:  clock,
		hasher: hasher,
		tokens: tokens,
		store:  store,
		auth:   NewAuthService(store, hasher, tokens, discardLogger),
		gate:   NewGate(tokens, store, discardLogger),
	}
}

func validSignup(email string) ports.SignupInput {
	return ports.SignupInput{
		Name:            "Jonas Schmedtmann",
		Email:           email,
		Password:        "abcd1234",
		PasswordConfirm: "abcd1234",
	}
}
