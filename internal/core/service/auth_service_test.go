package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/inventory-system/internal/core/domain"
	"github.com/99minutos/inventory-system/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users   map[string]*domain.User // keyed by ID
	seq     int
	saveErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByToken(_ context.Context, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Token != "" && u.Token == token })
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubSessionCache struct {
	entries map[string]string
	getErr  error
	deleted []string
}

func newStubSessionCache() *stubSessionCache {
	return &stubSessionCache{entries: make(map[string]string)}
}

func (c *stubSessionCache) Get(_ context.Context, token string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.entries[token], nil
}

func (c *stubSessionCache) Set(_ context.Context, token, userID string) error {
	c.entries[token] = userID
	return nil
}

func (c *stubSessionCache) Delete(_ context.Context, token string) error {
	delete(c.entries, token)
	c.deleted = append(c.deleted, token)
	return nil
}

const testSecret = "secret"

func newTestAuthService(repo ports.UserRepository, cache ports.SessionCache) (*AuthService, *JWTIssuer) {
	issuer := NewJWTIssuer(testSecret, time.Hour)
	return NewAuthService(repo, NewBcryptHasher(bcrypt.MinCost), issuer, cache, zerolog.Nop()), issuer
}

func registerInput(username, email, role string) ports.RegisterInput {
	return ports.RegisterInput{Username: username, Email: email, Password: "pass123", Role: role}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, issuer := newTestAuthService(repo, nil)

	user, err := svc.Register(context.Background(), registerInput("alice", "Alice@Example.com", "admin"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.Token == "" {
		t.Fatalf("expected token to be issued")
	}

	userID, err := issuer.Verify(user.Token)
	if err != nil || userID != user.ID {
		t.Fatalf("token does not verify for user %s: %v (%s)", user.ID, err, userID)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.Token != user.Token {
		t.Fatalf("token not persisted on user record")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)
	ctx := context.Background()

	cases := []ports.RegisterInput{
		{Username: "", Email: "a@b.com", Password: "p", Role: "admin"},
		{Username: "al", Email: "", Password: "p", Role: "admin"},
		{Username: "al", Email: "a@b.com", Password: "", Role: "admin"},
		{Username: "al", Email: "a@b.com", Password: "p", Role: ""},
		{Username: "al", Email: "not-an-email", Password: "p", Role: "admin"},
		{Username: "al", Email: "a@b.com", Password: "p", Role: "owner"},
	}
	for _, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)

	if _, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com", "staff")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("bobby", "bob@example.com", "staff")); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)

	_, _ = svc.Register(context.Background(), registerInput("bob", "bob@example.com", "staff"))
	if _, err := svc.Register(context.Background(), registerInput("bob", "other@example.com", "staff")); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_FailedSaveCanBeRetried(t *testing.T) {
	repo := newStubUserRepo()
	repo.saveErr = errors.New("write conflict")
	svc, _ := newTestAuthService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput("dave", "dave@example.com", "staff")); err == nil {
		t.Fatal("expected Register to fail when the token cannot be stored")
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected incomplete user to be removed, have %d stored", len(repo.users))
	}

	repo.saveErr = nil
	user, err := svc.Register(ctx, registerInput("dave", "dave@example.com", "staff"))
	if err != nil {
		t.Fatalf("retry after failed save returned error: %v", err)
	}
	if user.Token == "" {
		t.Fatal("expected a token on the retried registration")
	}
}

func TestAuthService_Login_ReturnsStoredToken(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)

	registered, err := svc.Register(context.Background(), registerInput("carol", "carol@example.com", "manager"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Login(context.Background(), "carol@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Token != registered.Token {
		t.Fatalf("expected stored token to be returned")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(user.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["id"] != user.ID {
		t.Fatalf("expected id claim %s, got %v", user.ID, claims["id"])
	}
}

func TestAuthService_Login_ReissuesExpiredToken(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubSessionCache()
	svc, issuer := newTestAuthService(repo, cache)

	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	registered, err := svc.Register(context.Background(), registerInput("dan", "dan@example.com", "staff"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	issuer.now = time.Now

	user, err := svc.Login(context.Background(), "dan@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Token == registered.Token {
		t.Fatalf("expected expired token to be replaced")
	}
	if _, err := issuer.Verify(user.Token); err != nil {
		t.Fatalf("reissued token does not verify: %v", err)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != registered.Token {
		t.Fatalf("expected old token to be evicted, got %v", cache.deleted)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)

	_, _ = svc.Register(context.Background(), registerInput("dave", "dave@example.com", "staff"))
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ResolveToken(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput("erin", "erin@example.com", "admin"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	got, err := svc.ResolveToken(ctx, user.Token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("resolved wrong user: %s", got.ID)
	}

	if _, err := svc.ResolveToken(ctx, "forged-token"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown token, got %v", err)
	}
}

func TestAuthService_ResolveToken_ExpiredStoredToken(t *testing.T) {
	repo := newStubUserRepo()
	svc, issuer := newTestAuthService(repo, nil)
	ctx := context.Background()

	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	user, err := svc.Register(ctx, registerInput("fay", "fay@example.com", "admin"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	issuer.now = time.Now

	if _, err := svc.ResolveToken(ctx, user.Token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_ResolveToken_UsesCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubSessionCache()
	svc, _ := newTestAuthService(repo, cache)
	ctx := context.Background()

	user, _ := svc.Register(ctx, registerInput("gus", "gus@example.com", "manager"))

	if _, err := svc.ResolveToken(ctx, user.Token); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cache.entries[user.Token] != user.ID {
		t.Fatalf("expected session to be cached")
	}

	// A cached entry whose token no longer matches storage is evicted.
	stale := "stale-token"
	cache.entries[stale] = user.ID
	if _, err := svc.ResolveToken(ctx, stale); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for stale cache entry, got %v", err)
	}
	if _, ok := cache.entries[stale]; ok {
		t.Fatalf("expected stale entry to be evicted")
	}
}

func TestAuthService_ResolveToken_CacheErrorFallsBack(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubSessionCache()
	svc, _ := newTestAuthService(repo, cache)
	ctx := context.Background()

	user, _ := svc.Register(ctx, registerInput("hal", "hal@example.com", "admin"))
	cache.getErr = errors.New("redis down")

	got, err := svc.ResolveToken(ctx, user.Token)
	if err != nil {
		t.Fatalf("expected fallback to store, got %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("resolved wrong user")
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)
	ctx := context.Background()

	user, _ := svc.Register(ctx, registerInput("ivy", "ivy@example.com", "staff"))

	got, err := svc.CurrentUser(ctx, user.ID)
	if err != nil || got.Username != "ivy" {
		t.Fatalf("unexpected result: %+v %v", got, err)
	}
	if _, err := svc.CurrentUser(ctx, ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
