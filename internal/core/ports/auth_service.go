package ports

import (
	"context"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

// RegisterInput carries the fields submitted on registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// IdentityResolver turns a bearer token into the user holding it.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer signs and verifies session tokens carrying a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}
