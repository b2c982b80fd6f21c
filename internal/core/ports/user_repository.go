package ports

import (
	"context"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Lookups return domain.ErrUserNotFound when no record matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByToken matches the stored session token exactly.
	FindByToken(ctx context.Context, token string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// SessionCache maps session tokens to user ids in front of FindByToken.
// A miss is reported as ("", nil).
type SessionCache interface {
	Get(ctx context.Context, token string) (string, error)
	Set(ctx context.Context, token, userID string) error
	Delete(ctx context.Context, token string) error
}
