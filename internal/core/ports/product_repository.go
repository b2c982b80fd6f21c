package ports

import (
	"context"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// Single-product operations return domain.ErrProductNotFound when no record
// matches the id, including ids that are not well formed.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
