package ports

import (
	"context"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

// Actor identifies who performs a catalog mutation.
type Actor struct {
	ID   string
	Role domain.Role
}

// CreateProductInput carries the fields of a new product.
type CreateProductInput struct {
	Title          string
	Description    string
	InventoryCount int
	Actor          Actor
}

// UpdateProductInput carries a partial update; zero values are ignored.
type UpdateProductInput struct {
	ID             string
	Title          string
	Description    string
	InventoryCount int
	Actor          Actor
}

// ProductService defines use-case operations for the catalog.
type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string, actor Actor) error
}
