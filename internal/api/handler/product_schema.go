package handler

import (
	"time"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// forbiddenResponse is returned on 403.
type forbiddenResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type createProductRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	InventoryCount int    `json:"inventoryCount" validate:"min=0"`
}

// updateProductRequest fields are all optional; empty strings and zero are
// treated as not provided.
type updateProductRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	InventoryCount int    `json:"inventoryCount" validate:"min=0"`
}

type productResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	InventoryCount int       `json:"inventoryCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		InventoryCount: p.InventoryCount,
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
}

func toProductListResponse(products []*domain.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}
