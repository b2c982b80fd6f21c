package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/inventory-system/internal/core/domain"
	"github.com/99minutos/inventory-system/internal/core/ports"
	"github.com/99minutos/inventory-system/internal/pkg/metrics"
)

type ProductService struct {
	repo   ports.ProductRepository
	audit  ports.AuditPublisher // optional
	logger zerolog.Logger
	now    func() time.Time
}

func NewProductService(repo ports.ProductRepository, audit ports.AuditPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		audit:  audit,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateProduct stores a new product. Title, description and a non-zero
// inventory count are all required.
func (s *ProductService) CreateProduct(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	if in.Title == "" || in.Description == "" || in.InventoryCount == 0 {
		return nil, domain.NewValidationError("Please fill all fields")
	}
	if in.InventoryCount < 0 {
		return nil, domain.NewValidationError("inventoryCount must not be negative")
	}

	now := s.now()
	product, err := s.repo.Create(ctx, &domain.Product{
		Title:          in.Title,
		Description:    in.Description,
		InventoryCount: in.InventoryCount,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	metrics.ProductMutationsTotal.WithLabelValues(string(domain.ProductCreated)).Inc()
	s.logger.Info().Str("product_id", product.ID).Str("actor_id", in.Actor.ID).Msg("product created")
	s.publish(product.ID, domain.ProductCreated, in.Actor)
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProduct applies a partial update. Empty strings and a zero count are
// treated as absent and leave the stored value untouched. A patch that changes
// nothing is not written and publishes no event.
func (s *ProductService) UpdateProduct(ctx context.Context, in ports.UpdateProductInput) (*domain.Product, error) {
	if in.InventoryCount < 0 {
		return nil, domain.NewValidationError("inventoryCount must not be negative")
	}

	product, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	changed := domain.ProductPatch{
		Title:          in.Title,
		Description:    in.Description,
		InventoryCount: in.InventoryCount,
	}.Apply(product)
	if !changed {
		return product, nil
	}
	product.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductMutationsTotal.WithLabelValues(string(domain.ProductUpdated)).Inc()
	s.logger.Info().Str("product_id", updated.ID).Str("actor_id", in.Actor.ID).Msg("product updated")
	s.publish(updated.ID, domain.ProductUpdated, in.Actor)
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string, actor ports.Actor) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues(string(domain.ProductDeleted)).Inc()
	s.logger.Info().Str("product_id", id).Str("actor_id", actor.ID).Msg("product deleted")
	s.publish(id, domain.ProductDeleted, actor)
	return nil
}

func (s *ProductService) publish(productID string, action domain.ProductAction, actor ports.Actor) {
	if s.audit == nil {
		return
	}
	s.audit.Publish(domain.ProductEvent{
		ID:         uuid.NewString(),
		ProductID:  productID,
		Action:     action,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: s.now(),
	})
}
