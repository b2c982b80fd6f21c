package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/inventory-system/internal/core/domain"
	"github.com/99minutos/inventory-system/internal/core/ports"
	"github.com/99minutos/inventory-system/internal/pkg/metrics"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditRecorder that persists product events.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditRecorder {
	return &auditService{repo: repo, log: log}
}

// Record persists a single product event to the audit trail.
func (s *auditService) Record(ctx context.Context, event domain.ProductEvent) error {
	if event.ProductID == "" {
		metrics.AuditEventsTotal.WithLabelValues("invalid").Inc()
		return fmt.Errorf("record audit event: missing product id")
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("record audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues("recorded").Inc()
	s.log.Debug().
		Str("product_id", event.ProductID).
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Msg("audit event recorded")
	return nil
}
