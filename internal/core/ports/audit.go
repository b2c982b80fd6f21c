package ports

import (
	"context"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

// AuditRepository persists product audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.ProductEvent) error
}

// AuditRecorder processes a single audit event.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.ProductEvent) error
}

// AuditPublisher hands audit events off for asynchronous recording.
type AuditPublisher interface {
	Publish(event domain.ProductEvent)
}
