package ports

import (
	"context"

	"github.com/anik/storefront-api/internal/core/domain"
)

// AuthEventRecorder accepts audit events without blocking the caller.
type AuthEventRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditService processes audit events handed over by the dispatcher.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}
