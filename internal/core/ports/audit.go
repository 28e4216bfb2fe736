package ports

import (
	"context"

	"github.com/identitykit/identity-api/internal/core/domain"
)

// AuditService consumes audit events delivered by the queue dispatcher.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// AuditRecorder accepts audit events for asynchronous persistence. Record
// must not block the request path; implementations may drop events under
// backpressure.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
