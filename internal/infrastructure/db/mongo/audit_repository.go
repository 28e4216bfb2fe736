package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitykit/identity-api/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository appends authentication audit events. Events are immutable
// once written; there is no update path.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Action     string `bson:"action"`
	Email      string `bson:"email,omitempty"`
	UserID     int64  `bson:"user_id,omitempty"`
	Success    bool   `bson:"success"`
	Reason     string `bson:"reason,omitempty"`
	RemoteAddr string `bson:"remote_addr,omitempty"`
	OccurredAt int64  `bson:"occurred_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Action:     event.Action,
		Email:      event.Email,
		UserID:     event.UserID,
		Success:    event.Success,
		Reason:     event.Reason,
		RemoteAddr: event.RemoteAddr,
		OccurredAt: event.OccurredAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
