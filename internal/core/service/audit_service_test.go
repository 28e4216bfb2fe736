package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/identitykit/identity-api/internal/core/domain"
)

type stubAuditRepo struct {
	events []domain.AuditEvent
	err    error
}

func (s *stubAuditRepo) Insert(_ context.Context, event domain.AuditEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func TestAuditService_Process(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuditEvent{
		Action: domain.AuditActionLogin, Email: "a@b.com", UserID: 1, Success: true,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	// Untimestamped events are stamped on the way through.
	if repo.events[0].OccurredAt.IsZero() {
		t.Fatalf("missing timestamp was not filled in")
	}
}

func TestAuditService_RejectsMissingAction(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.AuditEvent{Email: "a@b.com"}); err == nil {
		t.Fatalf("expected error for missing action")
	}
	if len(repo.events) != 0 {
		t.Fatalf("event must not be persisted")
	}
}

func TestAuditService_PropagatesRepoFailure(t *testing.T) {
	svc := NewAuditService(&stubAuditRepo{err: fmt.Errorf("write concern")}, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuditEvent{Action: domain.AuditActionRefresh})
	if err == nil {
		t.Fatalf("expected error")
	}
}
