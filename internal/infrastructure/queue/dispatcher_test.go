package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitykit/identity-api/internal/core/domain"
)

// collectingService gathers processed events behind a mutex.
type collectingService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (c *collectingService) Process(_ context.Context, event domain.AuditEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *collectingService) snapshot() []domain.AuditEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.AuditEvent(nil), c.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &collectingService{}
	d := NewDispatcher(2, svc, zerolog.Nop())
	d.Start(ctx)

	d.Record(domain.AuditEvent{Action: domain.AuditActionLogin, Email: "a@b.com"})
	d.Record(domain.AuditEvent{Action: domain.AuditActionRegister, Email: "c@d.com"})

	waitFor(t, func() bool { return len(svc.snapshot()) == 2 })
}

func TestDispatcher_SameEmailSameShard(t *testing.T) {
	d := NewDispatcher(4, &collectingService{}, zerolog.Nop())

	first := d.shardIndex("user@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("user@example.com"); got != first {
			t.Fatalf("shard changed between calls: %d vs %d", first, got)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_RecordNeverBlocks(t *testing.T) {
	// Workers never started, so buffers only drain into the void: once a
	// shard's buffer fills, Record must drop instead of blocking.
	d := NewDispatcher(1, &collectingService{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer*2; i++ {
			d.Record(domain.AuditEvent{Action: domain.AuditActionLogin, Email: "a@b.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full buffer")
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &collectingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
