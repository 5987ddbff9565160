package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	"github.com/vladimiradmaev/mammafy-helper/internal/logger"
)

func TestRegistryScheduleAndCancel(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(fixedClock, logger.Discard())

	req := domain.NotificationRequest{ID: "a", Title: "t", Body: "b", FireDate: testNow.Add(time.Hour)}
	if err := r.Schedule(ctx, req); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	req.Title = "updated"
	r.Schedule(ctx, req)
	if got := r.Pending(); len(got) != 1 || got[0].Title != "updated" {
		t.Fatalf("expected upsert by id, got %+v", got)
	}

	if err := r.Cancel(ctx, "a"); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if err := r.Cancel(ctx, "never-scheduled"); err != nil {
		t.Fatalf("cancelling an unknown id must be a no-op: %v", err)
	}
	if len(r.Pending()) != 0 {
		t.Fatal("expected registry to be empty")
	}
}

func TestRegistryDropsPastDue(t *testing.T) {
	r := NewRegistry(fixedClock, logger.Discard())
	r.Schedule(context.Background(), domain.NotificationRequest{ID: "late", FireDate: testNow.Add(-time.Minute)})
	if _, ok := r.Lookup("late"); ok {
		t.Fatal("past-due request should be dropped")
	}
}

func TestRegistryTakeDue(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(fixedClock, logger.Discard())
	r.Schedule(ctx, domain.NotificationRequest{ID: "b", FireDate: testNow.Add(time.Minute)})
	r.Schedule(ctx, domain.NotificationRequest{ID: "a", FireDate: testNow.Add(time.Minute)})
	r.Schedule(ctx, domain.NotificationRequest{ID: "c", FireDate: testNow.Add(time.Hour)})

	due := r.TakeDue(testNow.Add(2 * time.Minute))
	if len(due) != 2 || due[0].ID != "a" || due[1].ID != "b" {
		t.Fatalf("unexpected due set %+v", due)
	}
	if len(r.TakeDue(testNow.Add(2*time.Minute))) != 0 {
		t.Fatal("due requests must be removed once taken")
	}
	if len(r.Pending()) != 1 {
		t.Fatal("future request should stay pending")
	}
}

type recordingSender struct {
	sent []string
	err  error
}

func (s *recordingSender) Send(ctx context.Context, req domain.NotificationRequest) error {
	s.sent = append(s.sent, req.ID)
	return s.err
}

func TestDispatcherDeliverDue(t *testing.T) {
	ctx := context.Background()
	now := testNow
	clock := func() time.Time { return now }

	r := NewRegistry(clock, logger.Discard())
	r.Schedule(ctx, domain.NotificationRequest{ID: "x", FireDate: testNow.Add(time.Minute)})

	good := &recordingSender{}
	broken := &recordingSender{err: errors.New("offline")}
	d, err := NewDispatcher(DispatcherConfig{
		DispatchSpec: "@every 1m",
		RolloverSpec: "0 0 * * *",
		Location:     time.UTC,
		Clock:        clock,
	}, r, []Sender{broken, good}, func(context.Context) bool { return false }, logger.Discard())
	if err != nil {
		t.Fatalf("NewDispatcher returned error: %v", err)
	}

	if n := d.DeliverDue(ctx); n != 0 {
		t.Fatalf("nothing should be due yet, got %d", n)
	}

	now = testNow.Add(time.Minute)
	if n := d.DeliverDue(ctx); n != 1 {
		t.Fatalf("expected 1 due request, got %d", n)
	}
	if len(good.sent) != 1 || len(broken.sent) != 1 {
		t.Fatalf("every sender should be tried: good=%v broken=%v", good.sent, broken.sent)
	}
}

func TestDispatcherRejectsBadSpec(t *testing.T) {
	r := NewRegistry(fixedClock, logger.Discard())
	if _, err := NewDispatcher(DispatcherConfig{DispatchSpec: "every minute"}, r, nil, nil, logger.Discard()); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestFormatMessage(t *testing.T) {
	got := FormatMessage(domain.NotificationRequest{Title: "Appointment Now", Body: "Go"})
	if got != "🔔 Appointment Now\nGo" {
		t.Fatalf("unexpected message %q", got)
	}
}
