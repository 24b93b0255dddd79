package stream

import (
	"context"
	"testing"
	"time"

	"github.com/moarster/yms-react-sub001/internal/rfp"
)

func TestPublishReachesSubscribers(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	if s.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", s.Subscribers())
	}

	ev := rfp.Event{DocumentID: "01X", Status: rfp.StatusPublished, Timestamp: time.Now()}
	s.Publish(ev)

	select {
	case got := <-ch:
		if got.DocumentID != "01X" || got.Status != rfp.StatusPublished {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestCancelledSubscriberIsRemoved(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)

	cancel()
	deadline := time.After(time.Second)
	for s.Subscribers() != 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber not removed after cancel")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Channel closes once the subscriber is detached.
	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = s.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			s.Publish(rfp.Event{DocumentID: "spam"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
