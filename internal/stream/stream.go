// Package stream fan-outs document workflow events to SSE subscribers so
// open portal sessions can refresh lists without polling.
package stream

import (
	"context"
	"sync"

	"github.com/moarster/yms-react-sub001/internal/rfp"
)

const subscriberBuffer = 16

// Stream fan-outs workflow events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan rfp.Event
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]chan rfp.Event)}
}

var _ rfp.EventSink = (*Stream)(nil)

// Publish delivers the event to every subscriber. Slow subscribers drop
// events rather than block the workflow mutation.
func (s *Stream) Publish(ev rfp.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a subscriber bound to ctx. The returned channel closes
// when the context is cancelled.
func (s *Stream) Subscribe(ctx context.Context) <-chan rfp.Event {
	ch := make(chan rfp.Event, subscriberBuffer)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Subscribers reports the current subscriber count.
func (s *Stream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
