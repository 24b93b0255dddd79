package rfp

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/moarster/yms-react-sub001/internal/auth"
	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/ids"
)

// Event describes a workflow state change, published after each mutation.
type Event struct {
	DocumentID string    `json:"documentId"`
	Status     Status    `json:"status"`
	Action     Action    `json:"action,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventSink receives workflow events. The HTTP layer wires this to the SSE
// stream; a nil sink is allowed.
type EventSink interface {
	Publish(Event)
}

// ListFilter narrows List results.
type ListFilter struct {
	Status    Status
	CreatedBy string
	Limit     int
}

// Service defines document operations. Workflow mutations enforce both the
// permission gate and the transition table.
type Service interface {
	Create(ctx context.Context, p auth.Principal, data Data, draft bool) (ShipmentRfp, error)
	Get(ctx context.Context, id string) (ShipmentRfp, error)
	List(ctx context.Context, filter ListFilter) ([]ShipmentRfp, error)
	Update(ctx context.Context, p auth.Principal, id string, data Data) (ShipmentRfp, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
	Perform(ctx context.Context, p auth.Principal, id string, action Action, carrier *catalog.Link) (ShipmentRfp, error)
}

// InMemory implements Service with in-process concurrency safety. Used in
// tests and when no database DSN is configured.
type InMemory struct {
	mu   sync.RWMutex
	docs map[string]*ShipmentRfp
	sink EventSink
	now  func() time.Time
}

// NewInMemory creates an empty document service.
func NewInMemory(sink EventSink) *InMemory {
	return &InMemory{
		docs: make(map[string]*ShipmentRfp),
		sink: sink,
		now:  time.Now,
	}
}

var _ Service = (*InMemory)(nil)

func (s *InMemory) Create(ctx context.Context, p auth.Principal, data Data, draft bool) (ShipmentRfp, error) {
	if len(data.Route) == 0 {
		return ShipmentRfp{}, fmt.Errorf("%w: at least one route point is required", ErrInvalidInput)
	}
	status := StatusNew
	if draft {
		status = StatusDraft
	}
	now := s.now().UTC()
	doc := &ShipmentRfp{
		ID:        ids.New(),
		Status:    status,
		CreatedBy: p.UserID,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := doc.Validate(); err != nil {
		return ShipmentRfp{}, err
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.mu.Unlock()

	s.publish(Event{DocumentID: doc.ID, Status: doc.Status, Actor: p.UserID, Timestamp: now})
	return *doc, nil
}

func (s *InMemory) Get(ctx context.Context, id string) (ShipmentRfp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return ShipmentRfp{}, ErrNotFound
	}
	return *doc, nil
}

func (s *InMemory) List(ctx context.Context, filter ListFilter) ([]ShipmentRfp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ShipmentRfp, 0, len(s.docs))
	for _, doc := range s.docs {
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		if filter.CreatedBy != "" && doc.CreatedBy != filter.CreatedBy {
			continue
		}
		result = append(result, *doc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *InMemory) Update(ctx context.Context, p auth.Principal, id string, data Data) (ShipmentRfp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return ShipmentRfp{}, ErrNotFound
	}
	if !CanEdit(*doc, p) {
		return ShipmentRfp{}, fmt.Errorf("%w: edit denied for %s", ErrActionForbidden, doc.Status)
	}
	if len(data.Route) == 0 {
		return ShipmentRfp{}, fmt.Errorf("%w: at least one route point is required", ErrInvalidInput)
	}
	doc.Data = data
	doc.UpdatedAt = s.now().UTC()
	return *doc, nil
}

func (s *InMemory) Delete(ctx context.Context, p auth.Principal, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	// Only drafts may be removed, and only by their creator or an admin.
	if doc.Status != StatusDraft {
		return fmt.Errorf("%w: only drafts can be deleted", ErrActionForbidden)
	}
	if !p.IsAdmin() && doc.CreatedBy != p.UserID {
		return fmt.Errorf("%w: not the draft owner", ErrActionForbidden)
	}
	delete(s.docs, id)
	return nil
}

func (s *InMemory) Perform(ctx context.Context, p auth.Principal, id string, action Action, carrier *catalog.Link) (ShipmentRfp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return ShipmentRfp{}, ErrNotFound
	}
	updated, err := ApplyAction(*doc, p, action, carrier)
	if err != nil {
		return ShipmentRfp{}, err
	}
	updated.UpdatedAt = s.now().UTC()
	*doc = updated

	s.publish(Event{
		DocumentID: doc.ID,
		Status:     doc.Status,
		Action:     action,
		Actor:      p.UserID,
		Timestamp:  doc.UpdatedAt,
	})
	return *doc, nil
}

func (s *InMemory) publish(ev Event) {
	if s.sink != nil {
		s.sink.Publish(ev)
	}
}
