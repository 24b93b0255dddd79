package catalogstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/ids"
)

// Memory implements Store with an in-process map. Used in tests and when no
// database DSN is configured.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record // id -> record
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

// NewMemorySeeded creates a store preloaded with the default reference lists
// the portal forms depend on.
func NewMemorySeeded() *Memory {
	m := NewMemory()
	seed := map[string][]string{
		"vehicle-type":        {"Truck", "Van", "Refrigerated truck", "Container truck"},
		"shipment-type":       {"FTL", "LTL", "Groupage"},
		"transportation-type": {"Road", "Rail", "Sea", "Air"},
		"currency":            {"RUB", "USD", "EUR"},
		"cargo-nature":        {"General", "Perishable", "Dangerous", "Oversized"},
		"cargo-handling-type": {"Rear loading", "Side loading", "Top loading"},
	}
	ctx := context.Background()
	for catalogName, titles := range seed {
		for _, title := range titles {
			_, _ = m.Create(ctx, Record{
				Domain:  catalog.DomainLists,
				Catalog: catalogName,
				Title:   title,
			})
		}
	}
	return m
}

var _ Store = (*Memory)(nil)

func validate(rec Record) error {
	if rec.Domain != catalog.DomainLists && rec.Domain != catalog.DomainReference {
		return fmt.Errorf("%w: unknown domain %q", ErrInvalidInput, rec.Domain)
	}
	if strings.TrimSpace(rec.Catalog) == "" {
		return fmt.Errorf("%w: catalog is required", ErrInvalidInput)
	}
	if strings.TrimSpace(rec.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

func (m *Memory) List(ctx context.Context, domain, catalogName, search string, size int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	var result []Record
	for _, rec := range m.records {
		if rec.Domain != domain || rec.Catalog != catalogName {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(rec.Title), needle) {
			continue
		}
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	if size > 0 && len(result) > size {
		result = result[:size]
	}
	return result, nil
}

func (m *Memory) Get(ctx context.Context, domain, catalogName, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok || rec.Domain != domain || rec.Catalog != catalogName {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) Create(ctx context.Context, rec Record) (Record, error) {
	if err := validate(rec); err != nil {
		return Record{}, err
	}
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.ID]; exists {
		return Record{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidInput, rec.ID)
	}
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *Memory) Update(ctx context.Context, rec Record) (Record, error) {
	if err := validate(rec); err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.records[rec.ID]
	if !ok || cur.Domain != rec.Domain || cur.Catalog != rec.Catalog {
		return Record{}, ErrNotFound
	}
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *Memory) Delete(ctx context.Context, domain, catalogName, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || rec.Domain != domain || rec.Catalog != catalogName {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}
