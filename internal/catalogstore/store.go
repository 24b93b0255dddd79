// Package catalogstore persists reference-data collections served by the
// catalog read endpoint.
package catalogstore

import (
	"context"
	"errors"

	"github.com/moarster/yms-react-sub001/internal/catalog"
)

var (
	ErrNotFound     = errors.New("catalogstore: not found")
	ErrInvalidInput = errors.New("catalogstore: invalid input")
)

// Record is a stored catalog entry.
type Record struct {
	ID      string
	Domain  string
	Catalog string
	Title   string
	Data    map[string]any
}

// Item converts the record to the wire item shape.
func (r Record) Item() catalog.Item {
	return catalog.Item{ID: r.ID, Title: r.Title, Data: r.Data}
}

// Store manages catalog items. List filters by case-insensitive title
// substring when search is non-empty and caps results at size.
type Store interface {
	List(ctx context.Context, domain, catalogName, search string, size int) ([]Record, error)
	Get(ctx context.Context, domain, catalogName, id string) (Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, domain, catalogName, id string) error
}
