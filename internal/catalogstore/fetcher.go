package catalogstore

import (
	"context"

	"github.com/moarster/yms-react-sub001/internal/catalog"
)

// Fetcher adapts a Store to the resolver's Fetcher interface, letting the
// portal resolve links against its own storage without an HTTP hop.
type Fetcher struct {
	store Store
}

// NewFetcher wraps a store.
func NewFetcher(store Store) *Fetcher {
	return &Fetcher{store: store}
}

var _ catalog.Fetcher = (*Fetcher)(nil)

func (f *Fetcher) ListItems(ctx context.Context, domain, catalogName, search string, size int) ([]catalog.Item, error) {
	records, err := f.store.List(ctx, domain, catalogName, search, size)
	if err != nil {
		return nil, err
	}
	items := make([]catalog.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.Item())
	}
	return items, nil
}
