package catalog

import (
	"context"
	"fmt"
	"net/url"
)

// Getter is the slice of the generic HTTP client the fetcher needs.
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// HTTPFetcher reads lookup items from a remote catalog/list read endpoint:
// GET /{domain}/{catalog}/items?search=&size= -> {content: [...]}.
type HTTPFetcher struct {
	client Getter
}

// NewHTTPFetcher wraps a client.
func NewHTTPFetcher(client Getter) (*HTTPFetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog: client is required")
	}
	return &HTTPFetcher{client: client}, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)

type itemsPage struct {
	Content []Item `json:"content"`
}

func (f *HTTPFetcher) ListItems(ctx context.Context, domain, catalogName, search string, size int) ([]Item, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if size > 0 {
		query.Set("size", fmt.Sprintf("%d", size))
	}
	path := fmt.Sprintf("/%s/%s/items", url.PathEscape(domain), url.PathEscape(catalogName))
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var page itemsPage
	if err := f.client.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}
