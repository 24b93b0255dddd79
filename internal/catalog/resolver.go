package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/moarster/yms-react-sub001/internal/refcache"
)

// UnknownTitle is returned when a title lookup cannot find the option.
const UnknownTitle = "Unknown"

// defaultPageSize caps how many lookup items one resolution fetches.
const defaultPageSize = 100

// Fetcher reads paginated lookup items from a catalog/list endpoint.
type Fetcher interface {
	ListItems(ctx context.Context, domain, catalog, search string, size int) ([]Item, error)
}

// Resolver serves lazily-fetched, cached arrays of links usable as dropdown
// options. Construct one per client session; the cache is owned, not global.
type Resolver struct {
	fetcher  Fetcher
	cache    *refcache.Store[[]Link]
	pageSize int
	now      func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPageSize overrides the lookup fetch size.
func WithPageSize(size int) ResolverOption {
	return func(r *Resolver) {
		if size > 0 {
			r.pageSize = size
		}
	}
}

// WithCache injects a shared cache store.
func WithCache(cache *refcache.Store[[]Link]) ResolverOption {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// NewResolver constructs a Resolver over the given fetcher.
func NewResolver(fetcher Fetcher, opts ...ResolverOption) (*Resolver, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("catalog: fetcher is required")
	}
	r := &Resolver{
		fetcher:  fetcher,
		cache:    refcache.New[[]Link](0),
		pageSize: defaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Options returns the link options for a catalog, serving from cache when a
// fresh entry exists and fetching on miss. A failed fetch yields empty
// options and the error; no retry happens here.
func (r *Resolver) Options(ctx context.Context, catalogName string, kind Kind) ([]Link, error) {
	if catalogName == "" {
		return nil, fmt.Errorf("%w: catalog is required", ErrInvalidLink)
	}
	if cached, ok := r.cache.Get(catalogName, string(kind)); ok {
		return cached, nil
	}

	items, err := r.fetcher.ListItems(ctx, kind.Domain(), catalogName, "", r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("resolve %s/%s: %w", kind.Domain(), catalogName, err)
	}
	links := make([]Link, 0, len(items))
	for _, it := range items {
		links = append(links, NewLink(kind, catalogName, it.ID, it.DisplayTitle()))
	}
	r.cache.Set(catalogName, string(kind), links)
	return links, nil
}

// Resolve returns a ResolvedLink for a single id, embedding the raw entry.
func (r *Resolver) Resolve(ctx context.Context, link Link) (ResolvedLink, error) {
	if err := link.Validate(); err != nil {
		return ResolvedLink{}, err
	}
	kind, err := KindForDomain(link.Domain)
	if err != nil {
		return ResolvedLink{}, err
	}
	items, err := r.fetcher.ListItems(ctx, link.Domain, link.Catalog, "", r.pageSize)
	if err != nil {
		return ResolvedLink{}, fmt.Errorf("resolve %s/%s: %w", link.Domain, link.Catalog, err)
	}
	for _, it := range items {
		if it.ID == link.ID {
			resolved := ResolvedLink{
				Link:       NewLink(kind, link.Catalog, it.ID, it.DisplayTitle()),
				Entry:      it.Data,
				ResolvedAt: r.now().UTC(),
			}
			return resolved, nil
		}
	}
	return ResolvedLink{}, fmt.Errorf("%w: %s not found in %s", ErrInvalidLink, link.ID, link.Catalog)
}

// OptionByID finds an option among the cached/fetched set.
func (r *Resolver) OptionByID(ctx context.Context, catalogName string, kind Kind, id string) (Link, bool) {
	options, err := r.Options(ctx, catalogName, kind)
	if err != nil {
		return Link{}, false
	}
	for _, opt := range options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Link{}, false
}

// TitleByID returns the display title for an option id, or UnknownTitle when
// the option is absent.
func (r *Resolver) TitleByID(ctx context.Context, catalogName string, kind Kind, id string) string {
	opt, ok := r.OptionByID(ctx, catalogName, kind, id)
	if !ok || opt.Title == "" {
		return UnknownTitle
	}
	return opt.Title
}

// Invalidate drops cached slots after a write to the catalog.
func (r *Resolver) Invalidate(catalogName string, kind ...Kind) {
	if len(kind) > 0 {
		r.cache.Invalidate(catalogName, string(kind[0]))
		return
	}
	r.cache.Invalidate(catalogName)
}

// Filter narrows options case-insensitively by title substring. The full set
// is returned when the term is empty or matches the currently displayed
// value, so already-cached data never triggers a server round-trip per
// keystroke.
func Filter(options []Link, term, displayed string) []Link {
	term = strings.TrimSpace(term)
	if term == "" || strings.EqualFold(term, strings.TrimSpace(displayed)) {
		return options
	}
	needle := strings.ToLower(term)
	filtered := make([]Link, 0, len(options))
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Title), needle) {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}
