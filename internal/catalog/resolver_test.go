package catalog

import (
	"context"
	"errors"
	"testing"
)

type fakeFetcher struct {
	items map[string][]Item
	calls int
	err   error
}

func (f *fakeFetcher) ListItems(ctx context.Context, domain, catalog, search string, size int) ([]Item, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items[domain+"/"+catalog], nil
}

func TestOptionsFetchesOnceThenServesFromCache(t *testing.T) {
	fetcher := &fakeFetcher{items: map[string][]Item{
		"lists/vehicle-type": {
			{ID: "1", Title: "Truck"},
			{ID: "2", Data: map[string]any{"title": "Van"}},
		},
	}}
	r, err := NewResolver(fetcher)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	ctx := context.Background()
	options, err := r.Options(ctx, "vehicle-type", KindList)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if options[1].Title != "Van" {
		t.Fatalf("nested title fallback failed: %+v", options[1])
	}
	if options[0].Domain != DomainLists || options[0].Entity != LinkEntity {
		t.Fatalf("normalised link malformed: %+v", options[0])
	}

	if _, err := r.Options(ctx, "vehicle-type", KindList); err != nil {
		t.Fatalf("second Options: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls)
	}
}

func TestOptionsAfterInvalidateRefetches(t *testing.T) {
	fetcher := &fakeFetcher{items: map[string][]Item{
		"lists/vehicle-type": {{ID: "1", Title: "Truck"}},
	}}
	r, _ := NewResolver(fetcher)
	ctx := context.Background()

	if _, err := r.Options(ctx, "vehicle-type", KindList); err != nil {
		t.Fatal(err)
	}
	r.Invalidate("vehicle-type")
	if _, err := r.Options(ctx, "vehicle-type", KindList); err != nil {
		t.Fatal(err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", fetcher.calls)
	}
}

func TestOptionsFailedFetchReturnsError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	r, _ := NewResolver(fetcher)

	options, err := r.Options(context.Background(), "vehicle-type", KindList)
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if len(options) != 0 {
		t.Fatalf("expected empty options on failure, got %d", len(options))
	}
}

func TestTitleByID(t *testing.T) {
	fetcher := &fakeFetcher{items: map[string][]Item{
		"reference/counter-party": {{ID: "cp1", Title: "Acme"}},
	}}
	r, _ := NewResolver(fetcher)
	ctx := context.Background()

	if got := r.TitleByID(ctx, "counter-party", KindCatalog, "cp1"); got != "Acme" {
		t.Fatalf("expected Acme, got %q", got)
	}
	if got := r.TitleByID(ctx, "counter-party", KindCatalog, "missing"); got != UnknownTitle {
		t.Fatalf("expected %q, got %q", UnknownTitle, got)
	}
}

func TestResolveEmbedsEntry(t *testing.T) {
	fetcher := &fakeFetcher{items: map[string][]Item{
		"reference/counter-party": {{ID: "cp1", Title: "Acme", Data: map[string]any{"inn": "1234567890"}}},
	}}
	r, _ := NewResolver(fetcher)

	link := NewLink(KindCatalog, "counter-party", "cp1", "")
	resolved, err := r.Resolve(context.Background(), link)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Entry["inn"] != "1234567890" {
		t.Fatalf("entry not embedded: %+v", resolved.Entry)
	}
	if resolved.ResolvedAt.IsZero() {
		t.Fatal("expected resolution timestamp")
	}
}

func TestFilter(t *testing.T) {
	options := []Link{
		{ID: "1", Title: "Heavy Truck"},
		{ID: "2", Title: "Light Van"},
	}

	if got := Filter(options, "", ""); len(got) != 2 {
		t.Fatalf("empty term should return full set, got %d", len(got))
	}
	if got := Filter(options, "Heavy Truck", "Heavy Truck"); len(got) != 2 {
		t.Fatalf("term equal to displayed value should return full set, got %d", len(got))
	}
	got := Filter(options, "truck", "")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("case-insensitive substring filter failed: %+v", got)
	}
	if got := Filter(options, "barge", ""); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}
