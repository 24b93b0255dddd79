package refcache

import (
	"testing"
	"time"
)

type option struct {
	ID    string
	Title string
}

func TestSetThenGetReturnsData(t *testing.T) {
	cache := New[[]option](0)

	if _, ok := cache.Get("vehicle-type", "LIST"); ok {
		t.Fatal("expected miss on fresh cache")
	}

	data := []option{{ID: "1", Title: "Truck"}}
	cache.Set("vehicle-type", "LIST", data)

	got, ok := cache.Get("vehicle-type", "LIST")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if len(got) != 1 || got[0].Title != "Truck" {
		t.Fatalf("unexpected data: %+v", got)
	}
}

func TestLazyExpiryRemovesEntry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	cache := New(time.Minute, WithClock[[]option](clock))

	cache.Set("vehicle-type", "LIST", []option{{ID: "1"}})

	now = now.Add(61 * time.Second)
	if _, ok := cache.Get("vehicle-type", "LIST"); ok {
		t.Fatal("expected expiry after TTL elapsed")
	}
	if cache.Len() != 0 {
		t.Fatalf("expired entry should be deleted, len=%d", cache.Len())
	}
}

func TestSearchTermOccupiesSeparateSlot(t *testing.T) {
	cache := New[[]option](0)
	cache.Set("counter-party", "CATALOG", []option{{ID: "a"}})
	cache.Set("counter-party", "CATALOG", []option{{ID: "b"}}, SetOption{Search: "acme"})

	plain, ok := cache.Get("counter-party", "CATALOG")
	if !ok || plain[0].ID != "a" {
		t.Fatalf("unexpected unsearched slot: %+v ok=%v", plain, ok)
	}
	searched, ok := cache.Get("counter-party", "CATALOG", "acme")
	if !ok || searched[0].ID != "b" {
		t.Fatalf("unexpected searched slot: %+v ok=%v", searched, ok)
	}
}

func TestInvalidateWithKindRemovesOnlyMatchingPrefix(t *testing.T) {
	cache := New[[]option](0)
	cache.Set("vehicle-type", "LIST", []option{{ID: "1"}})
	cache.Set("vehicle-type", "LIST", []option{{ID: "2"}}, SetOption{Search: "van"})
	cache.Set("vehicle-type", "CATALOG", []option{{ID: "3"}})
	cache.Set("cargo-nature", "LIST", []option{{ID: "4"}})

	cache.Invalidate("vehicle-type", "LIST")

	if _, ok := cache.Get("vehicle-type", "LIST"); ok {
		t.Fatal("LIST slot should be gone")
	}
	if _, ok := cache.Get("vehicle-type", "LIST", "van"); ok {
		t.Fatal("searched LIST slot should be gone")
	}
	if _, ok := cache.Get("vehicle-type", "CATALOG"); !ok {
		t.Fatal("CATALOG slot should survive kind-scoped invalidation")
	}
	if _, ok := cache.Get("cargo-nature", "LIST"); !ok {
		t.Fatal("other catalog should survive")
	}
}

func TestInvalidateWithoutKindRemovesAllVariants(t *testing.T) {
	cache := New[[]option](0)
	cache.Set("vehicle-type", "LIST", []option{{ID: "1"}})
	cache.Set("vehicle-type", "CATALOG", []option{{ID: "2"}})
	cache.Set("cargo-nature", "LIST", []option{{ID: "3"}})

	cache.Invalidate("vehicle-type")

	if _, ok := cache.Get("vehicle-type", "LIST"); ok {
		t.Fatal("LIST slot should be gone")
	}
	if _, ok := cache.Get("vehicle-type", "CATALOG"); ok {
		t.Fatal("CATALOG slot should be gone")
	}
	if _, ok := cache.Get("cargo-nature", "LIST"); !ok {
		t.Fatal("unrelated catalog should survive")
	}
}

func TestClear(t *testing.T) {
	cache := New[[]option](0)
	cache.Set("vehicle-type", "LIST", []option{{ID: "1"}})
	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, len=%d", cache.Len())
	}
}
