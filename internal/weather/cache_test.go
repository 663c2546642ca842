package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingFetcher struct {
	calls int
	fail  error
}

func (f *countingFetcher) FetchTimeline(ctx context.Context, location, start, end string) ([]Record, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	return []Record{{Date: start, TempC: 25}}, nil
}

func TestFetchCacheHitWithinWindow(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewFetchCache(fetcher, "Hyderabad, India", time.Hour)

	r := Range{Start: "2025-03-08", End: "2025-03-15"}
	if _, err := cache.Fetch(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Fetch(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", fetcher.calls)
	}
}

func TestFetchCacheDistinctKeys(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewFetchCache(fetcher, "Hyderabad, India", time.Hour)

	cache.Fetch(context.Background(), Range{Start: "2025-03-08", End: "2025-03-15"})
	cache.Fetch(context.Background(), Range{Start: "2025-03-01", End: "2025-03-15"})
	if fetcher.calls != 2 {
		t.Fatalf("distinct ranges must fetch separately, got %d calls", fetcher.calls)
	}
}

func TestFetchCacheExpiry(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewFetchCache(fetcher, "Hyderabad, India", time.Hour)

	clock := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	r := Range{Start: "2025-03-08", End: "2025-03-15"}
	cache.Fetch(context.Background(), r)

	clock = clock.Add(61 * time.Minute)
	cache.Fetch(context.Background(), r)
	if fetcher.calls != 2 {
		t.Fatalf("stale entry should re-fetch, got %d calls", fetcher.calls)
	}
}

func TestFetchCacheFailureLeavesEntry(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewFetchCache(fetcher, "Hyderabad, India", time.Hour)

	clock := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	r := Range{Start: "2025-03-08", End: "2025-03-15"}
	if _, err := cache.Fetch(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Entry goes stale, then the provider starts failing.
	clock = clock.Add(2 * time.Hour)
	fetcher.fail = errors.New("provider down")
	if _, err := cache.Fetch(context.Background(), r); err == nil {
		t.Fatal("expected fetch error")
	}

	// The stale entry must survive the failure so a later retry can succeed.
	fetcher.fail = nil
	records, err := cache.Fetch(context.Background(), r)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestEvictExpired(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewFetchCache(fetcher, "Hyderabad, India", time.Hour)

	clock := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	cache.Fetch(context.Background(), Range{Start: "2025-03-08", End: "2025-03-15"})
	clock = clock.Add(30 * time.Minute)
	cache.Fetch(context.Background(), Range{Start: "2025-03-01", End: "2025-03-15"})

	clock = clock.Add(45 * time.Minute)
	if n := cache.EvictExpired(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}

	// The surviving entry is still a hit.
	before := fetcher.calls
	cache.Fetch(context.Background(), Range{Start: "2025-03-01", End: "2025-03-15"})
	if fetcher.calls != before {
		t.Fatal("fresh entry was evicted")
	}
}
