package weather

import (
	"context"
	"log"
	"sync"
	"time"
)

// TimelineFetcher is the outbound side of the cache: one call per
// (location, start, end) triple returning daily records.
type TimelineFetcher interface {
	FetchTimeline(ctx context.Context, location, start, end string) ([]Record, error)
}

type cacheEntry struct {
	records   []Record
	fetchedAt time.Time
}

// FetchCache memoizes timeline fetches keyed by the exact (start, end) string
// pair, with a fixed validity window. A hit returns without any network call;
// a miss or stale entry performs exactly one provider call and repopulates.
type FetchCache struct {
	mu       sync.Mutex
	fetcher  TimelineFetcher
	location string
	ttl      time.Duration
	entries  map[string]cacheEntry

	now func() time.Time
}

func NewFetchCache(fetcher TimelineFetcher, location string, ttl time.Duration) *FetchCache {
	return &FetchCache{
		fetcher:  fetcher,
		location: location,
		ttl:      ttl,
		entries:  make(map[string]cacheEntry),
		now:      time.Now,
	}
}

// Location returns the fixed location this cache fetches for.
func (c *FetchCache) Location() string {
	return c.location
}

// Fetch returns records for the range, from cache when fresh. The mutex is
// held across the populate-on-miss so concurrent misses for the same range
// cannot issue duplicate provider calls. A failed fetch leaves any prior
// entry untouched.
func (c *FetchCache) Fetch(ctx context.Context, r Range) ([]Record, error) {
	key := r.Start + "/" + r.End

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		log.Printf("DEBUG: weather cache hit for %s", key)
		return entry.records, nil
	}

	records, err := c.fetcher.FetchTimeline(ctx, c.location, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	c.entries[key] = cacheEntry{records: records, fetchedAt: c.now()}
	log.Printf("INFO: weather cache populated for %s (%d days)", key, len(records))
	return records, nil
}

// EvictExpired drops entries past the validity window and returns how many
// were removed. Run periodically by the janitor.
func (c *FetchCache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	cutoff := c.now().Add(-c.ttl)
	for key, entry := range c.entries {
		if entry.fetchedAt.Before(cutoff) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
