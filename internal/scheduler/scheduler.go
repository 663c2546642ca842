package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/rkondla/chiller-dashboard/internal/weather"
)

// Janitor periodically evicts expired entries from the weather fetch cache so
// stale provider responses do not accumulate between queries.
type Janitor struct {
	scheduler *gocron.Scheduler
	cache     *weather.FetchCache
	interval  time.Duration
}

// New creates a new Janitor.
func New(cache *weather.FetchCache, interval time.Duration) *Janitor {
	s := gocron.NewScheduler(time.UTC)
	return &Janitor{
		scheduler: s,
		cache:     cache,
		interval:  interval,
	}
}

// Start schedules the eviction job and starts the underlying scheduler.
func (j *Janitor) Start() error {
	minutes := int(j.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := j.scheduler.Every(minutes).Minutes().Do(func() {
		if n := j.cache.EvictExpired(); n > 0 {
			log.Printf("INFO: cache janitor evicted %d expired weather entries", n)
		}
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
