// Package refresh runs background re-fetches of cached search results so
// stale cache entries can be served immediately and repaired off the
// request path.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/yourorg/dealdesk-api/realty"
)

type Job struct {
	CacheKey string
	Input    realty.SearchInput
}

type Refresher struct {
	ch    chan Job
	inFly sync.Map // cache key -> struct{}
	Do    func(ctx context.Context, j Job)
}

func New(capacity int, workerCount int, do func(ctx context.Context, j Job)) *Refresher {
	if capacity <= 0 {
		capacity = 256
	}
	if workerCount <= 0 {
		workerCount = 2
	}
	r := &Refresher{ch: make(chan Job, capacity), Do: do}
	for i := 0; i < workerCount; i++ {
		go r.worker()
	}
	return r
}

// Enqueue schedules a refresh unless one for the same cache key is already
// queued or running. Jobs are dropped when the queue is saturated.
func (r *Refresher) Enqueue(j Job) {
	if _, exists := r.inFly.LoadOrStore(j.CacheKey, struct{}{}); exists {
		return
	}
	select {
	case r.ch <- j:
	default:
		r.inFly.Delete(j.CacheKey)
	}
}

func (r *Refresher) worker() {
	for j := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		func() {
			defer func() {
				r.inFly.Delete(j.CacheKey)
				cancel()
			}()
			if r.Do != nil {
				r.Do(ctx, j)
			}
		}()
	}
}
