// Package snapshot records raw upstream search payloads for later audit
// and mapper regression work. Writes are best-effort and never block or
// fail a search request.
package snapshot

import (
	"context"
	"log"
	"time"
)

type Store interface {
	InsertSearchSnapshot(ctx context.Context, provider, endpoint, city, stateCode string, payload []byte) error
}

type Recorder struct {
	Store    Store
	Provider string
}

func NewRecorder(s Store, provider string) *Recorder {
	return &Recorder{Store: s, Provider: provider}
}

// Record persists the payload on a background goroutine with its own
// deadline, detached from the request context.
func (r *Recorder) Record(endpoint, city, stateCode string, payload []byte) {
	if r == nil || r.Store == nil || len(payload) == 0 {
		return
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.Store.InsertSearchSnapshot(ctx, r.Provider, endpoint, city, stateCode, buf); err != nil {
			log.Printf("[WARN] snapshot write failed for %s %s/%s: %v", endpoint, city, stateCode, err)
		}
	}()
}
