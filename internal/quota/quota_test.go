package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/yourorg/dealdesk-api/internal/store"
)

// fakeStore mimics the conditional-update semantics of the real store: the
// credit is only spent when the user is premium or under the limit.
type fakeStore struct {
	count   int
	premium bool
	missing bool
}

func (f *fakeStore) ConsumeAnalysisCredit(_ context.Context, _, limit int) (store.Usage, error) {
	if f.missing {
		return store.Usage{}, store.ErrNotFound
	}
	if !f.premium && f.count >= limit {
		return store.Usage{AnalysisCount: f.count, IsPremium: false}, store.ErrQuotaExhausted
	}
	f.count++
	return store.Usage{AnalysisCount: f.count, IsPremium: f.premium}, nil
}

func TestGateFreeUserUnderLimit(t *testing.T) {
	g := NewGate(&fakeStore{count: 2})
	u, err := g.Consume(context.Background(), 1)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if u.AnalysisCount != 3 {
		t.Fatalf("count = %d, want 3", u.AnalysisCount)
	}
}

func TestGateFreeUserFourthAnalysisRejected(t *testing.T) {
	fs := &fakeStore{}
	g := NewGate(fs)
	for i := 0; i < FreeAnalysisLimit; i++ {
		if _, err := g.Consume(context.Background(), 1); err != nil {
			t.Fatalf("analysis %d: %v", i+1, err)
		}
	}

	u, err := g.Consume(context.Background(), 1)
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	if u.AnalysisCount != FreeAnalysisLimit {
		t.Fatalf("count = %d, want unchanged %d", u.AnalysisCount, FreeAnalysisLimit)
	}
	if fs.count != FreeAnalysisLimit {
		t.Fatalf("stored count = %d, rejected attempt must not increment", fs.count)
	}
}

func TestGatePremiumNeverBlocked(t *testing.T) {
	g := NewGate(&fakeStore{count: 100, premium: true})
	for i := 0; i < 5; i++ {
		if _, err := g.Consume(context.Background(), 1); err != nil {
			t.Fatalf("premium consume %d: %v", i+1, err)
		}
	}
}

func TestGateUnknownUser(t *testing.T) {
	g := NewGate(&fakeStore{missing: true})
	_, err := g.Consume(context.Background(), 42)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
