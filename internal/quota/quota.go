// Package quota enforces the free-tier analysis allowance.
package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourorg/dealdesk-api/internal/store"
)

// FreeAnalysisLimit is how many analyses a non-premium account gets.
const FreeAnalysisLimit = 3

// ErrLimitReached means the user has spent their free allowance.
var ErrLimitReached = errors.New("quota: analysis limit reached")

// Store is the slice of the persistence layer the gate needs.
type Store interface {
	ConsumeAnalysisCredit(ctx context.Context, userID, limit int) (store.Usage, error)
}

// Gate decides whether an account may run another analysis.
type Gate struct {
	Store Store
	Limit int
}

func NewGate(s Store) *Gate {
	return &Gate{Store: s, Limit: FreeAnalysisLimit}
}

// Consume spends one analysis credit. Premium accounts always pass; free
// accounts pass while under the limit. The returned usage reflects the
// row after the attempt either way.
func (g *Gate) Consume(ctx context.Context, userID int) (store.Usage, error) {
	u, err := g.Store.ConsumeAnalysisCredit(ctx, userID, g.Limit)
	if errors.Is(err, store.ErrQuotaExhausted) {
		return u, fmt.Errorf("%w: %d of %d used", ErrLimitReached, u.AnalysisCount, g.Limit)
	}
	return u, err
}
