package interfaces

import (
	"context"

	"github.com/valutatrade/valutahub/internal/models"
)

// RateService serves currency conversions, refreshing the underlying cache
// when it is stale.
type RateService interface {
	// EnsureFresh returns the current rate cache, refreshing it first when
	// stale or structurally incomplete.
	EnsureFresh(ctx context.Context) (*models.RateCache, error)

	// GetRate returns the conversion rate from one unit of `from` into `to`,
	// along with provenance for display. Identical codes convert at exactly
	// 1.0 without touching the cache.
	GetRate(ctx context.Context, from, to string) (*models.Quote, error)
}
