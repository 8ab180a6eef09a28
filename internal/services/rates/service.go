// Package rates holds the rate cache, the conversion engine and the updater
// that refreshes the cache from the configured sources.
package rates

import (
	"context"
	"time"

	"github.com/valutatrade/valutahub/internal/common"
	"github.com/valutatrade/valutahub/internal/interfaces"
	"github.com/valutatrade/valutahub/internal/models"
)

// Service serves currency conversions from the persisted rate cache,
// refreshing it synchronously through the updater whenever it is stale.
type Service struct {
	store    interfaces.Store
	registry *models.Registry
	updater  *Updater
	ttl      time.Duration
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewService creates a rate service. ttl <= 0 falls back to the default.
func NewService(store interfaces.Store, registry *models.Registry, updater *Updater, ttl time.Duration, logger *common.Logger) *Service {
	if ttl <= 0 {
		ttl = common.DefaultRatesTTL
	}
	return &Service{
		store:    store,
		registry: registry,
		updater:  updater,
		ttl:      ttl,
		logger:   logger,
		now:      common.NowUTC,
	}
}

// EnsureFresh returns the current rate cache, refreshing it first when it is
// older than the TTL or structurally incomplete. The refresh is synchronous;
// every caller pays the cost when the cache is stale.
func (s *Service) EnsureFresh(ctx context.Context) (*models.RateCache, error) {
	cache, err := s.store.LoadRates()
	if err != nil {
		return nil, err
	}
	if len(cache.Rates) > 0 && common.IsFreshAt(cache.LastRefresh, s.ttl, s.now()) {
		return cache, nil
	}

	s.logger.Debug().Str("last_refresh", cache.LastRefresh).Msg("rate cache stale, refreshing")
	report, err := s.updater.RunUpdate(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, msg := range report.Errors {
		s.logger.Warn().Str("error", msg).Msg("rate refresh error")
	}
	return s.store.LoadRates()
}

// GetRate resolves both codes through the registry and returns the conversion
// rate from one unit of `from` expressed per the cached base table. Identical
// codes convert at exactly 1.0 without touching the cache.
func (s *Service) GetRate(ctx context.Context, from, to string) (*models.Quote, error) {
	cf, err := s.registry.Get(from)
	if err != nil {
		return nil, err
	}
	ct, err := s.registry.Get(to)
	if err != nil {
		return nil, err
	}

	if cf.Code == ct.Code {
		return &models.Quote{From: cf.Code, To: ct.Code, Rate: 1.0}, nil
	}

	cache, err := s.EnsureFresh(ctx)
	if err != nil {
		return nil, err
	}
	if len(cache.Rates) == 0 {
		return nil, models.ErrRatesUnavailable
	}

	rate, err := convert(cache, cf.Code, ct.Code)
	if err != nil {
		return nil, err
	}
	return &models.Quote{
		From:        cf.Code,
		To:          ct.Code,
		Rate:        rate,
		Base:        cache.Base,
		Source:      cache.Source,
		LastRefresh: cache.LastRefresh,
	}, nil
}

// Ensure Service implements RateService
var _ interfaces.RateService = (*Service)(nil)

// convert applies base-relative arithmetic over a table of base units per
// 1 unit of currency. A missing or zero entry means the rate is unknown,
// never an infinite result.
func convert(cache *models.RateCache, from, to string) (float64, error) {
	perBase := func(code string) (float64, error) {
		r, ok := cache.Rates[code]
		if !ok || r == 0 {
			return 0, &models.RateUnavailableError{Code: code}
		}
		return r, nil
	}

	switch {
	case from == cache.Base:
		r, err := perBase(to)
		if err != nil {
			return 0, err
		}
		return 1.0 / r, nil
	case to == cache.Base:
		return perBase(from)
	default:
		rf, err := perBase(from)
		if err != nil {
			return 0, err
		}
		rt, err := perBase(to)
		if err != nil {
			return 0, err
		}
		return rf / rt, nil
	}
}
