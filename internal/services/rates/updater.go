package rates

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/valutatrade/valutahub/internal/common"
	"github.com/valutatrade/valutahub/internal/interfaces"
	"github.com/valutatrade/valutahub/internal/models"
)

// Updater fans out to the configured rate sources and rebuilds the persisted
// cache from this run's results. Sources are consulted in registration order;
// when two sources quote the same pair, the later one wins.
type Updater struct {
	sources []interfaces.RateSource
	store   interfaces.Store
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewUpdater creates an updater over the given sources. Source order is
// significant and preserved.
func NewUpdater(store interfaces.Store, logger *common.Logger, sources ...interfaces.RateSource) *Updater {
	return &Updater{
		sources: sources,
		store:   store,
		logger:  logger,
		now:     common.NowUTC,
	}
}

// RunUpdate fetches rates from every configured source (or just the one
// matching sourceFilter, case-insensitive), merges the pairs last-writer-wins,
// derives the base-relative rate table and persists cache plus history.
//
// A source failure is recorded in the report and does not abort the run; the
// run only fails outright when no source matches the filter or when the cache
// write itself fails.
func (u *Updater) RunUpdate(ctx context.Context, sourceFilter string) (*models.UpdateReport, error) {
	startedAt := u.now()
	report := &models.UpdateReport{
		StartedAt: common.FormatTimestamp(startedAt),
		Errors:    []string{},
	}

	selected := u.selectSources(sourceFilter)
	if sourceFilter != "" && len(selected) == 0 {
		return nil, &models.ValidationError{Field: "source", Reason: fmt.Sprintf("unknown rate source %q", sourceFilter)}
	}

	previous, err := u.store.LoadRates()
	if err != nil {
		return nil, err
	}

	// The merge starts empty every run and the cache is replaced wholesale,
	// so a pair nobody quoted this run drops out instead of being re-stamped
	// fresh with a stale price.
	merged := make(map[string]models.PairQuote)
	var history []models.HistoryRecord
	var succeeded []string

	for _, source := range selected {
		name := source.SourceName()
		result, err := source.FetchRates(ctx)
		if err != nil {
			u.logger.Warn().Str("source", name).Err(err).Msg("rate source failed")
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		mergedAt := common.FormatTimestamp(u.now())
		for _, pair := range sortedPairKeys(result.PairsUSDPerUnit) {
			rate := result.PairsUSDPerUnit[pair]
			merged[pair] = models.PairQuote{
				Rate:      rate,
				UpdatedAt: mergedAt,
				Source:    result.Source,
			}
			from, to, ok := splitPairKey(pair)
			if !ok {
				continue
			}
			history = append(history, models.HistoryRecord{
				ID:           uuid.NewString(),
				FromCurrency: from,
				ToCurrency:   to,
				Rate:         rate,
				Timestamp:    mergedAt,
				Source:       result.Source,
				Meta:         result.Meta,
			})
		}
		succeeded = append(succeeded, result.Source)
		u.logger.Info().Str("source", name).Int("pairs", len(result.PairsUSDPerUnit)).Msg("rates fetched")
	}
	report.UpdatedPairs = len(merged)

	if len(succeeded) == 0 {
		// Nothing fetched; leave the persisted cache untouched.
		report.LastRefresh = previous.LastRefresh
		return report, nil
	}

	// The pair convention is "{CODE}_USD" with USD-per-unit values, which is
	// exactly the base-relative table the conversion engine consumes.
	rates := make(map[string]float64, len(merged))
	for pair, quote := range merged {
		code, base, ok := splitPairKey(pair)
		if !ok || base != previous.Base {
			continue
		}
		rates[code] = quote.Rate
	}

	cache := &models.RateCache{
		Base:        previous.Base,
		Rates:       rates,
		Pairs:       merged,
		LastRefresh: common.FormatTimestamp(u.now()),
		Source:      strings.Join(succeeded, ","),
	}
	report.LastRefresh = cache.LastRefresh

	if err := u.store.SaveRates(cache); err != nil {
		return nil, fmt.Errorf("failed to persist rate cache: %w", err)
	}
	if err := u.store.AppendHistory(history); err != nil {
		return nil, fmt.Errorf("failed to append rate history: %w", err)
	}
	report.HistoryRecords = len(history)

	u.logger.Info().
		Int("pairs", report.UpdatedPairs).
		Int("history", report.HistoryRecords).
		Int("errors", len(report.Errors)).
		Msg("rate update complete")
	return report, nil
}

// selectSources returns the sources matching the filter, or all of them when
// the filter is empty. Order is preserved.
func (u *Updater) selectSources(filter string) []interfaces.RateSource {
	if filter == "" {
		return u.sources
	}
	var selected []interfaces.RateSource
	for _, source := range u.sources {
		if strings.EqualFold(source.SourceName(), filter) {
			selected = append(selected, source)
		}
	}
	return selected
}

func sortedPairKeys(pairs map[string]float64) []string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitPairKey(pair string) (from, to string, ok bool) {
	idx := strings.LastIndex(pair, "_")
	if idx <= 0 || idx == len(pair)-1 {
		return "", "", false
	}
	return pair[:idx], pair[idx+1:], true
}
