package models

// PairQuote is the merged cache entry for one currency pair, remembering
// which source produced it and when.
type PairQuote struct {
	Rate      float64 `json:"rate"`
	UpdatedAt string  `json:"updated_at"`
	Source    string  `json:"source"`
}

// RateCache is the persisted rate table. Rates holds Base units per 1 unit
// of currency; a missing entry means the rate is unknown, never zero.
// Pairs keeps the raw per-pair merge result with provenance. Timestamps are
// kept as strings so that a naive (timezone-less) value survives a reload
// and can still be interpreted as UTC.
type RateCache struct {
	Base        string               `json:"base"`
	Rates       map[string]float64   `json:"rates,omitempty"`
	Pairs       map[string]PairQuote `json:"pairs,omitempty"`
	LastRefresh string               `json:"last_refresh,omitempty"`
	Source      string               `json:"source,omitempty"`
}

// EmptyRateCache returns a cache with no rates, source or timestamp, which
// is always judged stale.
func EmptyRateCache(base string) *RateCache {
	return &RateCache{Base: base}
}

// FetchResult is the normalized output of one rate source invocation. Pair
// keys follow the "{CODE}_USD" convention and values are USD per 1 unit of
// CODE. Never persisted.
type FetchResult struct {
	PairsUSDPerUnit map[string]float64 `json:"pairs_usd_per_unit"`
	Source          string             `json:"source"`
	Meta            map[string]any     `json:"meta,omitempty"`
}

// HistoryRecord is one append-only rate observation. Records are never
// mutated or deleted once written.
type HistoryRecord struct {
	ID           string         `json:"id"`
	FromCurrency string         `json:"from_currency"`
	ToCurrency   string         `json:"to_currency"`
	Rate         float64        `json:"rate"`
	Timestamp    string         `json:"timestamp"`
	Source       string         `json:"source"`
	Meta         map[string]any `json:"meta,omitempty"`
}

// UpdateReport summarizes one updater run. Errors holds one descriptive
// string per failed source; a run with errors can still be successful if the
// cache write went through.
type UpdateReport struct {
	StartedAt      string   `json:"started_at"`
	LastRefresh    string   `json:"last_refresh"`
	UpdatedPairs   int      `json:"updated_pairs"`
	HistoryRecords int      `json:"history_records"`
	Errors         []string `json:"errors"`
}

// Quote is the result of a rate lookup, bundling provenance for display.
type Quote struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Rate        float64 `json:"rate"`
	Base        string  `json:"base"`
	Source      string  `json:"source,omitempty"`
	LastRefresh string  `json:"last_refresh,omitempty"`
}

// Session is the persisted login state. At most one session is active at a
// time; it is overwritten on login and cleared on logout.
type Session struct {
	UserID   *int    `json:"user_id"`
	Username *string `json:"username"`
}

// Active reports whether a user is currently logged in.
func (s *Session) Active() bool {
	return s != nil && s.UserID != nil
}
