// Package coingecko provides a rate source client for the CoinGecko API
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/valutatrade/valutahub/internal/clients"
	"github.com/valutatrade/valutahub/internal/common"
	"github.com/valutatrade/valutahub/internal/interfaces"
	"github.com/valutatrade/valutahub/internal/models"
)

const (
	// Source is the merge/provenance identity of this client.
	Source = "CoinGecko"

	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client fetches crypto spot prices in USD. CoinGecko quotes USD per coin,
// which is already the normalized "USD per unit" convention.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
	currencies common.CurrenciesConfig
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new CoinGecko client for the tracked crypto currencies.
func NewClient(cfg common.CoinGeckoConfig, currencies common.CurrenciesConfig, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
		currencies: currencies,
	}
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.Timeout != "" {
		c.httpClient.Timeout = cfg.GetTimeout()
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SourceName implements interfaces.RateSource.
func (c *Client) SourceName() string { return Source }

// coinIDs returns the provider ids for the tracked crypto codes, sorted for
// a stable request URL, plus the id -> ticker inverse map.
func (c *Client) coinIDs() ([]string, map[string]string) {
	var ids []string
	inverse := make(map[string]string, len(c.currencies.Crypto))
	for _, code := range c.currencies.Crypto {
		id, ok := c.currencies.CryptoIDs[code]
		if !ok || id == "" {
			continue
		}
		ids = append(ids, id)
		inverse[id] = code
	}
	sort.Strings(ids)
	return ids, inverse
}

// FetchRates implements interfaces.RateSource. A client with no configured
// coin ids has nothing to price and returns an empty result, not an error.
func (c *Client) FetchRates(ctx context.Context) (*models.FetchResult, error) {
	ids, inverse := c.coinIDs()
	if len(ids) == 0 {
		return &models.FetchResult{
			PairsUSDPerUnit: map[string]float64{},
			Source:          Source,
			Meta:            map[string]any{"note": "no crypto ids configured"},
		}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, clients.NetworkError(Source, err, false)
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", "usd")
	reqURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, clients.NetworkError(Source, err, false)
	}

	c.logger.Debug().Str("url", c.baseURL+"/simple/price").Msg("CoinGecko request")

	t0 := time.Now()
	resp, err := c.httpClient.Do(req)
	requestMS := time.Since(t0).Milliseconds()
	if err != nil {
		var nerr net.Error
		timedOut := (errors.As(err, &nerr) && nerr.Timeout()) || errors.Is(err, context.DeadlineExceeded)
		return nil, clients.NetworkError(Source, err, timedOut)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, clients.ClassifyStatus(Source, resp.StatusCode)
	}

	// payload: {"bitcoin": {"usd": 59337.21}, ...}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, clients.InvalidResponse(Source, "invalid JSON", err)
	}

	pairs := make(map[string]float64, len(payload))
	for coinID, quote := range payload {
		ticker, ok := inverse[coinID]
		if !ok {
			continue
		}
		if usd, ok := quote["usd"]; ok && usd > 0 {
			pairs[ticker+"_USD"] = usd
		}
	}

	c.logger.Debug().Int("count", len(pairs)).Int64("request_ms", requestMS).Msg("CoinGecko quotes received")

	return &models.FetchResult{
		PairsUSDPerUnit: pairs,
		Source:          Source,
		Meta: map[string]any{
			"status_code": resp.StatusCode,
			"request_ms":  requestMS,
			"count":       len(pairs),
		},
	}, nil
}

// Ensure Client implements RateSource
var _ interfaces.RateSource = (*Client)(nil)
