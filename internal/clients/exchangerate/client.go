// Package exchangerate provides a rate source client for ExchangeRate-API
package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
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
	Source = "ExchangeRate-API"

	DefaultBaseURL   = "https://v6.exchangerate-api.com/v6"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client fetches fiat rates against a base currency. The provider quotes
// CCY per 1 base unit, so the normalized USD-per-unit value is the inverse.
type Client struct {
	baseURL    string
	apiKey     string
	base       string
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

// NewClient creates a new ExchangeRate-API client. baseCurrency is the fiat
// the provider anchors its quotes on, normally USD.
func NewClient(cfg common.ExchangeRateConfig, currencies common.CurrenciesConfig, baseCurrency string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     cfg.APIKey,
		base:       baseCurrency,
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

// latestResponse is the provider payload. Older plans use "rates", newer
// ones "conversion_rates"; both map CCY -> units per 1 base.
type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	BaseCode        string             `json:"base_code"`
	TimeLastUpdate  string             `json:"time_last_update_utc"`
	Rates           map[string]float64 `json:"rates"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// FetchRates implements interfaces.RateSource.
func (c *Client) FetchRates(ctx context.Context) (*models.FetchResult, error) {
	if c.apiKey == "" {
		return nil, &clients.RequestError{
			Source: Source, Kind: clients.KindUnauthorized,
			Message: "missing API key (set EXCHANGERATE_API_KEY)",
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, clients.NetworkError(Source, err, false)
	}

	reqURL := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, c.base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, clients.NetworkError(Source, err, false)
	}

	c.logger.Debug().Str("base", c.base).Msg("ExchangeRate-API request")

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

	var payload latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, clients.InvalidResponse(Source, "invalid JSON", err)
	}
	if payload.Result != "success" {
		return nil, clients.InvalidResponse(Source,
			fmt.Sprintf("result != success (%s)", payload.ErrorType), nil)
	}

	rates := payload.ConversionRates
	if len(rates) == 0 {
		rates = payload.Rates
	}
	if rates == nil {
		return nil, clients.InvalidResponse(Source, "missing rates table", nil)
	}

	pairs := make(map[string]float64, len(c.currencies.Fiat))
	for _, ccy := range c.currencies.Fiat {
		if v, ok := rates[ccy]; ok && v > 0 {
			// v is CCY per base; normalized convention is USD per unit of CCY.
			pairs[ccy+"_USD"] = 1.0 / v
		}
	}

	c.logger.Debug().Int("count", len(pairs)).Int64("request_ms", requestMS).Msg("ExchangeRate-API quotes received")

	return &models.FetchResult{
		PairsUSDPerUnit: pairs,
		Source:          Source,
		Meta: map[string]any{
			"status_code":          resp.StatusCode,
			"request_ms":           requestMS,
			"time_last_update_utc": payload.TimeLastUpdate,
			"count":                len(pairs),
		},
	}, nil
}

// Ensure Client implements RateSource
var _ interfaces.RateSource = (*Client)(nil)
