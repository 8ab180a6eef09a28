package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutahub/internal/clients"
	"github.com/valutatrade/valutahub/internal/common"
)

func testCurrencies() common.CurrenciesConfig {
	return common.CurrenciesConfig{
		Crypto: []string{"BTC", "ETH"},
		CryptoIDs: map[string]string{
			"BTC": "bitcoin",
			"ETH": "ethereum",
		},
	}
}

func newTestClient(serverURL string, currencies common.CurrenciesConfig) *Client {
	return NewClient(common.CoinGeckoConfig{}, currencies, WithBaseURL(serverURL))
}

func TestFetchRatesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":59337.21},"ethereum":{"usd":3012.5}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, testCurrencies())
	result, err := client.FetchRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Source, result.Source)
	assert.Equal(t, map[string]float64{
		"BTC_USD": 59337.21,
		"ETH_USD": 3012.5,
	}, result.PairsUSDPerUnit)
	assert.Equal(t, 2, result.Meta["count"])
}

func TestFetchRatesSkipsUnknownAndNonPositive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"usd":0},"dogecoin":{"usd":0.1},"ethereum":{"usd":3000}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, testCurrencies())
	result, err := client.FetchRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"ETH_USD": 3000}, result.PairsUSDPerUnit)
}

func TestFetchRatesNoConfiguredIDs(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", common.CurrenciesConfig{})
	result, err := client.FetchRates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.PairsUSDPerUnit)
}

func TestFetchRatesRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL, testCurrencies())
	_, err := client.FetchRates(context.Background())
	var reqErr *clients.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, clients.KindRateLimited, reqErr.Kind)
	assert.Equal(t, 429, reqErr.Status)
}

func TestFetchRatesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, testCurrencies())
	_, err := client.FetchRates(context.Background())
	var reqErr *clients.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, clients.KindUpstream, reqErr.Kind)
	assert.Contains(t, reqErr.Error(), "HTTP 500")
}

func TestFetchRatesInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, testCurrencies())
	_, err := client.FetchRates(context.Background())
	var reqErr *clients.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, clients.KindInvalidResponse, reqErr.Kind)
}

func TestFetchRatesNetworkError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", testCurrencies())
	_, err := client.FetchRates(context.Background())
	var reqErr *clients.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, clients.KindNetwork, reqErr.Kind)
}
