package models

import (
	"fmt"
	"strings"
)

// CurrencyKind tags the two currency variants.
type CurrencyKind string

const (
	KindFiat   CurrencyKind = "fiat"
	KindCrypto CurrencyKind = "crypto"
)

// Currency is a registered currency. The Kind field selects which of the
// kind-specific attributes are meaningful: IssuingCountry for fiat,
// Algorithm and MarketCap for crypto. Values are immutable once registered.
type Currency struct {
	Code string       `json:"code"`
	Name string       `json:"name"`
	Kind CurrencyKind `json:"kind"`

	IssuingCountry string  `json:"issuing_country,omitempty"`
	Algorithm      string  `json:"algorithm,omitempty"`
	MarketCap      float64 `json:"market_cap,omitempty"`
}

// NormalizeCode trims and uppercases a currency code and validates its shape:
// 2-5 characters, no whitespace.
func NormalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) < 2 || len(c) > 5 || strings.ContainsAny(c, " \t") {
		return "", &ValidationError{Field: "currency code", Reason: "must be 2-5 characters without spaces"}
	}
	return c, nil
}

func validateName(field, name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return n, nil
}

// NewFiat builds a validated fiat currency.
func NewFiat(code, name, issuingCountry string) (Currency, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return Currency{}, err
	}
	n, err := validateName("currency name", name)
	if err != nil {
		return Currency{}, err
	}
	country, err := validateName("issuing country", issuingCountry)
	if err != nil {
		return Currency{}, err
	}
	return Currency{Code: c, Name: n, Kind: KindFiat, IssuingCountry: country}, nil
}

// NewCrypto builds a validated crypto currency. MarketCap must be >= 0.
func NewCrypto(code, name, algorithm string, marketCap float64) (Currency, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return Currency{}, err
	}
	n, err := validateName("currency name", name)
	if err != nil {
		return Currency{}, err
	}
	algo, err := validateName("algorithm", algorithm)
	if err != nil {
		return Currency{}, err
	}
	if marketCap < 0 {
		return Currency{}, &ValidationError{Field: "market cap", Reason: "must be >= 0"}
	}
	return Currency{Code: c, Name: n, Kind: KindCrypto, Algorithm: algo, MarketCap: marketCap}, nil
}

// DisplayInfo renders the one-line descriptive label for the currency.
func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case KindCrypto:
		return fmt.Sprintf("[CRYPTO]%s - %s (Algo: %s, MCAP: %.2e)", c.Code, c.Name, c.Algorithm, c.MarketCap)
	default:
		return fmt.Sprintf("[FIAT]%s - %s (Issuing: %s)", c.Code, c.Name, c.IssuingCountry)
	}
}

// Registry is the static catalog of known currencies, keyed by code.
type Registry struct {
	currencies map[string]Currency
	order      []string
}

// NewRegistry builds a registry from the given currencies. Codes must be
// unique; a duplicate is a programming error at construction time.
func NewRegistry(currencies ...Currency) (*Registry, error) {
	r := &Registry{currencies: make(map[string]Currency, len(currencies))}
	for _, c := range currencies {
		if _, dup := r.currencies[c.Code]; dup {
			return nil, &ValidationError{Field: "currency code", Reason: fmt.Sprintf("duplicate registration of %s", c.Code)}
		}
		r.currencies[c.Code] = c
		r.order = append(r.order, c.Code)
	}
	return r, nil
}

// Get normalizes the code and looks it up. No side effects.
func (r *Registry) Get(code string) (Currency, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return Currency{}, err
	}
	cur, ok := r.currencies[c]
	if !ok {
		return Currency{}, &CurrencyNotFoundError{Code: c}
	}
	return cur, nil
}

// All returns the registered currencies in registration order.
func (r *Registry) All() []Currency {
	out := make([]Currency, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.currencies[code])
	}
	return out
}

// DefaultRegistry returns the built-in currency catalog.
func DefaultRegistry() *Registry {
	mustFiat := func(code, name, country string) Currency {
		c, err := NewFiat(code, name, country)
		if err != nil {
			panic(err)
		}
		return c
	}
	mustCrypto := func(code, name, algo string, mcap float64) Currency {
		c, err := NewCrypto(code, name, algo, mcap)
		if err != nil {
			panic(err)
		}
		return c
	}
	r, err := NewRegistry(
		mustFiat("USD", "US Dollar", "United States"),
		mustFiat("EUR", "Euro", "Eurozone"),
		mustFiat("GBP", "Pound Sterling", "United Kingdom"),
		mustFiat("RUB", "Russian Ruble", "Russia"),
		mustCrypto("BTC", "Bitcoin", "SHA-256", 1.12e12),
		mustCrypto("ETH", "Ethereum", "Ethash", 4.50e11),
		mustCrypto("SOL", "Solana", "PoH", 8.10e10),
	)
	if err != nil {
		panic(err)
	}
	return r
}
