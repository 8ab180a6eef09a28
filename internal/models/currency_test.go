package models

import (
	"errors"
	"testing"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"lowercase", "btc", "BTC", false},
		{"padded", "  eur ", "EUR", false},
		{"two chars", "zk", "ZK", false},
		{"five chars", "MATIC", "MATIC", false},
		{"too short", "x", "", true},
		{"too long", "LONGCODE", "", true},
		{"empty", "", "", true},
		{"inner space", "B C", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCode(tt.input)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFiatValidation(t *testing.T) {
	if _, err := NewFiat("USD", "US Dollar", ""); err == nil {
		t.Error("expected error for empty issuing country")
	}
	if _, err := NewFiat("USD", "", "United States"); err == nil {
		t.Error("expected error for empty name")
	}
	c, err := NewFiat("usd", "US Dollar", "United States")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Code != "USD" || c.Kind != KindFiat {
		t.Errorf("unexpected currency: %+v", c)
	}
}

func TestNewCryptoValidation(t *testing.T) {
	if _, err := NewCrypto("BTC", "Bitcoin", "SHA-256", -1); err == nil {
		t.Error("expected error for negative market cap")
	}
	if _, err := NewCrypto("BTC", "Bitcoin", "", 1); err == nil {
		t.Error("expected error for empty algorithm")
	}
	if _, err := NewCrypto("BTC", "Bitcoin", "SHA-256", 0); err != nil {
		t.Errorf("zero market cap must be allowed: %v", err)
	}
}

func TestDisplayInfo(t *testing.T) {
	fiat, err := NewFiat("EUR", "Euro", "Eurozone")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := fiat.DisplayInfo(), "[FIAT]EUR - Euro (Issuing: Eurozone)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	crypto, err := NewCrypto("BTC", "Bitcoin", "SHA-256", 1.12e12)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := crypto.DisplayInfo(), "[CRYPTO]BTC - Bitcoin (Algo: SHA-256, MCAP: 1.12e+12)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRegistryGet(t *testing.T) {
	registry := DefaultRegistry()

	c, err := registry.Get(" btc ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Code != "BTC" || c.Kind != KindCrypto {
		t.Errorf("unexpected currency: %+v", c)
	}

	_, err = registry.Get("ZZZ")
	var notFound *CurrencyNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected CurrencyNotFoundError, got %v", err)
	}
	if notFound.Code != "ZZZ" {
		t.Errorf("got code %q, want ZZZ", notFound.Code)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	usd, _ := NewFiat("USD", "US Dollar", "United States")
	if _, err := NewRegistry(usd, usd); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestDefaultRegistryOrder(t *testing.T) {
	all := DefaultRegistry().All()
	if len(all) != 7 {
		t.Fatalf("expected 7 currencies, got %d", len(all))
	}
	if all[0].Code != "USD" || all[4].Code != "BTC" {
		t.Errorf("registration order not preserved: %v", all)
	}
}
