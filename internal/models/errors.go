package models

import "fmt"

// ErrRatesUnavailable is returned when the rate cache holds no rates at all,
// typically after every configured source failed on a cold cache.
var ErrRatesUnavailable = fmt.Errorf("exchange rates are unavailable")

// ValidationError reports bad caller input (malformed code, short password,
// empty username). Always recoverable and surfaced verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CurrencyNotFoundError is returned when a currency code is not in the registry.
type CurrencyNotFoundError struct {
	Code string
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Code)
}

// InvalidAmountError is returned when an operation amount is not a finite
// positive number.
type InvalidAmountError struct {
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount: %s", e.Reason)
}

// InsufficientFundsError carries the figures needed to show the shortfall.
type InsufficientFundsError struct {
	Available float64
	Required  float64
	Code      string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %g %s, required %g %s",
		e.Available, e.Code, e.Required, e.Code)
}

// DuplicateWalletError is returned when adding a wallet for a currency the
// portfolio already holds.
type DuplicateWalletError struct {
	Code string
}

func (e *DuplicateWalletError) Error() string {
	return fmt.Sprintf("wallet for %s already exists", e.Code)
}

// RateUnavailableError is returned when a specific currency has no usable
// rate in the cache. A zero stored rate is treated the same way, never as
// a division by zero.
type RateUnavailableError struct {
	Code string
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no exchange rate available for %s", e.Code)
}
