package models

import "math"

// Wallet holds a single-currency balance inside a portfolio. The balance is
// never negative, NaN or infinite; all mutations go through Deposit/Withdraw
// and SetBalance re-checks the invariant independently.
type Wallet struct {
	CurrencyCode string  `json:"currency_code"`
	Balance      float64 `json:"balance"`
}

// NewWallet creates a zero-balance wallet for the given (already normalized)
// currency code.
func NewWallet(currencyCode string) (*Wallet, error) {
	code, err := NormalizeCode(currencyCode)
	if err != nil {
		return nil, err
	}
	return &Wallet{CurrencyCode: code}, nil
}

// ValidateAmount checks that an operation amount is a finite positive number.
func ValidateAmount(amount float64) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, &InvalidAmountError{Reason: "must be a finite number"}
	}
	if amount <= 0 {
		return 0, &InvalidAmountError{Reason: "must be greater than 0"}
	}
	return amount, nil
}

// SetBalance replaces the balance, enforcing the wallet invariant.
func (w *Wallet) SetBalance(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &InvalidAmountError{Reason: "balance must be a finite number"}
	}
	if value < 0 {
		return &InvalidAmountError{Reason: "balance must not be negative"}
	}
	w.Balance = value
	return nil
}

// Deposit credits a finite positive amount.
func (w *Wallet) Deposit(amount float64) error {
	amt, err := ValidateAmount(amount)
	if err != nil {
		return err
	}
	return w.SetBalance(w.Balance + amt)
}

// Withdraw debits a finite positive amount, failing when the balance does
// not cover it. The balance is left untouched on failure.
func (w *Wallet) Withdraw(amount float64) error {
	amt, err := ValidateAmount(amount)
	if err != nil {
		return err
	}
	if amt > w.Balance {
		return &InsufficientFundsError{Available: w.Balance, Required: amt, Code: w.CurrencyCode}
	}
	return w.SetBalance(w.Balance - amt)
}
