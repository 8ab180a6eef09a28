package models

import "sort"

// Portfolio is one user's collection of per-currency wallets, keyed by
// currency code. Each user owns exactly one portfolio.
type Portfolio struct {
	UserID  int                `json:"user_id"`
	Wallets map[string]*Wallet `json:"wallets"`
}

// NewPortfolio creates an empty portfolio for the user. Wallets are added
// lazily on first buy of a currency.
func NewPortfolio(userID int) *Portfolio {
	return &Portfolio{UserID: userID, Wallets: make(map[string]*Wallet)}
}

// AddCurrency creates a zero-balance wallet for the code. Fails when a wallet
// for that currency already exists.
func (p *Portfolio) AddCurrency(currencyCode string) (*Wallet, error) {
	w, err := NewWallet(currencyCode)
	if err != nil {
		return nil, err
	}
	if p.Wallets == nil {
		p.Wallets = make(map[string]*Wallet)
	}
	if _, exists := p.Wallets[w.CurrencyCode]; exists {
		return nil, &DuplicateWalletError{Code: w.CurrencyCode}
	}
	p.Wallets[w.CurrencyCode] = w
	return w, nil
}

// Wallet returns the wallet for the code, or nil when the portfolio does not
// hold that currency.
func (p *Portfolio) Wallet(currencyCode string) *Wallet {
	code, err := NormalizeCode(currencyCode)
	if err != nil {
		return nil
	}
	return p.Wallets[code]
}

// Codes returns the held currency codes in sorted order, for deterministic
// iteration and display.
func (p *Portfolio) Codes() []string {
	codes := make([]string, 0, len(p.Wallets))
	for code := range p.Wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
