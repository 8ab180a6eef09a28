// Package ledger implements accounts, the login session and portfolio
// operations over the persisted store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/valutatrade/valutahub/internal/common"
	"github.com/valutatrade/valutahub/internal/interfaces"
	"github.com/valutatrade/valutahub/internal/models"
)

// ErrNotLoggedIn is returned by operations that need an active session.
var ErrNotLoggedIn = errors.New("no active session, login first")

// TradeResult reports the outcome of a buy or sell.
type TradeResult struct {
	Code    string  `json:"code"`
	Amount  float64 `json:"amount"`
	Balance float64 `json:"balance"`
}

// PortfolioEntry is one wallet valued in the requested base currency.
type PortfolioEntry struct {
	Code    string  `json:"code"`
	Balance float64 `json:"balance"`
	Value   float64 `json:"value"`
}

// PortfolioView is a portfolio valued wholesale in one base currency.
// Entries are sorted by currency code.
type PortfolioView struct {
	UserID   int              `json:"user_id"`
	Username string           `json:"username"`
	Base     string           `json:"base"`
	Entries  []PortfolioEntry `json:"entries"`
	Total    float64          `json:"total"`
}

// Service is the account and portfolio layer. All state lives in the store;
// the service itself is stateless between calls.
type Service struct {
	store    interfaces.Store
	registry *models.Registry
	rates    interfaces.RateService
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewService creates a ledger service.
func NewService(store interfaces.Store, registry *models.Registry, rates interfaces.RateService, logger *common.Logger) *Service {
	return &Service{
		store:    store,
		registry: registry,
		rates:    rates,
		logger:   logger,
		now:      common.NowUTC,
	}
}

// Register creates a new account with the next sequential user id and an
// empty portfolio. It does not log the new user in.
func (s *Service) Register(username, password string) (*models.UserInfo, error) {
	name, err := models.ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	users, err := s.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	nextID := 1
	for _, u := range users {
		if u.Username == name {
			return nil, &models.ValidationError{Field: "username", Reason: fmt.Sprintf("%q is already taken", name)}
		}
		if u.UserID >= nextID {
			nextID = u.UserID + 1
		}
	}

	user, err := models.NewUser(nextID, name, password, s.now())
	if err != nil {
		return nil, err
	}
	users = append(users, user)
	if err := s.store.SaveUsers(users); err != nil {
		return nil, err
	}

	portfolios, err := s.store.LoadPortfolios()
	if err != nil {
		return nil, err
	}
	portfolios = append(portfolios, models.NewPortfolio(user.UserID))
	if err := s.store.SavePortfolios(portfolios); err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", user.UserID).Str("username", user.Username).Msg("user registered")
	info := user.Info()
	return &info, nil
}

// Login verifies the credentials and replaces the persisted session. The
// same message covers an unknown username and a wrong password.
func (s *Service) Login(username, password string) (*models.UserInfo, error) {
	name, err := models.ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	users, err := s.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	var user *models.User
	for _, u := range users {
		if u.Username == name {
			user = u
			break
		}
	}
	if user == nil || !user.VerifyPassword(password) {
		return nil, &models.ValidationError{Field: "credentials", Reason: "unknown username or wrong password"}
	}

	session := &models.Session{UserID: &user.UserID, Username: &user.Username}
	if err := s.store.SaveSession(session); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Msg("user logged in")
	info := user.Info()
	return &info, nil
}

// Logout clears the persisted session. Logging out with no active session
// is not an error.
func (s *Service) Logout() error {
	return s.store.SaveSession(&models.Session{})
}

// CurrentUser returns the logged-in user, or nil when nobody is logged in.
// A session pointing at a user that no longer exists counts as logged out.
func (s *Service) CurrentUser() (*models.UserInfo, error) {
	user, err := s.sessionUser()
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			return nil, nil
		}
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

// ChangePassword verifies the current password and replaces the stored hash
// for the logged-in user.
func (s *Service) ChangePassword(oldPassword, newPassword string) error {
	current, err := s.sessionUser()
	if err != nil {
		return err
	}

	users, err := s.store.LoadUsers()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.UserID != current.UserID {
			continue
		}
		if !u.VerifyPassword(oldPassword) {
			return &models.ValidationError{Field: "password", Reason: "current password is wrong"}
		}
		if err := u.ChangePassword(newPassword); err != nil {
			return err
		}
		return s.store.SaveUsers(users)
	}
	return ErrNotLoggedIn
}

// BuyCurrency credits the logged-in user's wallet for the currency, creating
// the wallet lazily, and persists the portfolio.
func (s *Service) BuyCurrency(ctx context.Context, code string, amount float64) (*TradeResult, error) {
	user, err := s.sessionUser()
	if err != nil {
		return nil, err
	}
	currency, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	if _, err := models.ValidateAmount(amount); err != nil {
		return nil, err
	}

	portfolios, portfolio, err := s.loadPortfolio(user.UserID)
	if err != nil {
		return nil, err
	}
	wallet := portfolio.Wallet(currency.Code)
	if wallet == nil {
		wallet, err = portfolio.AddCurrency(currency.Code)
		if err != nil {
			return nil, err
		}
	}
	if err := wallet.Deposit(amount); err != nil {
		return nil, err
	}
	if err := s.store.SavePortfolios(portfolios); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", currency.Code).Float64("amount", amount).
		Float64("balance", wallet.Balance).Msg("buy")
	return &TradeResult{Code: currency.Code, Amount: amount, Balance: wallet.Balance}, nil
}

// SellCurrency debits the logged-in user's wallet and persists the portfolio.
// Selling a currency with no wallet fails with a zero available balance and
// never creates the wallet.
func (s *Service) SellCurrency(ctx context.Context, code string, amount float64) (*TradeResult, error) {
	user, err := s.sessionUser()
	if err != nil {
		return nil, err
	}
	currency, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	if _, err := models.ValidateAmount(amount); err != nil {
		return nil, err
	}

	portfolios, portfolio, err := s.loadPortfolio(user.UserID)
	if err != nil {
		return nil, err
	}
	wallet := portfolio.Wallet(currency.Code)
	if wallet == nil {
		return nil, &models.InsufficientFundsError{Available: 0, Required: amount, Code: currency.Code}
	}
	if err := wallet.Withdraw(amount); err != nil {
		return nil, err
	}
	if err := s.store.SavePortfolios(portfolios); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", currency.Code).Float64("amount", amount).
		Float64("balance", wallet.Balance).Msg("sell")
	return &TradeResult{Code: currency.Code, Amount: amount, Balance: wallet.Balance}, nil
}

// ShowPortfolio values every wallet in the given base currency. One
// unconvertible currency aborts the whole valuation; partial totals are
// never returned.
func (s *Service) ShowPortfolio(ctx context.Context, base string) (*PortfolioView, error) {
	user, err := s.sessionUser()
	if err != nil {
		return nil, err
	}
	baseCurrency, err := s.registry.Get(base)
	if err != nil {
		return nil, err
	}

	_, portfolio, err := s.loadPortfolio(user.UserID)
	if err != nil {
		return nil, err
	}

	view := &PortfolioView{
		UserID:   user.UserID,
		Username: user.Username,
		Base:     baseCurrency.Code,
		Entries:  []PortfolioEntry{},
	}
	for _, code := range portfolio.Codes() {
		wallet := portfolio.Wallet(code)
		quote, err := s.rates.GetRate(ctx, code, baseCurrency.Code)
		if err != nil {
			return nil, err
		}
		value := wallet.Balance * quote.Rate
		view.Entries = append(view.Entries, PortfolioEntry{Code: code, Balance: wallet.Balance, Value: value})
		view.Total += value
	}
	return view, nil
}

// sessionUser resolves the persisted session to a user record.
func (s *Service) sessionUser() (*models.User, error) {
	session, err := s.store.LoadSession()
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, ErrNotLoggedIn
	}
	users, err := s.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.UserID == *session.UserID {
			return u, nil
		}
	}
	return nil, ErrNotLoggedIn
}

// loadPortfolio returns the full portfolio list plus the user's own entry,
// creating the entry when the user has none yet.
func (s *Service) loadPortfolio(userID int) ([]*models.Portfolio, *models.Portfolio, error) {
	portfolios, err := s.store.LoadPortfolios()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range portfolios {
		if p.UserID == userID {
			return portfolios, p, nil
		}
	}
	portfolio := models.NewPortfolio(userID)
	portfolios = append(portfolios, portfolio)
	sort.Slice(portfolios, func(i, j int) bool { return portfolios[i].UserID < portfolios[j].UserID })
	return portfolios, portfolio, nil
}
