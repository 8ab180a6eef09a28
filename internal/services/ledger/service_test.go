package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutahub/internal/common"
	"github.com/valutatrade/valutahub/internal/models"
	"github.com/valutatrade/valutahub/internal/storage"
)

// --- Mocks ---

// fakeRates serves fixed conversion rates keyed "FROM_TO".
type fakeRates struct {
	rates map[string]float64
}

func (f *fakeRates) EnsureFresh(ctx context.Context) (*models.RateCache, error) {
	return models.EmptyRateCache("USD"), nil
}

func (f *fakeRates) GetRate(ctx context.Context, from, to string) (*models.Quote, error) {
	if from == to {
		return &models.Quote{From: from, To: to, Rate: 1.0}, nil
	}
	rate, ok := f.rates[from+"_"+to]
	if !ok {
		return nil, &models.RateUnavailableError{Code: from}
	}
	return &models.Quote{From: from, To: to, Rate: rate, Base: "USD"}, nil
}

func newTestService(t *testing.T, rates map[string]float64) (*Service, *storage.FileStore) {
	t.Helper()
	store, err := storage.NewFileStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	service := NewService(store, models.DefaultRegistry(), &fakeRates{rates: rates}, common.NewSilentLogger())
	return service, store
}

func registerAndLogin(t *testing.T, service *Service, username, password string) {
	t.Helper()
	_, err := service.Register(username, password)
	require.NoError(t, err)
	_, err = service.Login(username, password)
	require.NoError(t, err)
}

// --- Accounts & session ---

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	service, store := newTestService(t, nil)

	alice, err := service.Register("alice", "1234")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.UserID)

	bob, err := service.Register("bob", "secret")
	require.NoError(t, err)
	assert.Equal(t, 2, bob.UserID)

	// Each account starts with an empty portfolio.
	portfolios, err := store.LoadPortfolios()
	require.NoError(t, err)
	require.Len(t, portfolios, 2)
	assert.Empty(t, portfolios[0].Codes())
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	service, _ := newTestService(t, nil)

	_, err := service.Register("alice", "1234")
	require.NoError(t, err)

	_, err = service.Register("alice", "other-password")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}

func TestRegisterValidatesCredentials(t *testing.T) {
	service, _ := newTestService(t, nil)

	var verr *models.ValidationError
	_, err := service.Register("   ", "1234")
	require.ErrorAs(t, err, &verr)

	_, err = service.Register("alice", "123")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestLoginLogoutSessionLifecycle(t *testing.T) {
	service, _ := newTestService(t, nil)

	_, err := service.Register("alice", "1234")
	require.NoError(t, err)

	// Registration alone does not open a session.
	current, err := service.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, current)

	_, err = service.Login("alice", "wrong")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	info, err := service.Login("alice", "1234")
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)

	current, err = service.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 1, current.UserID)

	require.NoError(t, service.Logout())
	current, err = service.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestChangePassword(t *testing.T) {
	service, _ := newTestService(t, nil)
	registerAndLogin(t, service, "alice", "1234")

	var verr *models.ValidationError
	err := service.ChangePassword("wrong", "newpass")
	require.ErrorAs(t, err, &verr)

	require.NoError(t, service.ChangePassword("1234", "newpass"))
	require.NoError(t, service.Logout())

	_, err = service.Login("alice", "1234")
	require.ErrorAs(t, err, &verr)
	_, err = service.Login("alice", "newpass")
	require.NoError(t, err)
}

// --- Buy / sell ---

func TestBuySellScenario(t *testing.T) {
	service, _ := newTestService(t, nil)
	registerAndLogin(t, service, "alice", "1234")
	ctx := context.Background()

	result, err := service.BuyCurrency(ctx, "eur", 10)
	require.NoError(t, err)
	assert.Equal(t, "EUR", result.Code)
	assert.Equal(t, 10.0, result.Balance)

	result, err = service.SellCurrency(ctx, "EUR", 3)
	require.NoError(t, err)
	assert.Equal(t, 7.0, result.Balance)

	_, err = service.SellCurrency(ctx, "EUR", 100)
	var funds *models.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, 7.0, funds.Available)
	assert.Equal(t, 100.0, funds.Required)

	// The failed sell left the balance untouched.
	view, err := service.ShowPortfolio(ctx, "EUR")
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, 7.0, view.Entries[0].Balance)
}

func TestSellWithoutWalletNeverCreatesOne(t *testing.T) {
	service, store := newTestService(t, nil)
	registerAndLogin(t, service, "alice", "1234")

	_, err := service.SellCurrency(context.Background(), "BTC", 1)
	var funds *models.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, 0.0, funds.Available)
	assert.Equal(t, "BTC", funds.Code)

	portfolios, err := store.LoadPortfolios()
	require.NoError(t, err)
	require.Len(t, portfolios, 1)
	assert.Nil(t, portfolios[0].Wallet("BTC"))
}

func TestTradeValidation(t *testing.T) {
	service, _ := newTestService(t, nil)
	registerAndLogin(t, service, "alice", "1234")
	ctx := context.Background()

	_, err := service.BuyCurrency(ctx, "ZZZ", 1)
	var notFound *models.CurrencyNotFoundError
	require.ErrorAs(t, err, &notFound)

	var badAmount *models.InvalidAmountError
	_, err = service.BuyCurrency(ctx, "BTC", 0)
	require.ErrorAs(t, err, &badAmount)
	_, err = service.BuyCurrency(ctx, "BTC", -5)
	require.ErrorAs(t, err, &badAmount)
}

func TestTradeRequiresLogin(t *testing.T) {
	service, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := service.BuyCurrency(ctx, "BTC", 1)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = service.SellCurrency(ctx, "BTC", 1)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = service.ShowPortfolio(ctx, "USD")
	require.ErrorIs(t, err, ErrNotLoggedIn)
}

// --- Valuation ---

func TestShowPortfolioValuation(t *testing.T) {
	service, _ := newTestService(t, map[string]float64{
		"BTC_USD": 60000,
		"EUR_USD": 1.0869,
	})
	registerAndLogin(t, service, "alice", "1234")
	ctx := context.Background()

	_, err := service.BuyCurrency(ctx, "BTC", 0.5)
	require.NoError(t, err)
	_, err = service.BuyCurrency(ctx, "USD", 100)
	require.NoError(t, err)

	view, err := service.ShowPortfolio(ctx, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", view.Base)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "BTC", view.Entries[0].Code)
	assert.InDelta(t, 30000.0, view.Entries[0].Value, 1e-9)
	assert.Equal(t, "USD", view.Entries[1].Code)
	assert.InDelta(t, 100.0, view.Entries[1].Value, 1e-9)
	assert.InDelta(t, 30100.0, view.Total, 1e-9)
}

func TestShowPortfolioMissingRateAborts(t *testing.T) {
	service, _ := newTestService(t, map[string]float64{"BTC_USD": 60000})
	registerAndLogin(t, service, "alice", "1234")
	ctx := context.Background()

	_, err := service.BuyCurrency(ctx, "BTC", 1)
	require.NoError(t, err)
	_, err = service.BuyCurrency(ctx, "ETH", 2)
	require.NoError(t, err)

	_, err = service.ShowPortfolio(ctx, "USD")
	var unavailable *models.RateUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "ETH", unavailable.Code)
}
