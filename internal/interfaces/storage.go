package interfaces

import "github.com/valutatrade/valutahub/internal/models"

// Store is the persistence boundary for users, portfolios, session state,
// the rate cache and the rate history log. Writes are atomic file
// replacements; a crash mid-write never leaves a half-written state.
type Store interface {
	LoadUsers() ([]*models.User, error)
	SaveUsers(users []*models.User) error

	LoadPortfolios() ([]*models.Portfolio, error)
	SavePortfolios(portfolios []*models.Portfolio) error

	LoadSession() (*models.Session, error)
	SaveSession(session *models.Session) error

	LoadRates() (*models.RateCache, error)
	SaveRates(cache *models.RateCache) error

	LoadHistory() ([]models.HistoryRecord, error)
	AppendHistory(records []models.HistoryRecord) error
}
