// Package storage provides file-backed JSON persistence with atomic writes.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valutatrade/valutahub/internal/common"
	"github.com/valutatrade/valutahub/internal/interfaces"
	"github.com/valutatrade/valutahub/internal/models"
)

// Data file names under the store's base path.
const (
	usersFile      = "users.json"
	portfoliosFile = "portfolios.json"
	sessionFile    = "session.json"
	ratesFile      = "rates.json"
	historyFile    = "exchange_rates.json"
)

// FileStore persists all application state as human-readable JSON files.
// Every write is an atomic replace (temp file + rename), so readers only
// ever see a complete prior version or a complete new version. Single-writer
// usage is assumed; there is no cross-process locking.
type FileStore struct {
	basePath string
	logger   *common.Logger
}

// NewFileStore creates a FileStore rooted at basePath, creating the
// directory if needed.
func NewFileStore(logger *common.Logger, basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", basePath, err)
	}
	logger.Debug().Str("path", basePath).Msg("FileStore opened")
	return &FileStore{basePath: basePath, logger: logger}, nil
}

func (fs *FileStore) filePath(name string) string {
	return filepath.Join(fs.basePath, name)
}

// readJSON reads and unmarshals a JSON file. A missing file is reported via
// the boolean, not an error; an unparsable file is a CorruptionError so data
// loss is never masked as an empty state.
func (fs *FileStore) readJSON(name string, dest interface{}) (bool, error) {
	path := fs.filePath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, &CorruptionError{Path: path, Err: err}
	}
	return true, nil
}

// writeJSON marshals data to indented JSON and writes it atomically:
// temp file in the same directory, then rename over the target.
func (fs *FileStore) writeJSON(name string, data interface{}) error {
	target := fs.filePath(name)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(fs.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// LoadUsers returns all registered users, or an empty list when none have
// been persisted yet.
func (fs *FileStore) LoadUsers() ([]*models.User, error) {
	var users []*models.User
	if _, err := fs.readJSON(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUsers persists the full users list.
func (fs *FileStore) SaveUsers(users []*models.User) error {
	if users == nil {
		users = []*models.User{}
	}
	return fs.writeJSON(usersFile, users)
}

// LoadPortfolios returns all persisted portfolios.
func (fs *FileStore) LoadPortfolios() ([]*models.Portfolio, error) {
	var portfolios []*models.Portfolio
	if _, err := fs.readJSON(portfoliosFile, &portfolios); err != nil {
		return nil, err
	}
	return portfolios, nil
}

// SavePortfolios persists the full portfolios list.
func (fs *FileStore) SavePortfolios(portfolios []*models.Portfolio) error {
	if portfolios == nil {
		portfolios = []*models.Portfolio{}
	}
	return fs.writeJSON(portfoliosFile, portfolios)
}

// LoadSession returns the current session, or an empty (logged out) session
// when none is persisted.
func (fs *FileStore) LoadSession() (*models.Session, error) {
	session := &models.Session{}
	if _, err := fs.readJSON(sessionFile, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveSession persists the session state.
func (fs *FileStore) SaveSession(session *models.Session) error {
	if session == nil {
		session = &models.Session{}
	}
	return fs.writeJSON(sessionFile, session)
}

// LoadRates returns the persisted rate cache. When absent, an empty cache
// with no source or timestamp is returned; it is always judged stale.
func (fs *FileStore) LoadRates() (*models.RateCache, error) {
	cache := models.EmptyRateCache("USD")
	if _, err := fs.readJSON(ratesFile, cache); err != nil {
		return nil, err
	}
	if cache.Base == "" {
		cache.Base = "USD"
	}
	return cache, nil
}

// SaveRates replaces the rate cache wholesale.
func (fs *FileStore) SaveRates(cache *models.RateCache) error {
	return fs.writeJSON(ratesFile, cache)
}

// LoadHistory returns the append-only rate history log.
func (fs *FileStore) LoadHistory() ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	if _, err := fs.readJSON(historyFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AppendHistory appends records to the history log via a full atomic
// rewrite. Existing records are never mutated.
func (fs *FileStore) AppendHistory(records []models.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	existing, err := fs.LoadHistory()
	if err != nil {
		return err
	}
	existing = append(existing, records...)
	return fs.writeJSON(historyFile, existing)
}

// Ensure FileStore implements Store
var _ interfaces.Store = (*FileStore)(nil)
