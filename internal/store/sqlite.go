package store

import (
	"database/sql"
	"time"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

// Preference keys.
const (
	prefLastCity = "last_city"
	prefUnit     = "unit"
	prefTheme    = "theme"
)

// maxSearchHistory caps the search history at the ten most recent cities.
const maxSearchHistory = 10

// Store is the on-device persistence layer: a generic key/value table backing
// the forecast cache plus tables for preferences, favorites and search history.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetValue reads a raw cache record. The second return is false when the key
// has never been stored.
func (s *Store) GetValue(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// PutValue writes a raw cache record, overwriting unconditionally.
func (s *Store) PutValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	return err
}

// DeleteValue removes a cache record. Missing keys are not an error.
func (s *Store) DeleteValue(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Preferences returns the persisted settings, with defaults for anything unset.
func (s *Store) Preferences() (models.Preferences, error) {
	prefs := models.Preferences{
		Unit:  models.UnitCelsius,
		Theme: models.ThemeLight,
	}

	rows, err := s.db.Query(`SELECT key, value FROM preferences`)
	if err != nil {
		return prefs, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, err
		}
		switch key {
		case prefLastCity:
			prefs.LastCity = value
		case prefUnit:
			if unit, ok := models.ParseUnit(value); ok {
				prefs.Unit = unit
			}
		case prefTheme:
			prefs.Theme = models.ParseTheme(value)
		}
	}
	return prefs, rows.Err()
}

func (s *Store) SaveLastCity(city string) error {
	return s.savePreference(prefLastCity, city)
}

func (s *Store) SaveUnit(unit models.Unit) error {
	return s.savePreference(prefUnit, string(unit))
}

func (s *Store) SaveTheme(theme models.Theme) error {
	return s.savePreference(prefTheme, string(theme))
}

func (s *Store) savePreference(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Favorites returns the favorite cities in insertion order.
func (s *Store) Favorites() ([]string, error) {
	rows, err := s.db.Query(`SELECT city FROM favorites ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// AddFavorite appends a city to the favorites. Adding an existing favorite is
// a no-op and keeps its original position.
func (s *Store) AddFavorite(city string) error {
	_, err := s.db.Exec(`
		INSERT INTO favorites (city, position)
		SELECT ?, COALESCE(MAX(position), 0) + 1 FROM favorites
		WHERE NOT EXISTS (SELECT 1 FROM favorites WHERE city = ?)
	`, city, city)
	return err
}

func (s *Store) RemoveFavorite(city string) error {
	_, err := s.db.Exec(`DELETE FROM favorites WHERE city = ?`, city)
	return err
}

func (s *Store) IsFavorite(city string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM favorites WHERE city = ?`, city).Scan(&n)
	return n > 0, err
}

// SearchHistory returns the most recent searches first, capped at ten.
func (s *Store) SearchHistory() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT city FROM search_history
		ORDER BY searched_at DESC
		LIMIT ?
	`, maxSearchHistory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// AddSearch records a search. Re-searching a city moves it to the front, and
// entries beyond the cap are dropped.
func (s *Store) AddSearch(city string) error {
	_, err := s.db.Exec(`
		INSERT INTO search_history (city, searched_at) VALUES (?, ?)
		ON CONFLICT(city) DO UPDATE SET searched_at = excluded.searched_at
	`, city, time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		DELETE FROM search_history WHERE city NOT IN (
			SELECT city FROM search_history ORDER BY searched_at DESC LIMIT ?
		)
	`, maxSearchHistory)
	return err
}

func (s *Store) ClearSearchHistory() error {
	_, err := s.db.Exec(`DELETE FROM search_history`)
	return err
}
