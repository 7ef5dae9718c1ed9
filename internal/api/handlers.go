package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/forecast"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

var validate = validator.New()

// locationQuery holds the location parameters shared by the weather and
// forecast endpoints. Either a city or a full coordinate pair is required.
type locationQuery struct {
	City string   `validate:"required_without_all=Lat Lon"`
	Lat  *float64 `validate:"required_with=Lon,omitempty,gte=-90,lte=90"`
	Lon  *float64 `validate:"required_with=Lat,omitempty,gte=-180,lte=180"`
}

func (q locationQuery) locator() models.Locator {
	if q.Lat != nil && q.Lon != nil {
		return models.CoordsLocator(*q.Lat, *q.Lon)
	}
	return models.CityLocator(q.City)
}

func parseLocationQuery(r *http.Request) (locationQuery, error) {
	var q locationQuery
	q.City = r.URL.Query().Get("city")

	if raw := r.URL.Query().Get("lat"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, err
		}
		q.Lat = &lat
	}
	if raw := r.URL.Query().Get("lon"); raw != "" {
		lon, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, err
		}
		q.Lon = &lon
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q, err := parseLocationQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit, err := s.displayUnit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	force := r.URL.Query().Get("refresh") == "true"
	snapshot, err := s.service.Fetch(r.Context(), q.locator(), force)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, currentView(snapshot.Current, unit, s.service.Mode()))
}

func (s *Server) handleDailyForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q, err := parseLocationQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit, err := s.displayUnit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := s.service.Fetch(r.Context(), q.locator(), false)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	days := forecast.DailySummaries(snapshot.Forecast, time.Now(), s.loc)
	writeJSON(w, http.StatusOK, dailyView(days, unit))
}

// hourlyQuery adds the horizon selector: 24 for the interpolated hourly view,
// 48 for the extended native-cadence view.
type hourlyQuery struct {
	locationQuery
	Hours int `validate:"oneof=24 48"`
}

func (s *Server) handleHourlyForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	loc, err := parseLocationQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := hourlyQuery{locationQuery: loc, Hours: 24}
	if raw := r.URL.Query().Get("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "hours must be a number")
			return
		}
		q.Hours = hours
	}
	if err := validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "hours must be 24 or 48")
		return
	}

	unit, err := s.displayUnit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := s.service.Fetch(r.Context(), q.locator(), false)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	slots := forecast.HourlySeries(snapshot.Forecast, time.Now(), q.Hours, s.loc)
	writeJSON(w, http.StatusOK, hourlyView(slots, unit))
}

// preferencesUpdate is the PUT body for /api/preferences. Absent fields leave
// the stored value untouched.
type preferencesUpdate struct {
	Unit  *string `json:"unit" validate:"omitempty,oneof=celsius fahrenheit"`
	Theme *string `json:"theme" validate:"omitempty,oneof=light dark"`
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prefs, err := s.service.Preferences()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	case http.MethodPut:
		var update preferencesUpdate
		if err := decodeJSON(r, &update); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validate.Struct(update); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if update.Unit != nil {
			unit, _ := models.ParseUnit(*update.Unit)
			if err := s.service.SaveUnit(unit); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		if update.Theme != nil {
			if err := s.service.SaveTheme(models.ParseTheme(*update.Theme)); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		prefs, err := s.service.Preferences()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// favoriteBody is the POST/DELETE body for /api/favorites.
type favoriteBody struct {
	City string `json:"city" validate:"required"`
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cities, err := s.service.Favorites()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if cities == nil {
			cities = []string{}
		}
		writeJSON(w, http.StatusOK, cities)

	case http.MethodPost, http.MethodDelete:
		var body favoriteBody
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validate.Struct(body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var err error
		if r.Method == http.MethodPost {
			err = s.service.AddFavorite(body.City)
		} else {
			err = s.service.RemoveFavorite(body.City)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cities, err := s.service.SearchHistory()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if cities == nil {
			cities = []string{}
		}
		writeJSON(w, http.StatusOK, cities)

	case http.MethodDelete:
		if err := s.service.ClearSearchHistory(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
