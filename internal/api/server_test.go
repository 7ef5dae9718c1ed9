package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/api"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/cache"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/provider"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/store"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/weather"

	_ "modernc.org/sqlite"
)

type fixedProvider struct {
	err error
}

func (p *fixedProvider) FetchCurrent(_ context.Context, loc models.Locator) (models.Current, error) {
	if p.err != nil {
		return models.Current{}, p.err
	}
	return models.Current{
		City:   "London",
		Sample: models.Sample{Time: time.Now().UTC(), TempC: 20.0},
	}, nil
}

func (p *fixedProvider) FetchForecast(_ context.Context, _ models.Locator) (models.SampleSeries, error) {
	if p.err != nil {
		return nil, p.err
	}
	base := time.Now().UTC().Truncate(time.Hour)
	series := make(models.SampleSeries, 0, 16)
	for i := 0; i < 16; i++ {
		series = append(series, models.Sample{
			Time:      base.Add(time.Duration(i*3) * time.Hour),
			TempC:     15.0 + float64(i),
			Condition: "01d",
		})
	}
	return series, nil
}

func setupServer(t *testing.T, live provider.Provider) *api.Server {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		t.Fatal(err)
	}

	svc := weather.New(live, provider.NewMock(), cache.New(st), st, true)
	return api.NewServer(svc, "8080", time.UTC)
}

func do(t *testing.T, srv *api.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	w := do(t, srv, "GET", "/health", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"mode":"live"`) {
		t.Errorf("expected mode field, got %s", w.Body.String())
	}
}

func TestWeatherEndpoint(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	w := do(t, srv, "GET", "/api/weather?city=London", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view api.CurrentView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.City != "London" {
		t.Errorf("city = %q, want London", view.City)
	}
	if view.Temp != 20.0 {
		t.Errorf("temp = %v, want 20.0 celsius", view.Temp)
	}
	if view.Unit != "celsius" {
		t.Errorf("unit = %q, want celsius", view.Unit)
	}
}

func TestWeatherEndpointFahrenheit(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	w := do(t, srv, "GET", "/api/weather?city=London&unit=fahrenheit", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view api.CurrentView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Temp != 68.0 {
		t.Errorf("temp = %v, want 68.0 fahrenheit", view.Temp)
	}
}

func TestWeatherEndpointRequiresLocation(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	if w := do(t, srv, "GET", "/api/weather", ""); w.Code != 400 {
		t.Errorf("no location: expected 400, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/api/weather?lat=51.5", ""); w.Code != 400 {
		t.Errorf("lat without lon: expected 400, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/api/weather?lat=91&lon=0", ""); w.Code != 400 {
		t.Errorf("out-of-range lat: expected 400, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/api/weather?lat=51.5&lon=-0.09", ""); w.Code != 200 {
		t.Errorf("valid coords: expected 200, got %d", w.Code)
	}
}

func TestWeatherEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &provider.Error{Kind: provider.KindNotFound, Message: "nope"}, 404},
		{"malformed", &provider.Error{Kind: provider.KindMalformed, Message: "bad shape"}, 502},
		{"network", &provider.Error{Kind: provider.KindNetwork, Message: "down"}, 504},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupServer(t, &fixedProvider{err: tt.err})
			w := do(t, srv, "GET", "/api/weather?city=Atlantis", "")
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestHourlyForecastEndpoint(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	w := do(t, srv, "GET", "/api/forecast/hourly?city=London", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view api.HourlyView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Slots) != 24 {
		t.Errorf("slots = %d, want 24 for the default horizon", len(view.Slots))
	}

	w = do(t, srv, "GET", "/api/forecast/hourly?city=London&hours=48", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Slots) == 0 || len(view.Slots) > 16 {
		t.Errorf("extended slots = %d, want 1..16 native samples", len(view.Slots))
	}

	if w := do(t, srv, "GET", "/api/forecast/hourly?city=London&hours=12", ""); w.Code != 400 {
		t.Errorf("invalid horizon: expected 400, got %d", w.Code)
	}
}

func TestDailyForecastEndpoint(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	w := do(t, srv, "GET", "/api/forecast/daily?city=London", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view api.DailyView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Days) > 3 {
		t.Errorf("days = %d, want at most 3", len(view.Days))
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	w := do(t, srv, "GET", "/api/preferences", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var prefs models.Preferences
	if err := json.Unmarshal(w.Body.Bytes(), &prefs); err != nil {
		t.Fatal(err)
	}
	if prefs.Unit != models.UnitCelsius || prefs.Theme != models.ThemeLight {
		t.Errorf("defaults = %+v, want celsius/light", prefs)
	}

	w = do(t, srv, "PUT", "/api/preferences", `{"unit":"fahrenheit","theme":"dark"}`)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &prefs); err != nil {
		t.Fatal(err)
	}
	if prefs.Unit != models.UnitFahrenheit || prefs.Theme != models.ThemeDark {
		t.Errorf("after update = %+v, want fahrenheit/dark", prefs)
	}

	if w := do(t, srv, "PUT", "/api/preferences", `{"unit":"kelvin"}`); w.Code != 400 {
		t.Errorf("invalid unit: expected 400, got %d", w.Code)
	}
}

func TestFavoritesEndpoints(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	w := do(t, srv, "POST", "/api/favorites", `{"city":"London"}`)
	if w.Code != 204 {
		t.Fatalf("add: expected 204, got %d: %s", w.Code, w.Body.String())
	}
	do(t, srv, "POST", "/api/favorites", `{"city":"Tokyo"}`)

	w = do(t, srv, "GET", "/api/favorites", "")
	var cities []string
	if err := json.Unmarshal(w.Body.Bytes(), &cities); err != nil {
		t.Fatal(err)
	}
	if len(cities) != 2 || cities[0] != "London" || cities[1] != "Tokyo" {
		t.Errorf("favorites = %v, want [London Tokyo]", cities)
	}

	w = do(t, srv, "DELETE", "/api/favorites", `{"city":"London"}`)
	if w.Code != 204 {
		t.Fatalf("remove: expected 204, got %d", w.Code)
	}
	w = do(t, srv, "GET", "/api/favorites", "")
	if err := json.Unmarshal(w.Body.Bytes(), &cities); err != nil {
		t.Fatal(err)
	}
	if len(cities) != 1 || cities[0] != "Tokyo" {
		t.Errorf("favorites = %v, want [Tokyo]", cities)
	}

	if w := do(t, srv, "POST", "/api/favorites", `{}`); w.Code != 400 {
		t.Errorf("missing city: expected 400, got %d", w.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	srv := setupServer(t, &fixedProvider{})

	// Fetches by city populate the history.
	do(t, srv, "GET", "/api/weather?city=London", "")
	do(t, srv, "GET", "/api/weather?city=Tokyo", "")

	w := do(t, srv, "GET", "/api/history", "")
	var cities []string
	if err := json.Unmarshal(w.Body.Bytes(), &cities); err != nil {
		t.Fatal(err)
	}
	if len(cities) != 2 || cities[0] != "Tokyo" {
		t.Errorf("history = %v, want most recent first", cities)
	}

	if w := do(t, srv, "DELETE", "/api/history", ""); w.Code != 204 {
		t.Fatalf("clear: expected 204, got %d", w.Code)
	}
	w = do(t, srv, "GET", "/api/history", "")
	if err := json.Unmarshal(w.Body.Bytes(), &cities); err != nil {
		t.Fatal(err)
	}
	if len(cities) != 0 {
		t.Errorf("history after clear = %v, want empty", cities)
	}
}
