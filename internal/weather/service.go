package weather

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/cache"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/metrics"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/provider"
)

// Service coordinates the data path for one session: cache lookup, paired
// provider fetches, the live-to-demo fallback, and persistence of search
// side effects. The live to demo transition is one-way; nothing flips the
// session back short of a restart.
type Service struct {
	mu   sync.Mutex
	mode models.Mode

	live  provider.Provider
	demo  provider.Provider
	cache *cache.Cache
	store Store
}

// Store is the persistence surface the service needs. *store.Store satisfies it.
type Store interface {
	Preferences() (models.Preferences, error)
	SaveLastCity(city string) error
	SaveUnit(unit models.Unit) error
	SaveTheme(theme models.Theme) error
	Favorites() ([]string, error)
	AddFavorite(city string) error
	RemoveFavorite(city string) error
	SearchHistory() ([]string, error)
	AddSearch(city string) error
	ClearSearchHistory() error
}

func New(live, demo provider.Provider, c *cache.Cache, st Store, credentialOK bool) *Service {
	mode := models.ModeLive
	if !credentialOK {
		mode = models.ModeDemo
		log.Printf("weather: no usable credential, starting in demo mode")
	}
	return &Service{
		mode:  mode,
		live:  live,
		demo:  demo,
		cache: c,
		store: st,
	}
}

// Mode reports the current data source state.
func (s *Service) Mode() models.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Fetch returns the weather snapshot for loc. Fresh cache entries short-circuit
// the provider unless forceRefresh is set. Demo-mode results are synthesized per
// call and never cached. A credential rejection mid-session flips the service to
// demo mode and transparently retries the same query once against the
// synthesizer.
func (s *Service) Fetch(ctx context.Context, loc models.Locator, forceRefresh bool) (models.WeatherSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == models.ModeDemo {
		snapshot, err := s.fetchPair(ctx, s.demo, loc)
		if err != nil {
			return models.WeatherSnapshot{}, err
		}
		s.recordSearch(loc)
		return snapshot, nil
	}

	key := loc.Key()
	if !forceRefresh {
		if snapshot, ok := s.cache.Get(key); ok {
			metrics.CacheHitsTotal.Inc()
			s.recordSearch(loc)
			return *snapshot, nil
		}
		metrics.CacheMissesTotal.Inc()
	}

	snapshot, err := s.fetchPair(ctx, s.live, loc)
	if err != nil {
		if !provider.IsAuthFailure(err) {
			return models.WeatherSnapshot{}, err
		}

		log.Printf("weather: credential rejected, switching to demo mode: %v", err)
		s.mode = models.ModeDemo
		metrics.DemoFallbacksTotal.Inc()

		snapshot, err = s.fetchPair(ctx, s.demo, loc)
		if err != nil {
			return models.WeatherSnapshot{}, err
		}
		s.recordSearch(loc)
		return snapshot, nil
	}

	if err := s.cache.Put(key, snapshot); err != nil {
		log.Printf("weather: cache write %s: %v", key, err)
	}
	s.recordSearch(loc)
	return snapshot, nil
}

// fetchPair runs the current and forecast fetches concurrently. Both must
// succeed; a single failure discards the other result. An auth failure on
// either leg wins over any other error so the fallback always triggers.
func (s *Service) fetchPair(ctx context.Context, p provider.Provider, loc models.Locator) (models.WeatherSnapshot, error) {
	var (
		wg          sync.WaitGroup
		current     models.Current
		forecast    models.SampleSeries
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = p.FetchCurrent(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = p.FetchForecast(ctx, loc)
	}()
	wg.Wait()

	if currentErr != nil || forecastErr != nil {
		err := currentErr
		if err == nil || (forecastErr != nil && provider.IsAuthFailure(forecastErr)) {
			err = forecastErr
		}
		return models.WeatherSnapshot{}, fmt.Errorf("fetch %s: %w", loc, err)
	}

	sort.SliceStable(forecast, func(i, j int) bool {
		return forecast[i].Time.Before(forecast[j].Time)
	})

	return models.WeatherSnapshot{Current: current, Forecast: forecast}, nil
}

// recordSearch persists the search side effects for city queries. Coordinate
// queries leave history and last-city untouched. Persistence failures are
// logged and never fail the fetch.
func (s *Service) recordSearch(loc models.Locator) {
	if loc.Coords || loc.City == "" {
		return
	}
	if err := s.store.AddSearch(loc.City); err != nil {
		log.Printf("weather: record search %q: %v", loc.City, err)
	}
	if err := s.store.SaveLastCity(loc.City); err != nil {
		log.Printf("weather: save last city %q: %v", loc.City, err)
	}
}

func (s *Service) Preferences() (models.Preferences, error) {
	return s.store.Preferences()
}

func (s *Service) SaveUnit(unit models.Unit) error {
	return s.store.SaveUnit(unit)
}

func (s *Service) SaveTheme(theme models.Theme) error {
	return s.store.SaveTheme(theme)
}

func (s *Service) Favorites() ([]string, error) {
	return s.store.Favorites()
}

func (s *Service) AddFavorite(city string) error {
	return s.store.AddFavorite(city)
}

func (s *Service) RemoveFavorite(city string) error {
	return s.store.RemoveFavorite(city)
}

func (s *Service) SearchHistory() ([]string, error) {
	return s.store.SearchHistory()
}

func (s *Service) ClearSearchHistory() error {
	return s.store.ClearSearchHistory()
}
