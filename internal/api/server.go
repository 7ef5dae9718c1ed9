package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/provider"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/weather"
)

// Server exposes the dashboard's JSON API. All temperatures cross this
// boundary in the requested display unit; everything behind it is Celsius.
type Server struct {
	service *weather.Service
	port    string
	loc     *time.Location
}

func NewServer(service *weather.Service, port string, loc *time.Location) *Server {
	return &Server{
		service: service,
		port:    port,
		loc:     loc,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/weather", s.handleWeather)
	mux.HandleFunc("/api/forecast/daily", s.handleDailyForecast)
	mux.HandleFunc("/api/forecast/hourly", s.handleHourlyForecast)
	mux.HandleFunc("/api/preferences", s.handlePreferences)
	mux.HandleFunc("/api/favorites", s.handleFavorites)
	mux.HandleFunc("/api/history", s.handleHistory)
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("api: listening on :%s", s.port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mode":   string(s.service.Mode()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFetchError maps provider failure classes onto HTTP statuses. Auth
// failures never reach here; the service absorbs them by falling back to
// demo mode.
func writeFetchError(w http.ResponseWriter, err error) {
	switch provider.KindOf(err) {
	case provider.KindNotFound:
		writeError(w, http.StatusNotFound, "location not found")
	case provider.KindMalformed:
		writeError(w, http.StatusBadGateway, "weather provider returned an unusable response")
	case provider.KindNetwork:
		writeError(w, http.StatusGatewayTimeout, "weather provider unreachable")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// displayUnit resolves the unit for a request: an explicit query parameter
// wins, otherwise the persisted preference applies.
func (s *Server) displayUnit(r *http.Request) (models.Unit, error) {
	if raw := r.URL.Query().Get("unit"); raw != "" {
		unit, ok := models.ParseUnit(raw)
		if !ok {
			return "", errors.New("unit must be celsius or fahrenheit")
		}
		return unit, nil
	}
	prefs, err := s.service.Preferences()
	if err != nil {
		return models.UnitCelsius, nil
	}
	return prefs.Unit, nil
}
