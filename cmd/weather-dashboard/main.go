package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	_ "modernc.org/sqlite"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/api"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/cache"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/provider"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/scheduler"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/store"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/weather"
)

var cli struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,help='Environment file to load.'"`

	DB              string        `name:"db" default:"data/weather.db" help:"Path to SQLite database."`
	Port            string        `name:"port" default:"8080" help:"HTTP server port."`
	APIKey          string        `name:"api-key" env:"OPENWEATHER_API_KEY" help:"OpenWeather API key. Invalid or absent keys start the session in demo mode."`
	Timezone        string        `name:"timezone" env:"TZ_NAME" default:"Local" help:"Timezone for local-day and local-hour boundaries."`
	RefreshInterval time.Duration `name:"refresh-interval" default:"15m" help:"How often to refresh the last searched city."`
	NoRefresh       bool          `name:"no-refresh" help:"Disable the background refresh job."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("weather-dashboard"),
		kong.Description("Weather dashboard API with forecast derivation and temporal interpolation."),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	loc, err := time.LoadLocation(cli.Timezone)
	if err != nil {
		log.Printf("Warning: could not load timezone %q, using UTC: %v", cli.Timezone, err)
		loc = time.UTC
	}

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	credentialOK := provider.ValidCredential(cli.APIKey)
	live := provider.NewOpenWeather(cli.APIKey)
	demo := provider.NewMock()
	service := weather.New(live, demo, cache.New(st), st, credentialOK)
	server := api.NewServer(service, cli.Port, loc)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !cli.NoRefresh {
		refresher := scheduler.New(service, cli.RefreshInterval)
		if err := refresher.Start(); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		defer refresher.Stop()
	} else {
		log.Println("background refresh disabled (--no-refresh)")
	}

	log.Printf("starting server on :%s (mode: %s)", cli.Port, service.Mode())
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
