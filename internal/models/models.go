package models

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the temperature unit used for display. Stored values are always Celsius.
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// ParseUnit returns the unit for a stored or query string, or false if unknown.
func ParseUnit(s string) (Unit, bool) {
	switch Unit(s) {
	case UnitCelsius, UnitFahrenheit:
		return Unit(s), true
	}
	return "", false
}

// Theme is the persisted UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns the theme for a stored string, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Mode is the session-wide data source state. Live uses the weather provider,
// demo synthesizes data locally. The live to demo transition is one-way.
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// Sample is one raw observation or forecast point. Immutable once received.
// Optional fields are nil when the provider omitted them.
type Sample struct {
	Time        time.Time `json:"time"`
	TempC       float64   `json:"temp_c"`
	FeelsLikeC  *float64  `json:"feels_like_c,omitempty"`
	Humidity    *int64    `json:"humidity,omitempty"`
	PressureHPa *float64  `json:"pressure_hpa,omitempty"`
	WindSpeedMS *float64  `json:"wind_speed_ms,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	Description string    `json:"description,omitempty"`
}

// SampleSeries is an ordered sequence of samples for one location. Arrival order
// is not guaranteed; the forecast engine sorts before processing.
type SampleSeries []Sample

// Current is the current-conditions sample together with the resolved city name.
type Current struct {
	City string `json:"city"`
	Sample
}

// WeatherSnapshot pairs current conditions with the raw forecast series for one
// location. This is the unit of caching.
type WeatherSnapshot struct {
	Current  Current      `json:"current"`
	Forecast SampleSeries `json:"forecast"`
}

// HourSlot is one synthesized point of the hourly view. IsNow is a display
// affordance only and never influences temperature computation.
type HourSlot struct {
	Sample
	IsNow bool `json:"is_now"`
}

// Locator identifies a location query: either a city name or a coordinate pair.
type Locator struct {
	City   string
	Lat    float64
	Lon    float64
	Coords bool
}

func CityLocator(city string) Locator {
	return Locator{City: strings.TrimSpace(city)}
}

func CoordsLocator(lat, lon float64) Locator {
	return Locator{Lat: lat, Lon: lon, Coords: true}
}

// Key returns the normalized cache key for the locator. City queries match
// case-insensitively; coordinates round to 2 decimal places so nearby requests
// within roughly a kilometre share an entry.
func (l Locator) Key() string {
	if l.Coords {
		return fmt.Sprintf("coords_%.2f_%.2f", l.Lat, l.Lon)
	}
	return "city_" + strings.ToLower(strings.TrimSpace(l.City))
}

func (l Locator) String() string {
	if l.Coords {
		return fmt.Sprintf("(%.4f, %.4f)", l.Lat, l.Lon)
	}
	return l.City
}

// Preferences are the persisted per-device settings.
type Preferences struct {
	LastCity string `json:"last_city,omitempty"`
	Unit     Unit   `json:"unit"`
	Theme    Theme  `json:"theme"`
}
