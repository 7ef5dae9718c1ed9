package provider

import (
	"context"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

// Provider supplies raw current conditions and a forecast series for a
// location. Both calls of a query must succeed together; partial success is
// treated as failure by the caller.
type Provider interface {
	FetchCurrent(ctx context.Context, loc models.Locator) (models.Current, error)
	FetchForecast(ctx context.Context, loc models.Locator) (models.SampleSeries, error)
}

// Placeholder strings that ship in example configuration and never identify a
// real credential.
var placeholderKeys = map[string]bool{
	"your_api_key_here":        true,
	"your_actual_api_key_here": true,
}

// minCredentialLength is the shortest plausible API key.
const minCredentialLength = 10

// ValidCredential reports whether a key looks usable. This is a pure shape
// check; no network call is made. An invalid shape puts the session in demo
// mode from the start.
func ValidCredential(key string) bool {
	if key == "" || placeholderKeys[key] {
		return false
	}
	return len(key) >= minCredentialLength
}
