package units

import (
	"math"
	"testing"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

func TestToDisplay(t *testing.T) {
	tests := []struct {
		name  string
		tempC float64
		unit  models.Unit
		want  float64
	}{
		{"celsius identity", 21.5, models.UnitCelsius, 21.5},
		{"freezing point", 0, models.UnitFahrenheit, 32},
		{"boiling point", 100, models.UnitFahrenheit, 212},
		{"negative", -40, models.UnitFahrenheit, -40},
		{"body temp", 37, models.UnitFahrenheit, 98.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDisplay(tt.tempC, tt.unit)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ToDisplay(%v, %s) = %v, want %v", tt.tempC, tt.unit, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, temp := range []float64{-40, -17.8, 0, 10.3, 21.5, 37, 100} {
		f := ToDisplay(temp, models.UnitFahrenheit)
		back := ToCelsius(f, models.UnitFahrenheit)
		if math.Abs(back-temp) > 0.05 {
			t.Errorf("round trip %v°C -> %v°F -> %v°C, drift %v", temp, f, back, math.Abs(back-temp))
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		tempC float64
		unit  models.Unit
		want  string
	}{
		{21.4, models.UnitCelsius, "21°C"},
		{21.5, models.UnitCelsius, "22°C"},
		{0, models.UnitFahrenheit, "32°F"},
		{-0.4, models.UnitCelsius, "0°C"},
	}

	for _, tt := range tests {
		if got := Format(tt.tempC, tt.unit); got != tt.want {
			t.Errorf("Format(%v, %s) = %q, want %q", tt.tempC, tt.unit, got, tt.want)
		}
	}
}
