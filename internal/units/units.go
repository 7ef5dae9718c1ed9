package units

import (
	"fmt"
	"math"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

// ToDisplay converts a stored Celsius temperature to the display unit.
// No rounding is applied; rounding is a presentation concern.
func ToDisplay(tempC float64, unit models.Unit) float64 {
	if unit == models.UnitFahrenheit {
		return tempC*9/5 + 32
	}
	return tempC
}

// ToCelsius converts a display-unit temperature back to Celsius.
func ToCelsius(temp float64, unit models.Unit) float64 {
	if unit == models.UnitFahrenheit {
		return (temp - 32) * 5 / 9
	}
	return temp
}

// Format renders a Celsius temperature as a rounded display string, e.g. "21°C".
func Format(tempC float64, unit models.Unit) string {
	converted := ToDisplay(tempC, unit)
	suffix := "C"
	if unit == models.UnitFahrenheit {
		suffix = "F"
	}
	return fmt.Sprintf("%d°%s", int(math.Round(converted)), suffix)
}
