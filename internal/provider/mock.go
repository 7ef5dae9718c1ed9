package provider

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

// Bounds for synthetic data. Determinism is not required in demo mode, but
// generated values must always stay inside realistic ranges.
const (
	mockBaseTempMin = 20.0
	mockHumidityMin = 60
	mockHumiditySpan = 30
	mockPressureMin = 1000.0
	mockPressureSpan = 50.0
	mockWindMin     = 2.0
	mockWindSpan    = 8.0
)

type mockCondition struct {
	icon string
	desc string
}

var dayConditions = []mockCondition{
	{"01d", "clear sky"},
	{"02d", "few clouds"},
	{"03d", "scattered clouds"},
	{"10d", "rain"},
	{"13d", "snow"},
}

var nightConditions = []mockCondition{
	{"01n", "clear sky"},
	{"02n", "few clouds"},
	{"03n", "scattered clouds"},
	{"10n", "rain"},
	{"13n", "snow"},
}

// Mock synthesizes bounded random weather data. It serves every fetch while
// the session is in demo mode: when no valid credential is configured, or
// after the live provider rejected one.
type Mock struct {
	// Now is the clock anchoring the synthetic series. Overridable in tests.
	Now func() time.Time
}

func NewMock() *Mock {
	return &Mock{Now: time.Now}
}

func (m *Mock) FetchCurrent(_ context.Context, loc models.Locator) (models.Current, error) {
	city := loc.City
	if loc.Coords {
		city = "Your location"
	}

	base := mockBaseTempMin + rand.Float64()*10
	cond := dayConditions[rand.Intn(len(dayConditions))]

	return models.Current{
		City: city,
		Sample: models.Sample{
			Time:        m.Now().UTC(),
			TempC:       math.Round(base),
			FeelsLikeC:  ptrFloat(math.Round(base - 2)),
			Humidity:    ptrInt(mockHumidityMin + rand.Int63n(mockHumiditySpan+1)),
			PressureHPa: ptrFloat(mockPressureMin + math.Round(rand.Float64()*mockPressureSpan)),
			WindSpeedMS: ptrFloat(roundTenth(mockWindMin + rand.Float64()*mockWindSpan)),
			Condition:   cond.icon,
			Description: cond.desc,
		},
	}, nil
}

// FetchForecast produces 24 hourly samples following a realistic day/night
// temperature curve plus three noon samples for the following days, mirroring
// the shape a live 5-day forecast reduces to.
func (m *Mock) FetchForecast(_ context.Context, _ models.Locator) (models.SampleSeries, error) {
	now := m.Now().UTC()
	base := mockBaseTempMin + rand.Float64()*10
	dayMax := base + 5 + rand.Float64()*5
	nightMin := base - 5 - rand.Float64()*5

	series := make(models.SampleSeries, 0, 27)

	start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, time.UTC)
	for i := 0; i < 24; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		series = append(series, m.hourlySample(at, dayMax, nightMin))
	}

	for offset := 1; offset <= 3; offset++ {
		noon := time.Date(now.Year(), now.Month(), now.Day()+offset, 12, 0, 0, 0, time.UTC)
		cond := dayConditions[rand.Intn(len(dayConditions))]
		series = append(series, models.Sample{
			Time:        noon,
			TempC:       math.Round(base + rand.Float64()*4 - 2),
			Condition:   cond.icon,
			Description: cond.desc,
		})
	}

	return series, nil
}

func (m *Mock) hourlySample(at time.Time, dayMax, nightMin float64) models.Sample {
	hour := at.Hour()
	span := dayMax - nightMin

	var temp float64
	switch {
	case hour >= 6 && hour < 10:
		// Morning warming ramp.
		temp = nightMin + span*float64(hour-6)/4
	case hour >= 10 && hour < 16:
		// Midday plateau with a gentle peak at 13:00.
		temp = dayMax - span*0.1*math.Abs(float64(hour-13))/3
	case hour >= 16 && hour < 20:
		// Evening cooling.
		temp = dayMax - span*float64(hour-16)/4
	default:
		// Night floor.
		temp = nightMin + span*0.2
	}

	conditions := nightConditions
	if hour >= 6 && hour < 20 {
		conditions = dayConditions
	}
	cond := conditions[rand.Intn(len(conditions))]

	return models.Sample{
		Time:        at,
		TempC:       roundTenth(temp),
		FeelsLikeC:  ptrFloat(roundTenth(temp - 2)),
		Humidity:    ptrInt(mockHumidityMin + rand.Int63n(mockHumiditySpan+1)),
		PressureHPa: ptrFloat(mockPressureMin + math.Round(rand.Float64()*mockPressureSpan)),
		WindSpeedMS: ptrFloat(roundTenth(mockWindMin + rand.Float64()*mockWindSpan)),
		Condition:   cond.icon,
		Description: cond.desc,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt(v int64) *int64 { return &v }
