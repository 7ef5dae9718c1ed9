package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/units"
)

// SampleView is a sample with its temperatures converted to the display unit.
type SampleView struct {
	Time        time.Time `json:"time"`
	Temp        float64   `json:"temp"`
	FeelsLike   *float64  `json:"feels_like,omitempty"`
	Humidity    *int64    `json:"humidity,omitempty"`
	PressureHPa *float64  `json:"pressure_hpa,omitempty"`
	WindSpeedMS *float64  `json:"wind_speed_ms,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	Description string    `json:"description,omitempty"`
}

type CurrentView struct {
	City string `json:"city"`
	Mode string `json:"mode"`
	Unit string `json:"unit"`
	SampleView
}

type DailyView struct {
	Unit string       `json:"unit"`
	Days []SampleView `json:"days"`
}

type HourSlotView struct {
	SampleView
	IsNow bool `json:"is_now"`
}

type HourlyView struct {
	Unit  string         `json:"unit"`
	Slots []HourSlotView `json:"slots"`
}

func sampleView(s models.Sample, unit models.Unit) SampleView {
	v := SampleView{
		Time:        s.Time,
		Temp:        units.ToDisplay(s.TempC, unit),
		Humidity:    s.Humidity,
		PressureHPa: s.PressureHPa,
		WindSpeedMS: s.WindSpeedMS,
		Condition:   s.Condition,
		Description: s.Description,
	}
	if s.FeelsLikeC != nil {
		feels := units.ToDisplay(*s.FeelsLikeC, unit)
		v.FeelsLike = &feels
	}
	return v
}

func currentView(c models.Current, unit models.Unit, mode models.Mode) CurrentView {
	return CurrentView{
		City:       c.City,
		Mode:       string(mode),
		Unit:       string(unit),
		SampleView: sampleView(c.Sample, unit),
	}
}

func dailyView(days []models.Sample, unit models.Unit) DailyView {
	out := DailyView{Unit: string(unit), Days: make([]SampleView, 0, len(days))}
	for _, d := range days {
		out.Days = append(out.Days, sampleView(d, unit))
	}
	return out
}

func hourlyView(slots []models.HourSlot, unit models.Unit) HourlyView {
	out := HourlyView{Unit: string(unit), Slots: make([]HourSlotView, 0, len(slots))}
	for _, slot := range slots {
		out.Slots = append(out.Slots, HourSlotView{
			SampleView: sampleView(slot.Sample, unit),
			IsNow:      slot.IsNow,
		})
	}
	return out
}

const maxBodyBytes = 1 << 16

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
