package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

const (
	// hourlySlots is the number of points in the interpolated 24-hour view.
	hourlySlots = 24
	// extendedSlots caps the 48-hour view at 16 points of native 3-hour cadence.
	extendedSlots = 16
	// nowWindow is how close the first extended slot must be to the reference
	// time to be flagged as "now".
	nowWindow = 2 * time.Hour
	// maxDiurnalAdjustment bounds the day/night cycle correction in °C.
	maxDiurnalAdjustment = 3.0
)

// Defaults substituted when the closest anchor sample lacks a field. They match
// the presentation fallbacks of the dashboard.
const (
	defaultHumidityPct = int64(60)
	defaultPressureHPa = 1000.0
	defaultWindSpeedMS = 2.0
)

// HourlySeries synthesizes the hourly view from a raw forecast series.
// horizonHours selects the view: 24 produces a dense hourly sequence via
// time-aware interpolation with a diurnal correction, 48 produces the extended
// view at native 3-hour cadence with the leading slot optionally flagged IsNow.
//
// The reference time is floored to the whole hour in loc before windowing.
// An empty window yields an empty result.
func HourlySeries(series models.SampleSeries, now time.Time, horizonHours int, loc *time.Location) []models.HourSlot {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	ref := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)

	if horizonHours >= 48 {
		return extendedSeries(series, ref)
	}
	return interpolatedSeries(series, ref, loc)
}

// interpolatedSeries builds 24 hourly slots. If the window already holds hourly
// cadence data (24 or more samples) it passes them through untouched.
func interpolatedSeries(series models.SampleSeries, ref time.Time, loc *time.Location) []models.HourSlot {
	relevant := windowed(series, ref, hourlySlots*time.Hour)
	if len(relevant) == 0 {
		return nil
	}

	if len(relevant) >= hourlySlots {
		slots := make([]models.HourSlot, 0, hourlySlots)
		for _, s := range relevant[:hourlySlots] {
			slots = append(slots, models.HourSlot{Sample: s})
		}
		return slots
	}

	var slots []models.HourSlot
	for i := 0; i < hourlySlots; i++ {
		target := ref.Add(time.Duration(i) * time.Hour)

		before, after := anchors(relevant, target)
		if before == nil {
			continue
		}

		span := after.Time.Sub(before.Time)
		offset := target.Sub(before.Time)

		temp := before.TempC
		if span > 0 {
			ratio := clamp(offset.Seconds()/span.Seconds(), 0, 1)
			linear := before.TempC + (after.TempC-before.TempC)*ratio
			temp = linear + diurnalCorrection(target.In(loc).Hour(), math.Abs(after.TempC-before.TempC))
		}
		temp = roundTenth(temp)

		// Non-temperature fields come from the temporally closer anchor,
		// ties resolving to the earlier one.
		closest := before
		if offset > span-offset {
			closest = after
		}

		slots = append(slots, models.HourSlot{Sample: synthesized(target, temp, closest)})
	}
	return slots
}

// extendedSeries passes through up to 16 native-cadence samples over 48 hours.
// The first slot is flagged IsNow only when its raw timestamp falls within two
// hours of the reference time.
func extendedSeries(series models.SampleSeries, ref time.Time) []models.HourSlot {
	relevant := windowed(series, ref, 48*time.Hour)
	if len(relevant) > extendedSlots {
		relevant = relevant[:extendedSlots]
	}

	slots := make([]models.HourSlot, 0, len(relevant))
	for i, s := range relevant {
		slot := models.HourSlot{Sample: s}
		if i == 0 {
			delta := s.Time.Sub(ref)
			if delta < 0 {
				delta = -delta
			}
			slot.IsNow = delta < nowWindow
		}
		slots = append(slots, slot)
	}
	return slots
}

// windowed filters the series to [ref, ref+horizon) and sorts ascending.
func windowed(series models.SampleSeries, ref time.Time, horizon time.Duration) models.SampleSeries {
	var out models.SampleSeries
	for _, s := range series {
		diff := s.Time.Sub(ref)
		if diff >= 0 && diff < horizon {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// anchors finds the latest sample at or before target and the earliest sample
// at or after it. At a series boundary the single available side serves as
// both, which flattens extrapolation to that anchor's values.
func anchors(sorted models.SampleSeries, target time.Time) (before, after *models.Sample) {
	for j := range sorted {
		if !sorted[j].Time.After(target) {
			before = &sorted[j]
		}
		if !sorted[j].Time.Before(target) && after == nil {
			after = &sorted[j]
			break
		}
	}
	if before == nil {
		before = after
	}
	if after == nil {
		after = before
	}
	return before, after
}

// diurnalCorrection models the day/night temperature cycle as a piecewise
// adjustment keyed to the local hour. The amplitude scales with the anchor
// temperature range and never exceeds maxDiurnalAdjustment.
//
// The shape: deepest cooling approaches dawn, a warming ramp through the
// morning, a midday peak centered at 13:00, afternoon decay, evening cooling.
func diurnalCorrection(hour int, tempRange float64) float64 {
	amplitude := math.Min(tempRange*0.3, maxDiurnalAdjustment)

	switch {
	case hour < 6:
		return -amplitude * (1 - float64(hour)/6)
	case hour < 10:
		return -amplitude * (1 - float64(hour-6)/4)
	case hour < 16:
		return amplitude * (1 - math.Abs(float64(hour-13))/3)
	case hour < 20:
		return amplitude * (1 - float64(hour-16)/4)
	default:
		return -amplitude * float64(hour-20) / 4
	}
}

// synthesized assembles an interpolated sample, filling missing fields from
// the closest anchor with the dashboard's presentation defaults.
func synthesized(target time.Time, tempC float64, closest *models.Sample) models.Sample {
	s := models.Sample{
		Time:        target,
		TempC:       tempC,
		Condition:   closest.Condition,
		Description: closest.Description,
	}

	if closest.FeelsLikeC != nil {
		v := *closest.FeelsLikeC
		s.FeelsLikeC = &v
	} else {
		v := roundTenth(tempC - 2)
		s.FeelsLikeC = &v
	}

	humidity := defaultHumidityPct
	if closest.Humidity != nil {
		humidity = *closest.Humidity
	}
	s.Humidity = &humidity

	pressure := defaultPressureHPa
	if closest.PressureHPa != nil {
		pressure = *closest.PressureHPa
	}
	s.PressureHPa = &pressure

	wind := defaultWindSpeedMS
	if closest.WindSpeedMS != nil {
		wind = *closest.WindSpeedMS
	}
	s.WindSpeedMS = &wind

	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
