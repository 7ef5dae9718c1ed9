package forecast

import (
	"sort"
	"time"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

// maxDailySummaries caps the daily view at three future days.
const maxDailySummaries = 3

// DailySummaries reduces a raw forecast series to at most three representative
// samples, one per future calendar day in the given location's local time.
// The earliest sample of each day represents it. Samples falling on the current
// day are excluded: the daily view only summarizes days after today.
//
// Input order does not matter; the series is sorted internally.
func DailySummaries(series models.SampleSeries, now time.Time, loc *time.Location) []models.Sample {
	if loc == nil {
		loc = time.UTC
	}

	sorted := make(models.SampleSeries, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	today := dayKey(now, loc)
	seen := make(map[string]bool)
	var daily []models.Sample

	for _, s := range sorted {
		key := dayKey(s.Time, loc)
		if key == today {
			continue
		}
		if !seen[key] && len(daily) < maxDailySummaries {
			seen[key] = true
			daily = append(daily, s)
		}
	}

	// Safeguard pass for pathological inputs: pick up any remaining unseen days.
	// For a well-formed series the first pass already consumed every candidate,
	// so this adds nothing. Today's samples stay excluded here too.
	if len(daily) < maxDailySummaries {
		for _, s := range sorted {
			if len(daily) >= maxDailySummaries {
				break
			}
			key := dayKey(s.Time, loc)
			if key == today || seen[key] {
				continue
			}
			seen[key] = true
			daily = append(daily, s)
		}
	}

	return daily
}

// dayKey buckets a timestamp by local calendar day.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
