package stats

import (
	"math"
	"math/rand/v2"
	"time"
)

// TrendDays is the length of the attendance trend window, today included.
const TrendDays = 7

const trendLabel = "Jan 2"

// TrendPoint is one day of the attendance trend chart.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// trendDays returns the start of each day in the window, oldest first.
func trendDays(now time.Time) []time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := make([]time.Time, TrendDays)
	for i := range days {
		days[i] = today.AddDate(0, 0, i-(TrendDays-1))
	}
	return days
}

// TrendSince is the first instant counted by HistoryTrend for now.
func TrendSince(now time.Time) time.Time {
	return trendDays(now)[0]
}

// HistoryTrend buckets booking creation times into the calendar days of
// the window ending at now, using now's location.  Times outside the
// window are ignored.
func HistoryTrend(bookedAt []time.Time, now time.Time) []TrendPoint {
	days := trendDays(now)
	counts := make(map[string]int64, len(days))
	for _, t := range bookedAt {
		t = t.In(now.Location())
		counts[t.Format(time.DateOnly)]++
	}
	out := make([]TrendPoint, 0, len(days))
	for _, d := range days {
		out = append(out, TrendPoint{Date: d.Format(trendLabel), Count: counts[d.Format(time.DateOnly)]})
	}
	return out
}

// EstimateTrend is the legacy synthetic series.  With avg the floored
// daily average of totalBookings, each day gets
// avg + floor(u*0.4*avg) - 0.2*avg for u uniform in [0, 1), truncated to
// a whole count and floored at zero.  It does not look at when bookings
// were made.
func EstimateTrend(totalBookings int64, now time.Time, rng *rand.Rand) []TrendPoint {
	avg := totalBookings / TrendDays
	days := trendDays(now)
	out := make([]TrendPoint, 0, len(days))
	for _, d := range days {
		spread := float64(avg) * 0.4
		jitter := math.Floor(rng.Float64()*spread) - float64(avg)*0.2
		count := int64(math.Floor(float64(avg) + jitter))
		if count < 0 {
			count = 0
		}
		out = append(out, TrendPoint{Date: d.Format(trendLabel), Count: count})
	}
	return out
}
