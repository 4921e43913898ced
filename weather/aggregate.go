package weather

import (
	"math"
	"sort"
	"time"

	"github.com/yu010101/picohub/openweather"
)

// descUnknown is the placeholder for a missing weather description.
const descUnknown = "不明"

// dayBucket accumulates the 3-hour slots that fall on one calendar day.
type dayBucket struct {
	date            string
	tempMin         float64
	tempMax         float64
	descriptions    []string
	rainProbability float64
}

// aggregateDaily groups forecast entries by UTC calendar date and reduces each
// group to a DailySummary. Days come out in ascending date order; the summaries
// are rebuilt from scratch on every call.
func aggregateDaily(forecast openweather.Forecast) []DailySummary {
	buckets := make(map[string]*dayBucket)

	for _, entry := range forecast.List {
		date := time.Unix(entry.Dt, 0).UTC().Format("2006-01-02")

		day, ok := buckets[date]
		if !ok {
			day = &dayBucket{
				date:    date,
				tempMin: math.Inf(1),
				tempMax: math.Inf(-1),
			}
			buckets[date] = day
		}

		day.tempMin = math.Min(day.tempMin, entry.Main.Temp)
		day.tempMax = math.Max(day.tempMax, entry.Main.Temp)

		description := ""
		if len(entry.Weather) > 0 {
			description = entry.Weather[0].Description
		}
		day.descriptions = append(day.descriptions, description)

		pop := entry.Pop * 100
		day.rainProbability = math.Max(day.rainProbability, pop)
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	// lexicographic order is chronological for YYYY-MM-DD
	sort.Strings(dates)

	daily := make([]DailySummary, 0, len(dates))
	for _, date := range dates {
		day := buckets[date]
		daily = append(daily, DailySummary{
			Date:            day.date,
			Description:     mostFrequent(day.descriptions),
			TempMin:         round1(day.tempMin),
			TempMax:         round1(day.tempMax),
			RainProbability: math.Round(day.rainProbability),
		})
	}
	return daily
}

// mostFrequent returns the most common value in order of first occurrence:
// on a tie, the value that appeared first wins.
func mostFrequent(values []string) string {
	if len(values) == 0 {
		return descUnknown
	}

	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best := values[0]
	bestCount := counts[best]
	for _, v := range values[1:] {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
