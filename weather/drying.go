package weather

import "math"

// dryingIndex scores outdoor drying conditions on a 0-100 scale from three
// additive sub-scores: temperature (up to 40 points between 5°C and 35°C),
// dryness (up to 35 points) and wind (up to 25 points at 5 m/s).
func dryingIndex(temperature float64, humidity int, windSpeed float64) int {
	tempScore := clamp((temperature-5)/30*40, 0, 40)
	humidityScore := clamp((100-float64(humidity))/100*35, 0, 35)
	windScore := clamp(windSpeed/5*25, 0, 25)

	index := int(math.Round(tempScore + humidityScore + windScore))
	if index < 0 {
		return 0
	}
	if index > 100 {
		return 100
	}
	return index
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
