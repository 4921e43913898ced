package weather

// CurrentConditions is the normalized snapshot of the current weather observation.
type CurrentConditions struct {
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	WeatherCode int     `json:"weather_code"`
}

// DailySummary is one calendar day of forecast, aggregated from 3-hour slots.
type DailySummary struct {
	Date            string  `json:"date"` // YYYY-MM-DD (UTC)
	Description     string  `json:"description"`
	TempMin         float64 `json:"temp_min"`
	TempMax         float64 `json:"temp_max"`
	RainProbability float64 `json:"rain_probability"` // 0-100, max across the day's slots
}

// ForecastResult is the combined current+daily forecast for a city.
// A non-empty Error means the upstream fetch failed and the other fields
// hold their zero values.
type ForecastResult struct {
	City    string            `json:"city"`
	Current CurrentConditions `json:"current"`
	Daily   []DailySummary    `json:"daily"`
	Error   string            `json:"error,omitempty"`
}

// UmbrellaResult tells whether an umbrella is needed today.
type UmbrellaResult struct {
	Needed          bool    `json:"needed"`
	Reason          string  `json:"reason"`
	RainProbability float64 `json:"rain_probability"`
	CurrentWeather  string  `json:"current_weather"`
	Error           string  `json:"error,omitempty"`
}

// LaundryConditions are the observation values the drying index was computed from.
type LaundryConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Weather     string  `json:"weather"`
}

// LaundryResult recommends outdoor or indoor drying.
type LaundryResult struct {
	Recommended bool              `json:"recommended"`
	Advice      string            `json:"advice"`
	DryingIndex int               `json:"drying_index"` // 0-100, higher dries faster
	Conditions  LaundryConditions `json:"conditions"`
	Error       string            `json:"error,omitempty"`
}

// HeatConditions are the observation values behind a heat-risk verdict.
type HeatConditions struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
}

// HeatstrokeResult carries the heat-risk level for the current conditions.
type HeatstrokeResult struct {
	RiskLevel    string         `json:"risk_level"`
	WBGTEstimate float64        `json:"wbgt_estimate"`
	Advice       string         `json:"advice"`
	Conditions   HeatConditions `json:"conditions"`
	Error        string         `json:"error,omitempty"`
}
