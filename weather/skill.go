// Package weather is the weather-reminder skill: it fetches current conditions
// and the 5-day forecast from OpenWeatherMap and turns them into umbrella,
// laundry and heatstroke advisories.
//
// Every public method validates its input first (an empty city is the only
// error returned to the caller), and degrades upstream failures into a result
// whose Error field is set instead of propagating them.
package weather

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrEmptyCity is returned when a public method is called without a city name.
var ErrEmptyCity = errors.New("weather: city must not be empty")

const errWeatherUnavailable = "天気情報を取得できませんでした。"

// Skill provides weather-based reminders for a city.
type Skill struct {
	source Source
	logger *zap.Logger
}

// NewSkill creates the weather skill on top of an upstream source.
// A nil logger disables logging.
func NewSkill(source Source, logger *zap.Logger) *Skill {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Skill{source: source, logger: logger}
}

// GetForecast fetches the current weather and the 5-day forecast for a city
// and aggregates the forecast into per-day summaries.
//
// On an upstream failure the returned result has empty Current/Daily fields
// and a non-empty Error; the returned error is non-nil only for an empty city.
func (s *Skill) GetForecast(ctx context.Context, city string) (ForecastResult, error) {
	if city == "" {
		return ForecastResult{}, ErrEmptyCity
	}

	current, err := s.source.CurrentWeather(ctx, city)
	if err != nil {
		s.logger.Error("天気予報の取得に失敗しました", zap.String("city", city), zap.Error(err))
		return ForecastResult{City: city, Daily: []DailySummary{}, Error: err.Error()}, nil
	}

	forecast, err := s.source.FetchForecast(ctx, city)
	if err != nil {
		s.logger.Error("天気予報の取得に失敗しました", zap.String("city", city), zap.Error(err))
		return ForecastResult{City: city, Daily: []DailySummary{}, Error: err.Error()}, nil
	}

	conditions := CurrentConditions{
		Description: descUnknown,
		Temperature: current.Main.Temp,
		FeelsLike:   current.Main.FeelsLike,
		Humidity:    current.Main.Humidity,
		WindSpeed:   current.Wind.Speed,
	}
	if len(current.Weather) > 0 {
		conditions.Description = current.Weather[0].Description
		conditions.WeatherCode = current.Weather[0].ID
	}

	return ForecastResult{
		City:    city,
		Current: conditions,
		Daily:   aggregateDaily(forecast),
	}, nil
}

// CheckUmbrella decides whether to carry an umbrella today.
//
// A current precipitation condition wins over the forecast (it is ground
// truth); otherwise today's peak rain probability picks the wording, with
// 60% and 30% as the confidence thresholds.
func (s *Skill) CheckUmbrella(ctx context.Context, city string) (UmbrellaResult, error) {
	if city == "" {
		return UmbrellaResult{}, ErrEmptyCity
	}

	forecast, err := s.GetForecast(ctx, city)
	if err != nil {
		return UmbrellaResult{}, err
	}
	if forecast.Error != "" {
		return UmbrellaResult{
			Needed: false,
			Reason: errWeatherUnavailable,
			Error:  forecast.Error,
		}, nil
	}

	current := forecast.Current
	todayRainProbability := 0.0
	if len(forecast.Daily) > 0 {
		todayRainProbability = forecast.Daily[0].RainProbability
	}

	switch {
	case isRainCode(current.WeatherCode):
		return UmbrellaResult{
			Needed:          true,
			Reason:          fmt.Sprintf("現在、%sです。傘を持っていきましょう。", current.Description),
			RainProbability: maxFloat(todayRainProbability, 80),
			CurrentWeather:  current.Description,
		}, nil
	case todayRainProbability >= 60:
		return UmbrellaResult{
			Needed:          true,
			Reason:          fmt.Sprintf("降水確率が%.0f%%です。傘を持っていくことを強くお勧めします。", todayRainProbability),
			RainProbability: todayRainProbability,
			CurrentWeather:  current.Description,
		}, nil
	case todayRainProbability >= 30:
		return UmbrellaResult{
			Needed:          true,
			Reason:          fmt.Sprintf("降水確率が%.0f%%です。折りたたみ傘を持っていくと安心です。", todayRainProbability),
			RainProbability: todayRainProbability,
			CurrentWeather:  current.Description,
		}, nil
	default:
		return UmbrellaResult{
			Needed:          false,
			Reason:          "今日は雨の心配はなさそうです。",
			RainProbability: todayRainProbability,
			CurrentWeather:  current.Description,
		}, nil
	}
}

// CheckLaundry scores how well laundry would dry outdoors today (0-100) and
// recommends outdoor or indoor drying. Rain right now zeroes the score; a
// rain probability of 50% or more for today overrides an otherwise good score.
func (s *Skill) CheckLaundry(ctx context.Context, city string) (LaundryResult, error) {
	if city == "" {
		return LaundryResult{}, ErrEmptyCity
	}

	forecast, err := s.GetForecast(ctx, city)
	if err != nil {
		return LaundryResult{}, err
	}
	if forecast.Error != "" {
		return LaundryResult{
			Recommended: false,
			Advice:      errWeatherUnavailable,
			Error:       forecast.Error,
		}, nil
	}

	current := forecast.Current
	conditions := LaundryConditions{
		Temperature: current.Temperature,
		Humidity:    current.Humidity,
		WindSpeed:   current.WindSpeed,
		Weather:     current.Description,
	}

	// rain dominates all other factors
	if isRainCode(current.WeatherCode) {
		return LaundryResult{
			Recommended: false,
			Advice:      "現在雨が降っています。室内干しをお勧めします。",
			DryingIndex: 0,
			Conditions:  conditions,
		}, nil
	}

	index := dryingIndex(current.Temperature, current.Humidity, current.WindSpeed)

	todayRainProbability := 0.0
	if len(forecast.Daily) > 0 {
		todayRainProbability = forecast.Daily[0].RainProbability
	}

	switch {
	case todayRainProbability >= 50:
		return LaundryResult{
			Recommended: false,
			Advice:      fmt.Sprintf("午後の降水確率が%.0f%%です。室内干しをお勧めします。", todayRainProbability),
			DryingIndex: maxInt(index-30, 0),
			Conditions:  conditions,
		}, nil
	case index >= 60:
		return LaundryResult{
			Recommended: true,
			Advice:      "絶好の洗濯日和です！外干しをお勧めします。",
			DryingIndex: index,
			Conditions:  conditions,
		}, nil
	case index >= 40:
		return LaundryResult{
			Recommended: true,
			Advice:      "外干しは可能ですが、厚手の衣類は乾きにくいかもしれません。",
			DryingIndex: index,
			Conditions:  conditions,
		}, nil
	default:
		return LaundryResult{
			Recommended: false,
			Advice:      "気温が低く湿度が高いため、室内干しまたは乾燥機の使用をお勧めします。",
			DryingIndex: index,
			Conditions:  conditions,
		}, nil
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
