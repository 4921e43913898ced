package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yu010101/picohub/openweather"
)

// fakeSource serves canned observations and forecasts.
type fakeSource struct {
	current     openweather.CurrentWeather
	forecast    openweather.Forecast
	currentErr  error
	forecastErr error
}

func (f *fakeSource) CurrentWeather(ctx context.Context, city string) (openweather.CurrentWeather, error) {
	if f.currentErr != nil {
		return openweather.CurrentWeather{}, f.currentErr
	}
	return f.current, nil
}

func (f *fakeSource) FetchForecast(ctx context.Context, city string) (openweather.Forecast, error) {
	if f.forecastErr != nil {
		return openweather.Forecast{}, f.forecastErr
	}
	return f.forecast, nil
}

func observation(code int, description string, temp float64, humidity int, wind float64) openweather.CurrentWeather {
	var current openweather.CurrentWeather
	current.Weather = []openweather.Condition{{ID: code, Description: description}}
	current.Main.Temp = temp
	current.Main.FeelsLike = temp + 2
	current.Main.Humidity = humidity
	current.Wind.Speed = wind
	current.Name = "Tokyo"
	return current
}

// todayForecast builds a single-day forecast whose peak rain probability is pop.
func todayForecast(pop float64) openweather.Forecast {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	return openweather.Forecast{List: []openweather.ForecastEntry{
		slot(now, 28, "晴れ", 800, pop),
		slot(now.Add(3*time.Hour), 30, "晴れ", 800, pop/2),
	}}
}

func TestGetForecast(t *testing.T) {
	ctx := context.Background()

	t.Run("returns current conditions and daily summaries", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(800, "晴れ", 28.5, 55, 3.2),
			forecast: todayForecast(0.4),
		}
		skill := NewSkill(src, nil)

		result, err := skill.GetForecast(ctx, "Tokyo")
		require.NoError(t, err)
		assert.Empty(t, result.Error)
		assert.Equal(t, "Tokyo", result.City)
		assert.Equal(t, "晴れ", result.Current.Description)
		assert.Equal(t, 800, result.Current.WeatherCode)
		assert.Equal(t, 28.5, result.Current.Temperature)
		assert.Equal(t, 55, result.Current.Humidity)
		require.Len(t, result.Daily, 1)
		assert.Equal(t, 40.0, result.Daily[0].RainProbability)
	})

	t.Run("empty city is the only hard error", func(t *testing.T) {
		skill := NewSkill(&fakeSource{}, nil)
		_, err := skill.GetForecast(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyCity)
	})

	t.Run("upstream failure degrades into Error field", func(t *testing.T) {
		src := &fakeSource{currentErr: errors.New("API error (status 401): Invalid API key")}
		skill := NewSkill(src, nil)

		result, err := skill.GetForecast(ctx, "Tokyo")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Error)
		assert.Equal(t, "Tokyo", result.City)
		assert.Empty(t, result.Daily)
		assert.Zero(t, result.Current)
	})

	t.Run("same input yields the same result", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(800, "晴れ", 28.5, 55, 3.2),
			forecast: todayForecast(0.4),
		}
		skill := NewSkill(src, nil)

		first, err := skill.GetForecast(ctx, "Tokyo")
		require.NoError(t, err)
		second, err := skill.GetForecast(ctx, "Tokyo")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestCheckUmbrella(t *testing.T) {
	ctx := context.Background()

	t.Run("rain right now wins over a dry forecast", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(500, "小雨", 22, 80, 2),
			forecast: todayForecast(0.1),
		}
		skill := NewSkill(src, nil)

		result, err := skill.CheckUmbrella(ctx, "Tokyo")
		require.NoError(t, err)
		assert.True(t, result.Needed)
		assert.Equal(t, "現在、小雨です。傘を持っていきましょう。", result.Reason)
		assert.Equal(t, 80.0, result.RainProbability)
		assert.Equal(t, "小雨", result.CurrentWeather)
	})

	t.Run("high forecast probability recommends strongly", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(803, "曇り", 22, 70, 2),
			forecast: todayForecast(0.7),
		}
		skill := NewSkill(src, nil)

		result, err := skill.CheckUmbrella(ctx, "Tokyo")
		require.NoError(t, err)
		assert.True(t, result.Needed)
		assert.Equal(t, "降水確率が70%です。傘を持っていくことを強くお勧めします。", result.Reason)
		assert.Equal(t, 70.0, result.RainProbability)
	})

	t.Run("moderate probability suggests a fold-up umbrella", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(803, "曇り", 22, 70, 2),
			forecast: todayForecast(0.35),
		}
		skill := NewSkill(src, nil)

		result, err := skill.CheckUmbrella(ctx, "Tokyo")
		require.NoError(t, err)
		assert.True(t, result.Needed)
		assert.Equal(t, "降水確率が35%です。折りたたみ傘を持っていくと安心です。", result.Reason)
	})

	t.Run("low probability needs no umbrella", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(800, "晴れ", 28, 50, 3),
			forecast: todayForecast(0.1),
		}
		skill := NewSkill(src, nil)

		result, err := skill.CheckUmbrella(ctx, "Tokyo")
		require.NoError(t, err)
		assert.False(t, result.Needed)
		assert.Equal(t, "今日は雨の心配はなさそうです。", result.Reason)
		assert.Equal(t, 10.0, result.RainProbability)
	})

	t.Run("upstream failure degrades into Error field", func(t *testing.T) {
		src := &fakeSource{currentErr: errors.New("connection refused")}
		skill := NewSkill(src, nil)

		result, err := skill.CheckUmbrella(ctx, "Tokyo")
		require.NoError(t, err)
		assert.False(t, result.Needed)
		assert.Equal(t, "天気情報を取得できませんでした。", result.Reason)
		assert.NotEmpty(t, result.Error)
	})

	t.Run("empty city", func(t *testing.T) {
		skill := NewSkill(&fakeSource{}, nil)
		_, err := skill.CheckUmbrella(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyCity)
	})
}

func TestCheckLaundry(t *testing.T) {
	ctx := context.Background()

	t.Run("warm dry breezy day is ideal", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(800, "晴れ", 30, 40, 5),
			forecast: todayForecast(0.1),
		}
		skill := NewSkill(src, nil)

		result, err := skill.CheckLaundry(ctx, "Tokyo")
		require.NoError(t, err)
		assert.True(t, result.Recommended)
		assert.Equal(t, 79, result.DryingIndex)
		assert.Equal(t, "絶好の洗濯日和です！外干しをお勧めします。", result.Advice)
		assert.Equal(t, 30.0, result.Conditions.Temperature)
		assert.Equal(t, 40, result.Conditions.Humidity)
	})

	t.Run("rain right now zeroes the index", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(501, "雨", 20, 90, 1),
			forecast: todayForecast(0.9),
		}
		skill := NewSkill(src, nil)

		result, err := skill.CheckLaundry(ctx, "Tokyo")
		require.NoError(t, err)
		assert.False(t, result.Recommended)
		assert.Equal(t, 0, result.DryingIndex)
		assert.Equal(t, "現在雨が降っています。室内干しをお勧めします。", result.Advice)
	})

	t.Run("rainy forecast overrides a good index", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(800, "晴れ", 30, 40, 5),
			forecast: todayForecast(0.6),
		}
		skill := NewSkill(src, nil)

		result, err := skill.CheckLaundry(ctx, "Tokyo")
		require.NoError(t, err)
		assert.False(t, result.Recommended)
		assert.Equal(t, 49, result.DryingIndex)
		assert.Equal(t, "午後の降水確率が60%です。室内干しをお勧めします。", result.Advice)
	})

	t.Run("cold humid day recommends indoor drying", func(t *testing.T) {
		src := &fakeSource{
			current:  observation(803, "曇り", 8, 85, 0.5),
			forecast: todayForecast(0.1),
		}
		skill := NewSkill(src, nil)

		result, err := skill.CheckLaundry(ctx, "Tokyo")
		require.NoError(t, err)
		assert.False(t, result.Recommended)
		assert.Equal(t, "気温が低く湿度が高いため、室内干しまたは乾燥機の使用をお勧めします。", result.Advice)
	})

	t.Run("upstream failure degrades into Error field", func(t *testing.T) {
		src := &fakeSource{forecastErr: errors.New("timeout")}
		skill := NewSkill(src, nil)

		result, err := skill.CheckLaundry(ctx, "Tokyo")
		require.NoError(t, err)
		assert.False(t, result.Recommended)
		assert.Equal(t, 0, result.DryingIndex)
		assert.Equal(t, "天気情報を取得できませんでした。", result.Advice)
		assert.NotEmpty(t, result.Error)
	})

	t.Run("empty city", func(t *testing.T) {
		skill := NewSkill(&fakeSource{}, nil)
		_, err := skill.CheckLaundry(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyCity)
	})
}
