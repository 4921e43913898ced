package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/yu010101/picohub/openweather"
)

// Source is the upstream weather collaborator the skill fetches from.
// *openweather.Client satisfies it.
type Source interface {
	// CurrentWeather fetches the current observation for a city.
	CurrentWeather(ctx context.Context, city string) (openweather.CurrentWeather, error)

	// FetchForecast fetches the 5-day/3-hour forecast for a city.
	FetchForecast(ctx context.Context, city string) (openweather.Forecast, error)
}

// RateLimitedSource wraps a Source with rate limiting. The OpenWeatherMap
// free tier shares one quota across endpoints, so a single limiter covers
// both calls.
type RateLimitedSource struct {
	source  Source
	limiter *rate.Limiter
}

// NewRateLimitedSource creates a new rate limited source.
// rps is the maximum requests per second allowed (can be fractional for less
// than 1 request per second), burst is the maximum burst size allowed.
func NewRateLimitedSource(source Source, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// CurrentWeather fetches the current observation, respecting rate limits.
func (r *RateLimitedSource) CurrentWeather(ctx context.Context, city string) (openweather.CurrentWeather, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return openweather.CurrentWeather{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.CurrentWeather(ctx, city)
}

// FetchForecast fetches the forecast, respecting rate limits.
func (r *RateLimitedSource) FetchForecast(ctx context.Context, city string) (openweather.Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return openweather.Forecast{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.FetchForecast(ctx, city)
}

// Verify the wrapper and the real client implement the interface
var (
	_ Source = (*RateLimitedSource)(nil)
	_ Source = (*openweather.Client)(nil)
)
