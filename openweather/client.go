// Package openweather is a thin client for the OpenWeatherMap data API
// (current weather and 5-day/3-hour forecast by city name).
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Condition is one entry of the "weather" array in an API response.
type Condition struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather is the subset of the current-weather response the skills consume.
type CurrentWeather struct {
	Weather []Condition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

// ForecastEntry is one 3-hour slot of the forecast response.
type ForecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []Condition `json:"weather"`
	// Pop is the probability of precipitation as a 0..1 fraction.
	Pop float64 `json:"pop"`
}

// Forecast is the 5-day/3-hour forecast response.
type Forecast struct {
	List []ForecastEntry `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

// Client calls the OpenWeatherMap API with a fixed API key.
// All requests use units=metric and lang=ja.
type Client struct {
	apiKey     string
	baseURL    string
	lang       string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLanguage overrides the lang query parameter (default "ja").
func WithLanguage(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openweather: API key is required")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		lang:    "ja",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CurrentWeather fetches the current weather for a city.
func (c *Client) CurrentWeather(ctx context.Context, city string) (CurrentWeather, error) {
	var current CurrentWeather
	if err := c.get(ctx, "/weather", city, &current); err != nil {
		return CurrentWeather{}, err
	}
	return current, nil
}

// FetchForecast fetches the 5-day/3-hour forecast for a city.
func (c *Client) FetchForecast(ctx context.Context, city string) (Forecast, error) {
	var forecast Forecast
	if err := c.get(ctx, "/forecast", city, &forecast); err != nil {
		return Forecast{}, err
	}
	return forecast, nil
}

// get performs a GET against an API endpoint and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint, city string, out interface{}) error {
	params := url.Values{}
	params.Add("q", city)
	params.Add("appid", c.apiKey)
	params.Add("units", "metric")
	params.Add("lang", c.lang)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
