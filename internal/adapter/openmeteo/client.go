package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/crop-advisor/internal/domain"
	"github.com/couchcryptid/crop-advisor/internal/observability"
	"golang.org/x/time/rate"
)

// Default Open-Meteo endpoints.
const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

const (
	apiGeocoding = "geocoding"
	apiForecast  = "forecast"
)

// pastDays is how much precipitation history feeds the rainfall average.
const pastDays = 30

// Client implements domain.Geocoder and domain.WeatherProvider using the
// Open-Meteo geocoding and forecast APIs. Both share one rate limiter.
type Client struct {
	geocodingURL string
	forecastURL  string
	httpClient   *http.Client
	limiter      *rate.Limiter
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// Options configures a Client. Zero values select the public endpoints,
// a 5s timeout and 5 requests per second.
type Options struct {
	GeocodingURL string
	ForecastURL  string
	Timeout      time.Duration
	RatePerSec   float64
}

// NewClient creates an Open-Meteo client.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if opts.GeocodingURL == "" {
		opts.GeocodingURL = DefaultGeocodingURL
	}
	if opts.ForecastURL == "" {
		opts.ForecastURL = DefaultForecastURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	return &Client{
		geocodingURL: opts.GeocodingURL,
		forecastURL:  opts.ForecastURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode resolves a city name to coordinates. An empty result means
// no match.
func (c *Client) ForwardGeocode(ctx context.Context, name string) (domain.GeocodingResult, error) {
	params := url.Values{
		"name":     {name},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}

	var resp geocodingResponse
	if err := c.getJSON(ctx, apiGeocoding, c.geocodingURL+"?"+params.Encode(), &resp); err != nil {
		return domain.GeocodingResult{}, err
	}

	if len(resp.Results) == 0 {
		c.metrics.UpstreamRequests.WithLabelValues(apiGeocoding, "empty").Inc()
		return domain.GeocodingResult{}, nil
	}
	c.metrics.UpstreamRequests.WithLabelValues(apiGeocoding, "success").Inc()

	r := resp.Results[0]
	return domain.GeocodingResult{
		Lat:       r.Latitude,
		Lon:       r.Longitude,
		PlaceName: r.Name,
		Admin1:    r.Admin1,
		Country:   r.Country,
	}, nil
}

// CurrentWeather returns the current temperature and humidity at a location
// together with the average hourly precipitation over the past 30 days.
// Current values fall back to the last hourly sample when absent.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.WeatherReport, error) {
	params := url.Values{
		"latitude":        {strconv.FormatFloat(lat, 'f', 4, 64)},
		"longitude":       {strconv.FormatFloat(lon, 'f', 4, 64)},
		"hourly":          {"temperature_2m,relative_humidity_2m,precipitation"},
		"current_weather": {"true"},
		"timezone":        {"auto"},
		"past_days":       {strconv.Itoa(pastDays)},
	}

	var resp forecastResponse
	if err := c.getJSON(ctx, apiForecast, c.forecastURL+"?"+params.Encode(), &resp); err != nil {
		return domain.WeatherReport{}, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(apiForecast, "success").Inc()

	report := domain.WeatherReport{
		TemperatureC:            firstKnown(resp.CurrentWeather.Temperature, lastKnown(resp.Hourly.Temperature)),
		HumidityPercent:         firstKnown(resp.CurrentWeather.RelativeHumidity, lastKnown(resp.Hourly.RelativeHumidity)),
		AverageHourlyRainfallMm: domain.AverageRainfall(resp.Hourly.Precipitation),
		Samples:                 len(resp.Hourly.Precipitation),
	}
	return report, nil
}

func (c *Client) getJSON(ctx context.Context, api, fullURL string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit: %w", api, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(api).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(api, "error").Inc()
		return fmt.Errorf("%s request: %w", api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(api, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("open-meteo %s API error: status %d: %s", api, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(api, "error").Inc()
		return fmt.Errorf("decode %s response: %w", api, err)
	}
	c.logger.Debug("open-meteo request complete", "api", api, "duration", time.Since(start))
	return nil
}

func firstKnown(current *float64, fallback domain.Reading) domain.Reading {
	if current != nil {
		return domain.Known(*current)
	}
	return fallback
}

// lastKnown returns the most recent non-null sample.
func lastKnown(samples []*float64) domain.Reading {
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i] != nil {
			return domain.Known(*samples[i])
		}
	}
	return domain.Unknown
}

// Open-Meteo API response types.

type geocodingResponse struct {
	Results []place `json:"results"`
}

type place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature      *float64 `json:"temperature"`
		RelativeHumidity *float64 `json:"relativehumidity"`
	} `json:"current_weather"`
	Hourly struct {
		Time             []string   `json:"time"`
		Temperature      []*float64 `json:"temperature_2m"`
		RelativeHumidity []*float64 `json:"relative_humidity_2m"`
		Precipitation    []*float64 `json:"precipitation"`
	} `json:"hourly"`
}
