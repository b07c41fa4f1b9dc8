// Package advisor runs a city search end to end: geocode the city, fetch
// weather and soil data concurrently, score the crop catalog, and publish
// the resulting report.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/crop-advisor/internal/domain"
	"github.com/couchcryptid/crop-advisor/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Search errors callers are expected to branch on.
var (
	ErrEmptyCity    = errors.New("city name is required")
	ErrCityNotFound = errors.New("city not found")
)

// Search outcomes recorded in metrics.
const (
	outcomeSuccess  = "success"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// SoilTable is the soil reference data the service searches and suggests from.
type SoilTable interface {
	domain.SoilProvider
	Suggest(query string, limit int) []string
	Len() int
}

// Publisher receives every successful search report.
type Publisher interface {
	Publish(ctx context.Context, report domain.Report) error
}

// Service orchestrates searches. It is safe for concurrent use.
type Service struct {
	geocoder  domain.Geocoder
	weather   domain.WeatherProvider
	soil      SoilTable
	scorer    *domain.Scorer
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sends each report to p after a successful search.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// New creates a Service with the given collaborators and observability.
func New(geocoder domain.Geocoder, weather domain.WeatherProvider, soil SoilTable, scorer *domain.Scorer, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		geocoder: geocoder,
		weather:  weather,
		soil:     soil,
		scorer:   scorer,
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.SoilCitiesLoaded.Set(float64(soil.Len()))
	return s
}

// Scorer returns the scorer used for searches.
func (s *Service) Scorer() *domain.Scorer {
	return s.scorer
}

// CheckReadiness returns nil once the soil reference table holds data.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.soil.Len() == 0 {
		return errors.New("soil reference table is empty")
	}
	return nil
}

// Suggest returns city names for autocomplete.
func (s *Service) Suggest(query string, limit int) []string {
	return s.soil.Suggest(query, limit)
}

// Search geocodes city, gathers its weather and soil data, and scores the
// crop catalog. Weather and soil failures degrade to missing readings; only
// an empty name, an unknown city, a geocoder failure or cancellation fail
// the search.
func (s *Service) Search(ctx context.Context, city string) (domain.Report, error) {
	start := time.Now()
	city = strings.TrimSpace(city)
	if city == "" {
		s.metrics.Searches.WithLabelValues(outcomeInvalid).Inc()
		return domain.Report{}, ErrEmptyCity
	}

	loc, err := s.geocoder.ForwardGeocode(ctx, city)
	if err != nil {
		s.metrics.Searches.WithLabelValues(outcomeError).Inc()
		return domain.Report{}, fmt.Errorf("geocode %q: %w", city, err)
	}
	if loc.Empty() {
		s.metrics.Searches.WithLabelValues(outcomeNotFound).Inc()
		return domain.Report{}, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}

	weather, soil, err := s.gather(ctx, city, loc)
	if err != nil {
		s.metrics.Searches.WithLabelValues(outcomeError).Inc()
		return domain.Report{}, err
	}

	report := domain.BuildReport(s.scorer, city, loc, weather, soil)
	s.record(report)
	s.publish(ctx, report)

	s.metrics.Searches.WithLabelValues(outcomeSuccess).Inc()
	s.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("search complete",
		"city", city,
		"lat", loc.Lat,
		"lon", loc.Lon,
		"recommended", report.Recommended,
		"duration", time.Since(start),
	)
	return report, nil
}

// gather fetches weather and soil data concurrently.
func (s *Service) gather(ctx context.Context, city string, loc domain.GeocodingResult) (domain.WeatherReport, *domain.SoilSample, error) {
	var (
		weather domain.WeatherReport
		soil    *domain.SoilSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.weather.CurrentWeather(gctx, loc.Lat, loc.Lon)
		if err != nil {
			s.logger.Warn("weather fetch failed, scoring without current conditions",
				"city", city,
				"lat", loc.Lat,
				"lon", loc.Lon,
				"error", err,
			)
			return nil
		}
		weather = w
		return nil
	})
	g.Go(func() error {
		sample, found, err := s.soil.Lookup(gctx, city)
		if err != nil {
			s.logger.Warn("soil lookup failed", "city", city, "error", err)
			return nil
		}
		if found {
			soil = &sample
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.WeatherReport{}, nil, err
	}
	if err := ctx.Err(); err != nil {
		return domain.WeatherReport{}, nil, fmt.Errorf("search %q: %w", city, err)
	}
	return weather, soil, nil
}

func (s *Service) record(report domain.Report) {
	if report.NoSoilData {
		s.metrics.NoSoilData.Inc()
		return
	}
	for _, c := range report.Crops {
		s.metrics.Recommendations.WithLabelValues(strings.ToLower(c.Name)).Inc()
	}
}

// publish is best-effort; a broker outage never fails a search.
func (s *Service) publish(ctx context.Context, report domain.Report) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, report); err != nil {
		s.metrics.ReportsPublished.WithLabelValues(outcomeError).Inc()
		s.logger.Error("publish report failed", "city", report.City, "error", err)
		return
	}
	s.metrics.ReportsPublished.WithLabelValues(outcomeSuccess).Inc()
}
