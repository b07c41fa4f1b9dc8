package domain

import "context"

// WeatherReport is the current conditions at a location plus the recent
// hourly precipitation average.
type WeatherReport struct {
	TemperatureC            Reading `json:"temperature_c"`
	HumidityPercent         Reading `json:"humidity_percent"`
	AverageHourlyRainfallMm float64 `json:"average_hourly_rainfall_mm"`
	Samples                 int     `json:"samples"`
}

// WeatherProvider fetches conditions for a coordinate pair.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (WeatherReport, error)
}

// AverageRainfall is the arithmetic mean of hourly precipitation readings.
// Missing samples count as 0; an empty series averages to 0.
func AverageRainfall(samples []*float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var total float64
	for _, s := range samples {
		if s != nil {
			total += *s
		}
	}
	return total / float64(len(samples))
}
