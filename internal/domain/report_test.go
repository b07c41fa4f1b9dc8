package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { SetClock(nil) })
}

func TestBuildReport(t *testing.T) {
	freezeClock(t)

	loc := GeocodingResult{Lat: 22.57, Lon: 88.36, PlaceName: "Kolkata", Country: "India"}
	weather := WeatherReport{TemperatureC: Known(28), HumidityPercent: Known(70), AverageHourlyRainfallMm: 0.3, Samples: 720}
	soil := &SoilSample{City: "Kolkata", PH: 6.2, Range: Range{Min: 5.8, Max: 6.6}, Confidence: "medium"}

	r := BuildReport(NewScorer(DefaultCatalog()), "Kolkata", loc, weather, soil)

	assert.Equal(t, "Kolkata", r.City)
	assert.Equal(t, testNow, r.GeneratedAt)
	assert.False(t, r.NoSoilData)
	assert.Equal(t, []string{"Rice", "Maize", "Cotton"}, r.Recommended)
	assert.InDelta(t, 216.0, r.MonthlyRainfallMm, 1e-9)

	require.Len(t, r.Crops, 3)
	assert.Equal(t, "Rice", r.Crops[0].Name)
	assert.Equal(t, "🌾", r.Crops[0].Emoji)
	assert.Equal(t, SuitabilityExcellent, r.Crops[0].Assessment.Suitability)
	assert.NotEmpty(t, r.Crops[0].Description)

	require.NotNil(t, r.PHGauge)
	assert.Equal(t, "Slightly Acidic", r.PHGauge.Category)
	assert.Equal(t, "Light", r.Rainfall.Category)
}

func TestBuildReport_NoSoil(t *testing.T) {
	freezeClock(t)

	weather := WeatherReport{TemperatureC: Known(25), HumidityPercent: Known(50), AverageHourlyRainfallMm: 0.1}
	r := BuildReport(NewScorer(DefaultCatalog()), "Nowhere", GeocodingResult{PlaceName: "Nowhere"}, weather, nil)

	assert.True(t, r.NoSoilData)
	assert.Equal(t, []string{NoSoilDataSentinel}, r.Recommended)
	assert.Empty(t, r.Crops)
	assert.Nil(t, r.PHGauge)
	assert.Nil(t, r.Soil)
	assert.False(t, r.Conditions.SoilPH.Known)
}
