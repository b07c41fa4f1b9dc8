package domain

// PHScaleMax is the top of the pH scale.
const PHScaleMax = 14

// PHGauge is the data behind the semicircular soil pH gauge.
type PHGauge struct {
	Value     float64   `json:"value"`
	Remainder float64   `json:"remainder"`
	Color     string    `json:"color"`
	Category  string    `json:"category"`
	Markers   []float64 `json:"markers"`
}

// NewPHGauge builds gauge data for a pH value.
func NewPHGauge(ph float64) PHGauge {
	markers := make([]float64, 0, PHScaleMax/2+1)
	for i := 0; i <= PHScaleMax; i += 2 {
		markers = append(markers, float64(i))
	}
	return PHGauge{
		Value:     ph,
		Remainder: PHScaleMax - ph,
		Color:     PHColor(ph),
		Category:  PHCategory(ph),
		Markers:   markers,
	}
}

// PHCategory names the acidity band of a pH value.
func PHCategory(ph float64) string {
	switch {
	case ph < 4.5:
		return "Highly Acidic"
	case ph < 6.0:
		return "Acidic"
	case ph < 6.8:
		return "Slightly Acidic"
	case ph <= 7.2:
		return "Neutral"
	case ph <= 8.0:
		return "Slightly Alkaline"
	default:
		return "Alkaline"
	}
}

// PHColor is the gauge colour for a pH value.
func PHColor(ph float64) string {
	switch {
	case ph < 4.5:
		return "#e74c3c"
	case ph < 6.0:
		return "#e67e22"
	case ph < 6.8:
		return "#f39c12"
	case ph <= 7.2:
		return "#2ecc71"
	case ph <= 8.0:
		return "#3498db"
	default:
		return "#9b59b6"
	}
}

// RainfallBar is one category of the rainfall intensity chart.
type RainfallBar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// RainfallChart is the data behind the rainfall intensity bar chart.
// Only the bar matching the observed intensity carries a value.
type RainfallChart struct {
	AverageHourlyMm float64       `json:"average_hourly_mm"`
	Category        string        `json:"category"`
	Bars            []RainfallBar `json:"bars"`
}

// noRainBarHeight keeps the "No Rain" bar visible when nothing fell.
const noRainBarHeight = 0.5

// NewRainfallChart builds bar chart data for an hourly rainfall average.
func NewRainfallChart(avgHourly float64) RainfallChart {
	bars := []RainfallBar{
		{Label: "No Rain (0mm)", Color: "#b0bec5"},
		{Label: "Light (0-2.5mm)", Color: "#81c784"},
		{Label: "Moderate (2.5-10mm)", Color: "#4caf50"},
		{Label: "Heavy (10-50mm)", Color: "#2e7d32"},
		{Label: "Very Heavy (50+mm)", Color: "#1b5e20"},
	}

	i := rainfallCategoryIndex(avgHourly)
	if i >= 0 {
		bars[i].Value = avgHourly
		if i == 0 {
			bars[i].Value = noRainBarHeight
		}
	}

	category := "Unknown"
	if i >= 0 {
		category = rainfallCategories[i]
	}
	return RainfallChart{AverageHourlyMm: avgHourly, Category: category, Bars: bars}
}

var rainfallCategories = []string{"No Rain", "Light", "Moderate", "Heavy", "Very Heavy"}

// rainfallCategoryIndex returns -1 for negative or NaN input.
func rainfallCategoryIndex(v float64) int {
	switch {
	case v == 0:
		return 0
	case v > 0 && v <= 2.5:
		return 1
	case v > 2.5 && v <= 10:
		return 2
	case v > 10 && v <= 50:
		return 3
	case v > 50:
		return 4
	default:
		return -1
	}
}
