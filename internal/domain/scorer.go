package domain

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoSoilDataSentinel replaces the crop list when soil pH is unknown.
const NoSoilDataSentinel = "No soil data available"

// DefaultTopN is how many crops a recommendation carries.
const DefaultTopN = 3

// ScoredCrop pairs a crop with its penalty for one set of conditions.
type ScoredCrop struct {
	Name    string      `json:"name"`
	Penalty float64     `json:"penalty"`
	Profile CropProfile `json:"-"`
}

// DisplayName returns the crop name with its first letter upper-cased.
func (s ScoredCrop) DisplayName() string {
	return Capitalize(s.Name)
}

// Recommendation is the outcome of scoring one set of conditions.
type Recommendation struct {
	Crops      []ScoredCrop `json:"crops"`
	NoSoilData bool         `json:"no_soil_data"`
}

// Names returns the display names of the recommended crops, or a single
// NoSoilDataSentinel entry when no ranking was possible.
func (r Recommendation) Names() []string {
	if r.NoSoilData {
		return []string{NoSoilDataSentinel}
	}
	names := make([]string, len(r.Crops))
	for i, c := range r.Crops {
		names[i] = c.DisplayName()
	}
	return names
}

// Scorer ranks the crops of a catalog against observed conditions.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	catalog *Catalog
	topN    int
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithTopN sets how many crops Recommend returns. Values below 1 are ignored.
func WithTopN(n int) ScorerOption {
	return func(s *Scorer) {
		if n > 0 {
			s.topN = n
		}
	}
}

// NewScorer creates a Scorer over catalog.
func NewScorer(catalog *Catalog, opts ...ScorerOption) *Scorer {
	s := &Scorer{catalog: catalog, topN: DefaultTopN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the scorer ranks.
func (s *Scorer) Catalog() *Catalog {
	return s.catalog
}

// Recommend returns the best-matching crops, lowest penalty first. When the
// soil pH is unknown no crops are ranked and NoSoilData is set.
func (s *Scorer) Recommend(obs ObservedConditions) Recommendation {
	if !obs.SoilPH.Known {
		return Recommendation{NoSoilData: true}
	}
	ranked := s.Rank(obs)
	n := min(s.topN, len(ranked))
	return Recommendation{Crops: ranked[:n]}
}

// Rank scores every crop in the catalog and returns them in ascending
// penalty order. Ties keep catalog order. Unlike Recommend, Rank scores
// without a pH term when the pH is unknown.
func (s *Scorer) Rank(obs ObservedConditions) []ScoredCrop {
	scored := make([]ScoredCrop, 0, s.catalog.Len())
	for _, p := range s.catalog.profiles {
		scored = append(scored, ScoredCrop{Name: p.Name, Penalty: Penalty(p, obs), Profile: p})
	}
	slices.SortStableFunc(scored, func(a, b ScoredCrop) int {
		switch {
		case a.Penalty < b.Penalty:
			return -1
		case a.Penalty > b.Penalty:
			return 1
		default:
			return 0
		}
	})
	return scored
}

// Penalty sums the temperature, humidity, rainfall and pH terms for one
// crop. Unknown readings contribute nothing.
func Penalty(p CropProfile, obs ObservedConditions) float64 {
	var penalty float64
	if obs.TemperatureC.Known {
		penalty += rangePenalty(p.Temperature, obs.TemperatureC.Value)
	}
	if obs.HumidityPercent.Known {
		penalty += deficitPenalty(p.HumidityMin, obs.HumidityPercent.Value)
	}
	penalty += deficitPenalty(p.MonthlyRainfallMin, obs.MonthlyRainfallMm())
	if obs.SoilPH.Known {
		penalty += rangePenalty(p.PH, obs.SoilPH.Value)
	}
	return penalty
}

// rangePenalty is the distance outside r relative to its midpoint. A range
// centred on zero has no scale, so the raw distance is used instead.
func rangePenalty(r Range, v float64) float64 {
	d := r.Distance(v)
	if d == 0 {
		return 0
	}
	mid := math.Abs(r.Midpoint())
	if mid == 0 {
		return d
	}
	return d / mid
}

// deficitPenalty is the shortfall below minimum relative to minimum. It
// serves humidity and monthly rainfall; a zero minimum is always met.
func deficitPenalty(minimum, v float64) float64 {
	if v >= minimum || minimum <= 0 {
		return 0
	}
	return (minimum - v) / minimum
}

// Recommend scores raw readings against the default catalog, treating a
// soil pH of 0 or NaN as missing. The result is either up to three crop
// names or the single NoSoilDataSentinel entry.
func Recommend(temperatureC, humidityPercent, averageHourlyRainfallMm, soilPH float64) []string {
	ph := Unknown
	if soilPH != 0 && !math.IsNaN(soilPH) {
		ph = Known(soilPH)
	}
	obs := ObservedConditions{
		TemperatureC:            knownUnlessNaN(temperatureC),
		HumidityPercent:         knownUnlessNaN(humidityPercent),
		AverageHourlyRainfallMm: averageHourlyRainfallMm,
		SoilPH:                  ph,
	}
	return NewScorer(DefaultCatalog()).Recommend(obs).Names()
}

func knownUnlessNaN(v float64) Reading {
	if math.IsNaN(v) {
		return Unknown
	}
	return Known(v)
}

// Capitalize upper-cases the first letter of name.
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// normalizeName is the catalog key form of a crop name.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
