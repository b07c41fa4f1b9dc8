package domain

import (
	"fmt"
	"strings"
)

// Requirement kinds.
const (
	RequirementTemperature = "temperature"
	RequirementHumidity    = "humidity"
	RequirementRainfall    = "rainfall"
	RequirementPH          = "ph"
)

// CheckStatus reports whether an observed reading satisfies a requirement.
type CheckStatus string

const (
	StatusMet     CheckStatus = "met"
	StatusUnmet   CheckStatus = "unmet"
	StatusUnknown CheckStatus = "unknown"
)

// Suitability summaries, from best to worst.
const (
	SuitabilityExcellent = "Excellent match for this region!"
	SuitabilityGood      = "Good match with minor adjustments needed"
	SuitabilityPossible  = "Possible with proper management"
)

// RequirementCheck compares one reading against one crop requirement.
type RequirementCheck struct {
	Kind     string      `json:"kind"`
	Observed Reading     `json:"observed"`
	Ideal    string      `json:"ideal"`
	Status   CheckStatus `json:"status"`
}

// Met reports whether the requirement is satisfied.
func (c RequirementCheck) Met() bool {
	return c.Status == StatusMet
}

// Label is the display line for the check.
func (c RequirementCheck) Label() string {
	switch c.Kind {
	case RequirementTemperature:
		return fmt.Sprintf("Temperature: %s°C (Optimal: %s°C)", c.Observed, c.Ideal)
	case RequirementHumidity:
		return fmt.Sprintf("Humidity: %s%% (Minimum: %s%%)", c.Observed, c.Ideal)
	case RequirementRainfall:
		obs := "n/a"
		if c.Observed.Known {
			obs = fmt.Sprintf("~%.1f", c.Observed.Value)
		}
		return fmt.Sprintf("Rainfall: %smm/month (Minimum: %smm/month)", obs, c.Ideal)
	case RequirementPH:
		return fmt.Sprintf("Soil pH: %s (Optimal: %s)", c.Observed, c.Ideal)
	default:
		return fmt.Sprintf("%s: %s (%s)", c.Kind, c.Observed, c.Ideal)
	}
}

// Assessment is the per-requirement satisfaction detail for one crop.
type Assessment struct {
	Checks      []RequirementCheck `json:"checks"`
	Met         int                `json:"met"`
	Total       int                `json:"total"`
	Suitability string             `json:"suitability"`
}

// Assess checks each of the crop's requirements against the observed
// conditions. The pH check is only included when the pH is known.
func Assess(p CropProfile, obs ObservedConditions) Assessment {
	monthly := obs.MonthlyRainfallMm()
	checks := []RequirementCheck{
		{
			Kind:     RequirementTemperature,
			Observed: obs.TemperatureC,
			Ideal:    p.Temperature.String(),
			Status:   status(obs.TemperatureC, p.Temperature.Contains),
		},
		{
			Kind:     RequirementHumidity,
			Observed: obs.HumidityPercent,
			Ideal:    fmt.Sprintf("%g", p.HumidityMin),
			Status:   status(obs.HumidityPercent, func(v float64) bool { return v >= p.HumidityMin }),
		},
		{
			Kind:     RequirementRainfall,
			Observed: Known(monthly),
			Ideal:    fmt.Sprintf("%g", p.MonthlyRainfallMin),
			Status:   status(Known(monthly), func(v float64) bool { return v >= p.MonthlyRainfallMin }),
		},
	}
	if obs.SoilPH.Known {
		checks = append(checks, RequirementCheck{
			Kind:     RequirementPH,
			Observed: obs.SoilPH,
			Ideal:    p.PH.String(),
			Status:   status(obs.SoilPH, p.PH.Contains),
		})
	}

	a := Assessment{Checks: checks, Total: len(checks)}
	for _, c := range checks {
		if c.Met() {
			a.Met++
		}
	}
	a.Suitability = suitability(a.Met, a.Total)
	return a
}

func status(r Reading, ok func(float64) bool) CheckStatus {
	switch {
	case !r.Known:
		return StatusUnknown
	case ok(r.Value):
		return StatusMet
	default:
		return StatusUnmet
	}
}

func suitability(met, total int) string {
	switch {
	case met == total:
		return SuitabilityExcellent
	case met >= total-1:
		return SuitabilityGood
	default:
		return SuitabilityPossible
	}
}

var cropEmoji = map[string]string{
	"rice": "🌾", "wheat": "🌾", "maize": "🌽", "corn": "🌽",
	"millet": "🌿", "barley": "🌱", "cotton": "🧶", "mustard": "🌻",
	"sugarcane": "🍃", "potato": "🥔", "tomato": "🍅", "onion": "🧅",
	"banana": "🍌", "mango": "🥭", "tea": "🍵", "coffee": "☕",
	"soybean": "🌱", "lentil": "🥣", "chickpea": "🥗",
}

// CropEmoji returns a display glyph for the crop, defaulting to a sheaf.
func CropEmoji(name string) string {
	if e, ok := cropEmoji[strings.ToLower(name)]; ok {
		return e
	}
	return "🌾"
}
