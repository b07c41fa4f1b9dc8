package domain

import "time"

// CropReport is one recommended crop with its display detail.
type CropReport struct {
	Name        string     `json:"name"`
	Emoji       string     `json:"emoji"`
	Penalty     float64    `json:"penalty"`
	Description string     `json:"description"`
	Assessment  Assessment `json:"assessment"`
}

// Report is everything the presentation layer needs for one search.
type Report struct {
	City              string             `json:"city"`
	Location          GeocodingResult    `json:"location"`
	Weather           WeatherReport      `json:"weather"`
	Soil              *SoilSample        `json:"soil"`
	MonthlyRainfallMm float64            `json:"monthly_rainfall_mm"`
	NoSoilData        bool               `json:"no_soil_data"`
	Recommended       []string           `json:"recommended"`
	Crops             []CropReport       `json:"crops"`
	PHGauge           *PHGauge           `json:"ph_gauge"`
	Rainfall          RainfallChart      `json:"rainfall"`
	Conditions        ObservedConditions `json:"conditions"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// Conditions combines a weather report and optional soil sample into the
// scorer's input.
func Conditions(w WeatherReport, soil *SoilSample) ObservedConditions {
	obs := ObservedConditions{
		TemperatureC:            w.TemperatureC,
		HumidityPercent:         w.HumidityPercent,
		AverageHourlyRainfallMm: w.AverageHourlyRainfallMm,
	}
	if soil != nil {
		obs.SoilPH = Known(soil.PH)
	}
	return obs
}

// BuildReport scores the conditions for city and assembles the report.
func BuildReport(scorer *Scorer, city string, loc GeocodingResult, w WeatherReport, soil *SoilSample) Report {
	obs := Conditions(w, soil)
	rec := scorer.Recommend(obs)

	r := Report{
		City:              city,
		Location:          loc,
		Weather:           w,
		Soil:              soil,
		MonthlyRainfallMm: obs.MonthlyRainfallMm(),
		NoSoilData:        rec.NoSoilData,
		Recommended:       rec.Names(),
		Crops:             make([]CropReport, 0, len(rec.Crops)),
		Rainfall:          NewRainfallChart(w.AverageHourlyRainfallMm),
		Conditions:        obs,
		GeneratedAt:       clock.Now().UTC(),
	}
	if soil != nil {
		g := NewPHGauge(soil.PH)
		r.PHGauge = &g
	}
	for _, c := range rec.Crops {
		r.Crops = append(r.Crops, CropReport{
			Name:        c.DisplayName(),
			Emoji:       CropEmoji(c.Name),
			Penalty:     c.Penalty,
			Description: c.Profile.Description,
			Assessment:  Assess(c.Profile, obs),
		})
	}
	return r
}
