package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// HoursPerMonth converts an hourly precipitation average to a monthly
// estimate (24 hours × 30 days).
const HoursPerMonth = 24 * 30

// Reading is a measurement that may be absent. It encodes to JSON as a
// number, or null when unknown.
type Reading struct {
	Value float64
	Known bool
}

// Unknown is the absent reading.
var Unknown = Reading{}

// Known wraps a measured value.
func Known(v float64) Reading {
	return Reading{Value: v, Known: true}
}

// MarshalJSON implements json.Marshaler.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Known || math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Reading) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Unknown
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("reading: %w", err)
	}
	*r = Known(v)
	return nil
}

func (r Reading) String() string {
	if !r.Known {
		return "n/a"
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// ObservedConditions are the readings for one search.
type ObservedConditions struct {
	TemperatureC            Reading `json:"temperature_c"`
	HumidityPercent         Reading `json:"humidity_percent"`
	AverageHourlyRainfallMm float64 `json:"average_hourly_rainfall_mm"`
	SoilPH                  Reading `json:"soil_ph"`
}

// MonthlyRainfallMm estimates monthly rainfall from the hourly average.
func (o ObservedConditions) MonthlyRainfallMm() float64 {
	return o.AverageHourlyRainfallMm * HoursPerMonth
}
