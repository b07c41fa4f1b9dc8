package domain

import "context"

// SoilSample is the reference soil pH estimate for a city.
type SoilSample struct {
	City       string  `json:"city"`
	State      string  `json:"state,omitempty"`
	PH         float64 `json:"ph"`
	Range      Range   `json:"range"`
	Confidence string  `json:"confidence"`
}

// SoilProvider looks up soil pH by city name.
type SoilProvider interface {
	// Lookup matches city case-insensitively. found is false when the city
	// is not in the reference table.
	Lookup(ctx context.Context, city string) (sample SoilSample, found bool, err error)
}
