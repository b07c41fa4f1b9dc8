package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	PlaceName string  `json:"place_name"`
	Admin1    string  `json:"admin1,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// Empty reports whether the provider found nothing.
func (g GeocodingResult) Empty() bool {
	return g.PlaceName == "" && g.Lat == 0 && g.Lon == 0
}

// Geocoder resolves free-text place names to coordinates.
type Geocoder interface {
	// ForwardGeocode returns the best match for name, or an empty result
	// when nothing matched.
	ForwardGeocode(ctx context.Context, name string) (GeocodingResult, error)
}
