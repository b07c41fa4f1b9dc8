// Package soil serves soil pH estimates from the local reference table.
package soil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/couchcryptid/crop-advisor/internal/domain"
)

// DefaultSuggestLimit caps autocomplete results.
const DefaultSuggestLimit = 10

// minQueryLen is the shortest query that produces suggestions.
const minQueryLen = 2

// Store is an in-memory, read-only soil pH table keyed by city.
// It implements domain.SoilProvider.
type Store struct {
	byCity map[string]domain.SoilSample
	cities []string
}

// LoadFile reads the reference table from a JSON file.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open soil data: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a reference table of the form
//
//	{"soil_data": [{"city": "Pune", "state": "Maharashtra",
//	  "pH_estimate": 7.2, "pH_range": [6.8, 7.6], "confidence": "medium"}]}
//
// The first entry wins when a city appears more than once.
func Load(r io.Reader) (*Store, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode soil data: %w", err)
	}

	s := &Store{byCity: make(map[string]domain.SoilSample, len(doc.SoilData))}
	for i, rec := range doc.SoilData {
		city := strings.TrimSpace(rec.City)
		if city == "" {
			return nil, fmt.Errorf("soil record %d: city is required", i)
		}
		sample, err := rec.sample(city)
		if err != nil {
			return nil, fmt.Errorf("soil record %d (%s): %w", i, city, err)
		}
		key := strings.ToLower(city)
		if _, dup := s.byCity[key]; dup {
			continue
		}
		s.byCity[key] = sample
		s.cities = append(s.cities, city)
	}
	slices.Sort(s.cities)
	return s, nil
}

// Lookup returns the sample for city, matched case-insensitively.
func (s *Store) Lookup(_ context.Context, city string) (domain.SoilSample, bool, error) {
	sample, ok := s.byCity[strings.ToLower(strings.TrimSpace(city))]
	return sample, ok, nil
}

// Cities returns the sorted, de-duplicated city names.
func (s *Store) Cities() []string {
	return slices.Clone(s.cities)
}

// Len returns the number of cities in the table.
func (s *Store) Len() int {
	return len(s.cities)
}

// Suggest returns up to limit city names containing query, ignoring case.
// Queries shorter than two characters return nothing.
func (s *Store) Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < minQueryLen {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	var out []string
	for _, city := range s.cities {
		if strings.Contains(strings.ToLower(city), q) {
			out = append(out, city)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

type document struct {
	SoilData []record `json:"soil_data"`
}

type record struct {
	City       string    `json:"city"`
	State      string    `json:"state"`
	PHEstimate *float64  `json:"pH_estimate"`
	PHRange    []float64 `json:"pH_range"`
	Confidence string    `json:"confidence"`
}

func (r record) sample(city string) (domain.SoilSample, error) {
	if r.PHEstimate == nil {
		return domain.SoilSample{}, errors.New("pH_estimate is required")
	}
	ph := *r.PHEstimate
	if ph < 0 || ph > domain.PHScaleMax {
		return domain.SoilSample{}, fmt.Errorf("pH_estimate %g outside 0-14", ph)
	}

	rng := domain.Range{Min: ph, Max: ph}
	switch len(r.PHRange) {
	case 0:
	case 2:
		rng = domain.Range{Min: r.PHRange[0], Max: r.PHRange[1]}
		if rng.Min > rng.Max {
			return domain.SoilSample{}, fmt.Errorf("pH_range min %g exceeds max %g", rng.Min, rng.Max)
		}
	default:
		return domain.SoilSample{}, fmt.Errorf("pH_range must have 2 values, got %d", len(r.PHRange))
	}

	return domain.SoilSample{
		City:       city,
		State:      r.State,
		PH:         ph,
		Range:      rng,
		Confidence: r.Confidence,
	}, nil
}
