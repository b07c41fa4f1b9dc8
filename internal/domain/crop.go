package domain

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Midpoint returns the centre of the range.
func (r Range) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// Distance returns how far v lies outside the range, or 0 when inside.
func (r Range) Distance(v float64) float64 {
	switch {
	case v < r.Min:
		return r.Min - v
	case v > r.Max:
		return v - r.Max
	default:
		return 0
	}
}

func (r Range) String() string {
	return fmt.Sprintf("%g-%g", r.Min, r.Max)
}

// CropProfile describes the conditions a crop grows best in.
type CropProfile struct {
	Name               string  `json:"name" yaml:"name"`
	Temperature        Range   `json:"temperature_c" yaml:"temperature_c"`
	HumidityMin        float64 `json:"humidity_min" yaml:"humidity_min"`
	MonthlyRainfallMin float64 `json:"monthly_rainfall_min_mm" yaml:"monthly_rainfall_min_mm"`
	PH                 Range   `json:"ph" yaml:"ph"`
	Description        string  `json:"description" yaml:"description"`
}

// Validate checks the profile's ranges and minimums.
func (p CropProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("crop name is required")
	}
	if p.Temperature.Min > p.Temperature.Max {
		return fmt.Errorf("crop %q: temperature min %g exceeds max %g", p.Name, p.Temperature.Min, p.Temperature.Max)
	}
	if p.PH.Min > p.PH.Max {
		return fmt.Errorf("crop %q: pH min %g exceeds max %g", p.Name, p.PH.Min, p.PH.Max)
	}
	if p.HumidityMin < 0 {
		return fmt.Errorf("crop %q: negative humidity minimum %g", p.Name, p.HumidityMin)
	}
	if p.MonthlyRainfallMin < 0 {
		return fmt.Errorf("crop %q: negative rainfall minimum %g", p.Name, p.MonthlyRainfallMin)
	}
	return nil
}

// Catalog is an immutable, ordered set of crop profiles. Order only serves
// as the tie-breaker when ranking.
type Catalog struct {
	profiles []CropProfile
	index    map[string]int
}

// NewCatalog validates the profiles and builds a catalog. Names must be
// unique ignoring case.
func NewCatalog(profiles ...CropProfile) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, errors.New("catalog has no crops")
	}
	c := &Catalog{
		profiles: make([]CropProfile, len(profiles)),
		index:    make(map[string]int, len(profiles)),
	}
	for i, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := normalizeName(p.Name)
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("duplicate crop %q", p.Name)
		}
		c.index[key] = i
		c.profiles[i] = p
	}
	return c, nil
}

// Profiles returns a copy of the catalog in its defined order.
func (c *Catalog) Profiles() []CropProfile {
	out := make([]CropProfile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Lookup finds a profile by name, ignoring case.
func (c *Catalog) Lookup(name string) (CropProfile, bool) {
	i, ok := c.index[normalizeName(name)]
	if !ok {
		return CropProfile{}, false
	}
	return c.profiles[i], true
}

// Len returns the number of crops.
func (c *Catalog) Len() int {
	return len(c.profiles)
}

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Crops []CropProfile `yaml:"crops"`
}

// LoadCatalogFile reads a YAML catalog of the form:
//
//	crops:
//	  - name: rice
//	    temperature_c: {min: 20, max: 35}
//	    humidity_min: 50
//	    monthly_rainfall_min_mm: 100
//	    ph: {min: 5.5, max: 7.0}
//	    description: ...
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewCatalog(f.Crops...)
}

// DefaultCatalog returns the built-in crop table. It is built once and
// shared; callers cannot mutate it.
var DefaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(defaultProfiles...)
	if err != nil {
		panic(err)
	}
	return c
})

var defaultProfiles = []CropProfile{
	{
		Name:               "rice",
		Temperature:        Range{Min: 20, Max: 35},
		HumidityMin:        50,
		MonthlyRainfallMin: 100,
		PH:                 Range{Min: 5.5, Max: 7.0},
		Description:        "Rice thrives in warm, humid climates with abundant water supply",
	},
	{
		Name:               "wheat",
		Temperature:        Range{Min: 15, Max: 25},
		HumidityMin:        40,
		MonthlyRainfallMin: 50,
		PH:                 Range{Min: 6.0, Max: 7.5},
		Description:        "Wheat grows best in cool to moderate temperatures with well-drained soil",
	},
	{
		Name:               "maize",
		Temperature:        Range{Min: 20, Max: 30},
		HumidityMin:        50,
		MonthlyRainfallMin: 60,
		PH:                 Range{Min: 5.5, Max: 7.5},
		Description:        "Maize requires warm weather and moderate rainfall during growing season",
	},
	{
		Name:               "cotton",
		Temperature:        Range{Min: 21, Max: 35},
		HumidityMin:        50,
		MonthlyRainfallMin: 50,
		PH:                 Range{Min: 6.0, Max: 8.0},
		Description:        "Cotton needs long sunny periods and warm temperatures throughout growth",
	},
	{
		Name:               "sugarcane",
		Temperature:        Range{Min: 20, Max: 35},
		HumidityMin:        70,
		MonthlyRainfallMin: 150,
		PH:                 Range{Min: 6.0, Max: 7.5},
		Description:        "Sugarcane demands high temperatures, humidity and heavy rainfall",
	},
	{
		Name:               "potato",
		Temperature:        Range{Min: 15, Max: 25},
		HumidityMin:        70,
		MonthlyRainfallMin: 50,
		PH:                 Range{Min: 5.0, Max: 6.5},
		Description:        "Potatoes prefer cool temperatures and slightly acidic, well-drained soil",
	},
	{
		Name:               "tomato",
		Temperature:        Range{Min: 18, Max: 27},
		HumidityMin:        60,
		MonthlyRainfallMin: 60,
		PH:                 Range{Min: 6.0, Max: 7.0},
		Description:        "Tomatoes need warm days, cool nights and consistent moisture levels",
	},
	{
		Name:               "soybean",
		Temperature:        Range{Min: 20, Max: 30},
		HumidityMin:        60,
		MonthlyRainfallMin: 50,
		PH:                 Range{Min: 6.0, Max: 7.0},
		Description:        "Soybeans grow well in warm climates with adequate summer rainfall",
	},
	{
		Name:               "barley",
		Temperature:        Range{Min: 12, Max: 20},
		HumidityMin:        40,
		MonthlyRainfallMin: 40,
		PH:                 Range{Min: 6.5, Max: 7.5},
		Description:        "Barley adapts to cooler climates and can tolerate drought conditions",
	},
	{
		Name:               "millet",
		Temperature:        Range{Min: 25, Max: 35},
		HumidityMin:        40,
		MonthlyRainfallMin: 30,
		PH:                 Range{Min: 5.5, Max: 7.0},
		Description:        "Millet is highly drought-resistant and thrives in hot, arid conditions",
	},
}
