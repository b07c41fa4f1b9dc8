// Command validate checks the crop catalog and the soil reference table
// before they are deployed. It verifies that every file parses, that the
// values are agronomically plausible, and that the scorer behaves
// consistently over the combined data.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -catalog configs/crops.yaml \
//	  -soil data/india_soil_ph_data.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/couchcryptid/crop-advisor/internal/adapter/soil"
	"github.com/couchcryptid/crop-advisor/internal/domain"
)

var knownConfidence = []string{"high", "medium", "low"}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	catalogPath := flag.String("catalog", "", "path to a YAML crop catalog (default: built-in catalog)")
	soilPath := flag.String("soil", "data/india_soil_ph_data.json", "path to the soil pH reference JSON")
	flag.Parse()

	if *soilPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*catalogPath, *soilPath, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(catalogPath, soilPath string, out io.Writer) int {
	fmt.Fprintln(out, "=== Crop Advisor Data Validation ===")
	fmt.Fprintln(out)

	catalog := domain.DefaultCatalog()
	if catalogPath != "" {
		var err error
		catalog, err = domain.LoadCatalogFile(catalogPath)
		if err != nil {
			fmt.Fprintf(out, "FATAL: load catalog: %v\n", err)
			return 1
		}
	}

	store, err := soil.LoadFile(soilPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load soil data: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCatalog(catalog),
		validateSoil(store),
		validateScoring(catalog, store),
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d crops, %d soil cities\n", catalog.Len(), store.Len())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: crop catalog ──

func validateCatalog(catalog *domain.Catalog) *phase {
	p := &phase{name: "Phase 1: Crop catalog plausibility"}
	for _, c := range catalog.Profiles() {
		checkCropProfile(p, c)
	}
	return p
}

func checkCropProfile(p *phase, c domain.CropProfile) {
	if c.Temperature.Min < -20 || c.Temperature.Max > 50 {
		p.errorf("%s: temperature range %s°C outside -20..50", c.Name, c.Temperature)
	}
	if c.HumidityMin > 100 {
		p.errorf("%s: humidity minimum %g%% exceeds 100", c.Name, c.HumidityMin)
	}
	if c.PH.Min < 0 || c.PH.Max > domain.PHScaleMax {
		p.errorf("%s: pH range %s outside 0..%d", c.Name, c.PH, domain.PHScaleMax)
	}
	if strings.TrimSpace(c.Description) == "" {
		p.errorf("%s: missing description", c.Name)
	}
}

// ── Phase 2: soil reference table ──

func validateSoil(store *soil.Store) *phase {
	p := &phase{name: "Phase 2: Soil reference table"}
	if store.Len() == 0 {
		p.errorf("soil table has no cities")
		return p
	}
	for _, city := range store.Cities() {
		sample, _, _ := store.Lookup(context.Background(), city)
		checkSoilSample(p, sample)
	}
	return p
}

func checkSoilSample(p *phase, s domain.SoilSample) {
	if s.State == "" {
		p.errorf("%s: missing state", s.City)
	}
	if s.Range != (domain.Range{}) && !s.Range.Contains(s.PH) {
		p.errorf("%s: pH estimate %g outside its range %s", s.City, s.PH, s.Range)
	}
	if !slices.Contains(knownConfidence, s.Confidence) {
		p.errorf("%s: unknown confidence %q (want one of %s)", s.City, s.Confidence, strings.Join(knownConfidence, ", "))
	}
}

// ── Phase 3: scoring consistency ──

// validateScoring checks that every crop scores zero under its own ideal
// conditions and that every soil city yields a full ranking.
func validateScoring(catalog *domain.Catalog, store *soil.Store) *phase {
	p := &phase{name: "Phase 3: Scoring consistency"}
	scorer := domain.NewScorer(catalog)

	for _, c := range catalog.Profiles() {
		obs := idealConditions(c)
		if penalty := domain.Penalty(c, obs); penalty != 0 {
			p.errorf("%s: penalty %g under its own ideal conditions", c.Name, penalty)
		}
		rec := scorer.Recommend(obs)
		if len(rec.Crops) == 0 || rec.Crops[0].Penalty != 0 {
			p.errorf("%s: ideal conditions produced no zero-penalty recommendation", c.Name)
		}
	}

	want := min(domain.DefaultTopN, catalog.Len())
	for _, city := range store.Cities() {
		sample, _, _ := store.Lookup(context.Background(), city)
		obs := domain.ObservedConditions{
			TemperatureC:            domain.Known(25),
			HumidityPercent:         domain.Known(60),
			AverageHourlyRainfallMm: 0.1,
			SoilPH:                  domain.Known(sample.PH),
		}
		first := scorer.Recommend(obs)
		if len(first.Crops) != want {
			p.errorf("%s: got %d recommendations, want %d", city, len(first.Crops), want)
			continue
		}
		if again := scorer.Recommend(obs); !slices.Equal(first.Names(), again.Names()) {
			p.errorf("%s: ranking not deterministic: %v vs %v", city, first.Names(), again.Names())
		}
	}
	return p
}

// idealConditions sits at the centre of every range and at the minimums.
// Rainfall gets 1mm of headroom so the hourly round trip cannot undershoot.
func idealConditions(c domain.CropProfile) domain.ObservedConditions {
	return domain.ObservedConditions{
		TemperatureC:            domain.Known(c.Temperature.Midpoint()),
		HumidityPercent:         domain.Known(c.HumidityMin),
		AverageHourlyRainfallMm: (c.MonthlyRainfallMin + 1) / domain.HoursPerMonth,
		SoilPH:                  domain.Known(c.PH.Midpoint()),
	}
}
