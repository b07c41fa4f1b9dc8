// Command recommend scores crops from the terminal, either from readings
// given as flags or from a live lookup of a city.
//
// Usage:
//
//	recommend --temp 28 --humidity 70 --rain 0.3 --ph 6.2
//	recommend --city Kolkata --soil data/india_soil_ph_data.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/crop-advisor/internal/adapter/openmeteo"
	"github.com/couchcryptid/crop-advisor/internal/adapter/soil"
	"github.com/couchcryptid/crop-advisor/internal/advisor"
	"github.com/couchcryptid/crop-advisor/internal/domain"
	"github.com/couchcryptid/crop-advisor/internal/observability"
	"github.com/spf13/cobra"
)

type options struct {
	city        string
	soilPath    string
	temperature float64
	humidity    float64
	rain        float64
	ph          float64
	catalogPath string
	top         int
	all         bool
	jsonOut     bool
	noColor     bool
	timeout     time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend crops for a set of growing conditions",
		Long: `recommend ranks the crop catalog against temperature, humidity,
rainfall and soil pH. Give the readings as flags to score offline, or pass
--city to geocode the city, fetch its current weather from Open-Meteo and
look up its soil pH in the reference table.

Without a soil pH no ranking is possible and "No soil data available" is
printed instead.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.city, "city", "", "Look up live conditions for this city")
	f.StringVar(&opts.soilPath, "soil", "data/india_soil_ph_data.json", "Soil pH reference table (with --city)")
	f.Float64Var(&opts.temperature, "temp", 0, "Air temperature in °C")
	f.Float64Var(&opts.humidity, "humidity", 0, "Relative humidity in %")
	f.Float64Var(&opts.rain, "rain", 0, "Average hourly rainfall in mm")
	f.Float64Var(&opts.ph, "ph", 0, "Soil pH")
	f.StringVar(&opts.catalogPath, "catalog", "", "YAML crop catalog (default: built-in)")
	f.IntVarP(&opts.top, "top", "n", domain.DefaultTopN, "Number of crops to recommend")
	f.BoolVar(&opts.all, "all", false, "Also print the full ranking")
	f.BoolVar(&opts.jsonOut, "json", false, "Print the report as JSON")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.DurationVar(&opts.timeout, "timeout", 15*time.Second, "Overall timeout for a --city lookup")

	cmd.MarkFlagsMutuallyExclusive("city", "temp")
	cmd.MarkFlagsMutuallyExclusive("city", "humidity")
	cmd.MarkFlagsMutuallyExclusive("city", "ph")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	if opts.top < 1 {
		return fmt.Errorf("--top must be at least 1, got %d", opts.top)
	}

	catalog := domain.DefaultCatalog()
	if opts.catalogPath != "" {
		var err error
		catalog, err = domain.LoadCatalogFile(opts.catalogPath)
		if err != nil {
			return err
		}
	}
	scorer := domain.NewScorer(catalog, domain.WithTopN(opts.top))

	var (
		report domain.Report
		err    error
	)
	if opts.city != "" {
		report, err = searchCity(cmd.Context(), scorer, opts)
	} else {
		report = scoreFlags(cmd, scorer, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if err := advisor.RenderText(out, report, !opts.noColor); err != nil {
		return err
	}
	if opts.all {
		return printRanking(out, scorer, report.Conditions)
	}
	return nil
}

// scoreFlags builds a report from the readings given on the command line.
// Readings whose flags were not set are unknown.
func scoreFlags(cmd *cobra.Command, scorer *domain.Scorer, opts *options) domain.Report {
	f := cmd.Flags()
	w := domain.WeatherReport{AverageHourlyRainfallMm: opts.rain}
	if f.Changed("temp") {
		w.TemperatureC = domain.Known(opts.temperature)
	}
	if f.Changed("humidity") {
		w.HumidityPercent = domain.Known(opts.humidity)
	}

	var sample *domain.SoilSample
	if f.Changed("ph") {
		sample = &domain.SoilSample{City: "manual", PH: opts.ph, Range: domain.Range{Min: opts.ph, Max: opts.ph}}
	}
	return domain.BuildReport(scorer, "custom conditions", domain.GeocodingResult{}, w, sample)
}

func searchCity(ctx context.Context, scorer *domain.Scorer, opts *options) (domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	store, err := soil.LoadFile(opts.soilPath)
	if err != nil {
		return domain.Report{}, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()
	client := openmeteo.NewClient(openmeteo.Options{}, metrics, logger)
	svc := advisor.New(client, client, store, scorer, logger, metrics)

	report, err := svc.Search(ctx, opts.city)
	if errors.Is(err, advisor.ErrCityNotFound) {
		if hints := svc.Suggest(opts.city, 5); len(hints) > 0 {
			return domain.Report{}, fmt.Errorf("%w (did you mean: %v?)", err, hints)
		}
	}
	return report, err
}

func printRanking(w io.Writer, scorer *domain.Scorer, obs domain.ObservedConditions) error {
	if _, err := fmt.Fprintln(w, "\nFull ranking:"); err != nil {
		return err
	}
	for i, c := range scorer.Rank(obs) {
		if _, err := fmt.Fprintf(w, "%3d. %-12s %8.4f\n", i+1, c.DisplayName(), c.Penalty); err != nil {
			return err
		}
	}
	return nil
}
