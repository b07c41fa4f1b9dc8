package advisor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/couchcryptid/crop-advisor/internal/domain"
)

// textStyles holds the styles used in the text report. The zero value
// renders plain text.
type textStyles struct {
	header lipgloss.Style
	met    lipgloss.Style
	unmet  lipgloss.Style
	dim    lipgloss.Style
}

func newTextStyles(colorize bool) textStyles {
	if !colorize {
		return textStyles{}
	}
	return textStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		met:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		unmet:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// RenderText writes a human-readable report. With colorize set, headings
// and requirement marks are styled for a terminal.
func RenderText(w io.Writer, report domain.Report, colorize bool) error {
	styles := newTextStyles(colorize)
	var b strings.Builder

	title := report.City
	if place := report.Location.PlaceName; place != "" && !strings.EqualFold(place, report.City) {
		title = fmt.Sprintf("%s (%s)", report.City, place)
	}
	fmt.Fprintln(&b, styles.header.Render("Crop recommendations for "+title))
	if !report.Location.Empty() {
		fmt.Fprintln(&b, styles.dim.Render(fmt.Sprintf("%.4f, %.4f", report.Location.Lat, report.Location.Lon)))
	}
	b.WriteString("\n")

	writeConditions(&b, report, styles)
	b.WriteString("\n")

	if report.NoSoilData {
		fmt.Fprintln(&b, styles.unmet.Render(domain.NoSoilDataSentinel))
		_, err := io.WriteString(w, b.String())
		return err
	}

	for i, c := range report.Crops {
		fmt.Fprintf(&b, "%d. %s %s  %s\n", i+1, c.Emoji, styles.header.Render(c.Name), styles.dim.Render(fmt.Sprintf("penalty %.3f", c.Penalty)))
		if c.Description != "" {
			fmt.Fprintf(&b, "   %s\n", c.Description)
		}
		for _, check := range c.Assessment.Checks {
			fmt.Fprintf(&b, "   %s %s\n", checkMark(check.Status, styles), check.Label())
		}
		fmt.Fprintf(&b, "   %s (%d/%d)\n", c.Assessment.Suitability, c.Assessment.Met, c.Assessment.Total)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeConditions(b *strings.Builder, report domain.Report, styles textStyles) {
	obs := report.Conditions
	fmt.Fprintf(b, "Temperature: %s°C\n", obs.TemperatureC)
	fmt.Fprintf(b, "Humidity:    %s%%\n", obs.HumidityPercent)
	fmt.Fprintf(b, "Rainfall:    %.2f mm/h avg, ~%.1f mm/month (%s)\n",
		obs.AverageHourlyRainfallMm, report.MonthlyRainfallMm, report.Rainfall.Category)
	if report.Soil != nil {
		soil := fmt.Sprintf("Soil pH:     %g (%s)", report.Soil.PH, domain.PHCategory(report.Soil.PH))
		if report.Soil.State != "" {
			soil += styles.dim.Render(fmt.Sprintf("  %s, %s", report.Soil.City, report.Soil.State))
		}
		fmt.Fprintln(b, soil)
	} else {
		fmt.Fprintln(b, "Soil pH:     n/a")
	}
}

func checkMark(s domain.CheckStatus, styles textStyles) string {
	switch s {
	case domain.StatusMet:
		return styles.met.Render("✓")
	case domain.StatusUnmet:
		return styles.unmet.Render("✗")
	default:
		return styles.dim.Render("?")
	}
}
