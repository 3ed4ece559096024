package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BuildReport renders the full markdown report for one analysis run:
// regression summary, plain-language interpretation, the per-year table
// with fitted values and residuals, and the leading organizations.
// Proportions become percentages here and nowhere else.
func BuildReport(res AnalysisResult) string {
	var out strings.Builder
	reg := res.Regression

	fmt.Fprintf(&out, "# Government Appointment Reappointment Trend (%d-%d)\n\n",
		res.Config.StartYear, res.Config.EndYear)
	fmt.Fprintf(&out, "Run: %s\n\n", res.RunAt.Format("2006-01-02 15:04"))
	if len(res.SourceFiles) > 0 {
		fmt.Fprintf(&out, "Source files: %s\n\n", strings.Join(res.SourceFiles, ", "))
	}
	fmt.Fprintf(&out, "Records analyzed: %d", res.RecordCount)
	if res.DroppedNoYear > 0 {
		fmt.Fprintf(&out, " (%d dropped: no resolvable year)", res.DroppedNoYear)
	}
	if res.BadFlagRows > 0 {
		fmt.Fprintf(&out, " (%d rows with unrecognized reappointed flag, treated as not reappointed)", res.BadFlagRows)
	}
	out.WriteString("\n\n")

	out.WriteString("## Trend regression\n\n")
	fmt.Fprintf(&out, "- Classification: **%s**\n", reg.Classification)
	fmt.Fprintf(&out, "- Slope: %+.4f pp/year (%.0f%% CI %+.4f to %+.4f)\n",
		reg.Slope*100, reg.Confidence*100, reg.CILower*100, reg.CIUpper*100)
	fmt.Fprintf(&out, "- R²: %.4f\n", reg.RSquared)
	fmt.Fprintf(&out, "- p-value: %.6g (threshold %g)\n", reg.PValue, res.Config.SignificanceThreshold)
	fmt.Fprintf(&out, "- Standard error of slope: %.6g\n", reg.StdErr)
	fmt.Fprintf(&out, "- Observations: %d\n\n", reg.N)

	out.WriteString(InterpretTrend(reg, res.Config))
	out.WriteString("\n\n")

	out.WriteString("## Annual reappointment rates\n\n")
	out.WriteString("| Year | Appointments | Reappointments | Rate | Fitted | Residual |\n")
	out.WriteString("|------|--------------|----------------|------|--------|----------|\n")
	for _, o := range res.Observations {
		fitted := reg.Predict(o.Year)
		fmt.Fprintf(&out, "| %d | %d | %d | %.2f%% | %.2f%% | %+.2f pp |\n",
			o.Year, o.TotalCount, o.ReappointmentCount,
			o.Proportion*100, fitted*100, (o.Proportion-fitted)*100)
	}
	out.WriteString("\n")

	if len(res.TopOrgs) > 0 {
		out.WriteString("## Organizations reappointing most often\n\n")
		out.WriteString("| Organization | Appointments | Reappointments | Rate |\n")
		out.WriteString("|--------------|--------------|----------------|------|\n")
		for _, org := range res.TopOrgs {
			name := org.Organization
			if name == "" {
				name = "(unspecified)"
			}
			fmt.Fprintf(&out, "| %s | %d | %d | %.2f%% |\n",
				name, org.TotalCount, org.ReappointmentCount, org.Rate*100)
		}
		out.WriteString("\n")
	}

	return out.String()
}

// InterpretTrend turns a regression result into the plain-language
// sentence the report and the Slack summary lead with.
func InterpretTrend(reg RegressionResult, cfg AnalysisConfig) string {
	span := cfg.EndYear - cfg.StartYear
	switch reg.Classification {
	case TrendIncreasing:
		return fmt.Sprintf(
			"The government-wide reappointment rate shows a statistically significant increasing trend of %+.2f percentage points per year (p = %.6g). Over %d-%d the fitted rate rises from %.1f%% to %.1f%%, a change of %+.1f percentage points.",
			reg.Slope*100, reg.PValue, cfg.StartYear, cfg.EndYear,
			reg.Predict(cfg.StartYear)*100, reg.Predict(cfg.EndYear)*100,
			reg.Slope*float64(span)*100)
	case TrendDecreasing:
		return fmt.Sprintf(
			"The government-wide reappointment rate shows a statistically significant decreasing trend of %+.2f percentage points per year (p = %.6g). Over %d-%d the fitted rate falls from %.1f%% to %.1f%%.",
			reg.Slope*100, reg.PValue, cfg.StartYear, cfg.EndYear,
			reg.Predict(cfg.StartYear)*100, reg.Predict(cfg.EndYear)*100)
	default:
		return fmt.Sprintf(
			"The government-wide reappointment rate shows no statistically significant trend over %d-%d (slope %+.2f pp/year, p = %.6g, threshold %g).",
			cfg.StartYear, cfg.EndYear, reg.Slope*100, reg.PValue, cfg.SignificanceThreshold)
	}
}

// FormatRunSummary is the short form posted to Slack after a run.
func FormatRunSummary(res AnalysisResult) string {
	reg := res.Regression
	var top string
	if len(res.TopOrgs) > 0 {
		lead := res.TopOrgs[0]
		name := lead.Organization
		if name == "" {
			name = "(unspecified)"
		}
		top = fmt.Sprintf(" Most reappointments: %s (%d of %d).", name, lead.ReappointmentCount, lead.TotalCount)
	}
	return fmt.Sprintf("Reappointment trend %d-%d: *%s* (slope %+.2f pp/year, p = %.4g, R² = %.3f, n = %d).%s",
		res.Config.StartYear, res.Config.EndYear, reg.Classification,
		reg.Slope*100, reg.PValue, reg.RSquared, reg.N, top)
}

func WriteReportFile(content, outputDir string, runDate time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("reappointment_trend_%s.md", runDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}
