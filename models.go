package main

import "time"

// AppointmentRecord is one appointment instance as loaded from the yearly
// CSV files. Year is always resolved; rows with no resolvable year never
// make it past ingestion (they are dropped and counted instead).
type AppointmentRecord struct {
	Year         int
	Organization string // display form, whitespace-normalized
	OrgKey       string // casefolded grouping key
	Appointee    string
	Position     string
	Reappointed  bool
	SourceFile   string // e.g. "appointments_2019.csv"
}

// AnnualObservation is the per-year aggregate the trend regression runs on.
// Proportion is reappointments over total, fraction-scaled in [0, 1];
// a year with no appointments carries proportion 0, not a gap.
type AnnualObservation struct {
	Year               int
	TotalCount         int
	ReappointmentCount int
	Proportion         float64
}

// OrgYearCount is the per-(organization, year) breakdown consumed by the
// leading-organization report.
type OrgYearCount struct {
	Organization       string
	Year               int
	TotalCount         int
	ReappointmentCount int
}

// OrgReappointments is one organization's totals across the analysis range.
type OrgReappointments struct {
	Organization       string
	TotalCount         int
	ReappointmentCount int
	Rate               float64
}

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendNone       Trend = "no-significant-trend"
)

// RegressionResult holds the fitted line proportion = Slope*year + Intercept
// and its diagnostics. All values are fraction-scaled; percent conversion
// happens only at the reporting boundary.
type RegressionResult struct {
	N          int
	Slope      float64
	Intercept  float64
	RSquared   float64
	StdErr     float64 // standard error of the slope estimate
	TStat      float64
	PValue     float64
	CILower    float64
	CIUpper    float64
	Confidence float64 // confidence level the CI was computed at

	Classification Trend
}

// Predict returns the fitted proportion for a year.
func (r RegressionResult) Predict(year int) float64 {
	return r.Slope*float64(year) + r.Intercept
}

// AnalysisConfig is the configuration surface of the aggregation and
// regression core. Library callers that skip LoadConfig should start from
// DefaultAnalysisConfig.
type AnalysisConfig struct {
	StartYear             int
	EndYear               int
	FillMissingYears      bool
	SignificanceThreshold float64
	ConfidenceLevel       float64
}

const (
	defaultStartYear    = 2013
	defaultEndYear      = 2024
	defaultSignificance = 0.05
	defaultConfidence   = 0.95
)

func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		StartYear:             defaultStartYear,
		EndYear:               defaultEndYear,
		FillMissingYears:      true,
		SignificanceThreshold: defaultSignificance,
		ConfidenceLevel:       defaultConfidence,
	}
}

// AnalysisResult is the full artifact of one pipeline run: the annual
// series, the fitted trend, the leading organizations, and the ingest
// bookkeeping needed for the report header.
type AnalysisResult struct {
	RunAt         time.Time
	Config        AnalysisConfig
	Observations  []AnnualObservation
	Regression    RegressionResult
	TopOrgs       []OrgReappointments
	RecordCount   int
	DroppedNoYear int
	BadFlagRows   int
	SourceFiles   []string
}
