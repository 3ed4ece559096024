package main

import (
	"fmt"
	"sort"
)

// InvalidRangeError reports an empty or inverted analysis year range.
type InvalidRangeError struct {
	Start int
	End   int
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid analysis year range %d-%d (end before start)", e.Start, e.End)
}

// InconsistentCountError reports a year whose reappointment count exceeds
// its total count. This is a data-integrity gate: it means the upstream
// marking is buggy, and the offending year and counts are surfaced so the
// ingestion bug can be diagnosed rather than clamped away.
type InconsistentCountError struct {
	Year           int
	Reappointments int
	Total          int
}

func (e InconsistentCountError) Error() string {
	return fmt.Sprintf("year %d has %d reappointments but only %d appointments", e.Year, e.Reappointments, e.Total)
}

// YearCounts is a pre-aggregated per-year count pair, e.g. one row of a
// GROUP BY year query.
type YearCounts struct {
	Year        int
	Total       int
	Reappointed int
}

// Aggregate collapses row-level appointment records into one
// AnnualObservation per year of the configured range, sorted ascending.
// Records outside [StartYear, EndYear] are ignored. With FillMissingYears
// set (the canonical policy) every year of the range appears, zero-count
// years included, so the regression always sees a complete, evenly spaced
// series.
func Aggregate(records []AppointmentRecord, cfg AnalysisConfig) ([]AnnualObservation, error) {
	if cfg.EndYear < cfg.StartYear {
		return nil, InvalidRangeError{Start: cfg.StartYear, End: cfg.EndYear}
	}

	totals := make(map[int]int)
	reappointed := make(map[int]int)
	for _, r := range records {
		totals[r.Year]++
		if r.Reappointed {
			reappointed[r.Year]++
		}
	}

	counts := make([]YearCounts, 0, len(totals))
	for year, total := range totals {
		counts = append(counts, YearCounts{Year: year, Total: total, Reappointed: reappointed[year]})
	}
	return ObservationsFromCounts(counts, cfg)
}

// ObservationsFromCounts builds the annual series from pre-aggregated
// per-year counts (the sqlite GROUP BY path). Duplicate years are summed.
// A year whose reappointment count exceeds its total fails with
// InconsistentCountError; counts outside the configured range are ignored.
func ObservationsFromCounts(counts []YearCounts, cfg AnalysisConfig) ([]AnnualObservation, error) {
	if cfg.EndYear < cfg.StartYear {
		return nil, InvalidRangeError{Start: cfg.StartYear, End: cfg.EndYear}
	}

	byYear := make(map[int]YearCounts)
	for _, c := range counts {
		if c.Year < cfg.StartYear || c.Year > cfg.EndYear {
			continue
		}
		merged := byYear[c.Year]
		merged.Year = c.Year
		merged.Total += c.Total
		merged.Reappointed += c.Reappointed
		byYear[c.Year] = merged
	}

	for year, c := range byYear {
		if c.Total < 0 || c.Reappointed < 0 || c.Reappointed > c.Total {
			return nil, InconsistentCountError{Year: year, Reappointments: c.Reappointed, Total: c.Total}
		}
	}

	var years []int
	if cfg.FillMissingYears {
		for year := cfg.StartYear; year <= cfg.EndYear; year++ {
			years = append(years, year)
		}
	} else {
		for year := range byYear {
			years = append(years, year)
		}
		sort.Ints(years)
	}

	obs := make([]AnnualObservation, 0, len(years))
	for _, year := range years {
		c := byYear[year]
		o := AnnualObservation{
			Year:               year,
			TotalCount:         c.Total,
			ReappointmentCount: c.Reappointed,
		}
		// A zero-appointment year contributes exactly 0, not a missing value.
		if o.TotalCount > 0 {
			o.Proportion = float64(o.ReappointmentCount) / float64(o.TotalCount)
		}
		obs = append(obs, o)
	}
	return obs, nil
}

// OrgYearBreakdown groups records into per-(organization, year) counts,
// sorted by organization then year. Organizations are grouped on their
// casefolded key; the first display form seen wins.
func OrgYearBreakdown(records []AppointmentRecord) []OrgYearCount {
	type orgYear struct {
		key  string
		year int
	}
	display := make(map[string]string)
	totals := make(map[orgYear]int)
	reappointed := make(map[orgYear]int)
	for _, r := range records {
		key := r.OrgKey
		if key == "" {
			key = r.Organization
		}
		if _, ok := display[key]; !ok {
			display[key] = r.Organization
		}
		oy := orgYear{key: key, year: r.Year}
		totals[oy]++
		if r.Reappointed {
			reappointed[oy]++
		}
	}

	out := make([]OrgYearCount, 0, len(totals))
	for oy, total := range totals {
		out = append(out, OrgYearCount{
			Organization:       display[oy.key],
			Year:               oy.year,
			TotalCount:         total,
			ReappointmentCount: reappointed[oy],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Organization != out[j].Organization {
			return out[i].Organization < out[j].Organization
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// TopReappointingOrgs sums a per-(organization, year) breakdown across
// years and returns the topN organizations by reappointment count,
// ties broken alphabetically.
func TopReappointingOrgs(breakdown []OrgYearCount, topN int) []OrgReappointments {
	if topN < 1 {
		return nil
	}

	totals := make(map[string]*OrgReappointments)
	var order []string
	for _, c := range breakdown {
		agg, ok := totals[c.Organization]
		if !ok {
			agg = &OrgReappointments{Organization: c.Organization}
			totals[c.Organization] = agg
			order = append(order, c.Organization)
		}
		agg.TotalCount += c.TotalCount
		agg.ReappointmentCount += c.ReappointmentCount
	}

	out := make([]OrgReappointments, 0, len(order))
	for _, org := range order {
		agg := totals[org]
		if agg.TotalCount > 0 {
			agg.Rate = float64(agg.ReappointmentCount) / float64(agg.TotalCount)
		}
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReappointmentCount != out[j].ReappointmentCount {
			return out[i].ReappointmentCount > out[j].ReappointmentCount
		}
		return out[i].Organization < out[j].Organization
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
