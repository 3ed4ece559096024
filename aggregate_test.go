package main

import (
	"errors"
	"testing"
)

func TestAggregateFillsEveryYearInRange(t *testing.T) {
	cfg := DefaultAnalysisConfig() // 2013-2024, fill enabled
	records := []AppointmentRecord{
		{Year: 2015, Organization: "Health", Reappointed: true},
		{Year: 2015, Organization: "Health"},
		{Year: 2020, Organization: "Justice"},
	}

	obs, err := Aggregate(records, cfg)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(obs) != 12 {
		t.Fatalf("expected 12 observations for 2013-2024, got %d", len(obs))
	}
	for i, o := range obs {
		if o.Year != cfg.StartYear+i {
			t.Fatalf("expected year %d at index %d, got %d", cfg.StartYear+i, i, o.Year)
		}
	}

	byYear := make(map[int]AnnualObservation)
	for _, o := range obs {
		byYear[o.Year] = o
	}
	if got := byYear[2015]; got.TotalCount != 2 || got.ReappointmentCount != 1 || got.Proportion != 0.5 {
		t.Fatalf("unexpected 2015 observation: %+v", got)
	}
	if got := byYear[2020]; got.TotalCount != 1 || got.ReappointmentCount != 0 || got.Proportion != 0 {
		t.Fatalf("unexpected 2020 observation: %+v", got)
	}
	// Empty years are zero-filled, proportion exactly 0, never a gap.
	if got := byYear[2013]; got.TotalCount != 0 || got.ReappointmentCount != 0 || got.Proportion != 0 {
		t.Fatalf("unexpected empty-year observation: %+v", got)
	}
}

func TestAggregateWithoutFillKeepsOnlyPresentYears(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	cfg.FillMissingYears = false
	records := []AppointmentRecord{
		{Year: 2022},
		{Year: 2014, Reappointed: true},
		{Year: 2014},
	}

	obs, err := Aggregate(records, cfg)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}
	if obs[0].Year != 2014 || obs[1].Year != 2022 {
		t.Fatalf("expected years sorted ascending, got %d, %d", obs[0].Year, obs[1].Year)
	}
}

func TestAggregateIgnoresRecordsOutsideRange(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	records := []AppointmentRecord{
		{Year: 2012, Reappointed: true},
		{Year: 2025, Reappointed: true},
		{Year: 2013},
	}

	obs, err := Aggregate(records, cfg)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	total := 0
	for _, o := range obs {
		total += o.TotalCount
	}
	if total != 1 {
		t.Fatalf("expected only the in-range record to be counted, got total %d", total)
	}
}

func TestAggregateInvalidRange(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	cfg.StartYear = 2024
	cfg.EndYear = 2013

	_, err := Aggregate(nil, cfg)
	var rangeErr InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	if rangeErr.Start != 2024 || rangeErr.End != 2013 {
		t.Fatalf("unexpected error fields: %+v", rangeErr)
	}
}

func TestObservationsFromCountsInconsistentCounts(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	counts := []YearCounts{
		{Year: 2014, Total: 10, Reappointed: 3},
		{Year: 2017, Total: 5, Reappointed: 9},
	}

	_, err := ObservationsFromCounts(counts, cfg)
	var countErr InconsistentCountError
	if !errors.As(err, &countErr) {
		t.Fatalf("expected InconsistentCountError, got %v", err)
	}
	if countErr.Year != 2017 || countErr.Reappointments != 9 || countErr.Total != 5 {
		t.Fatalf("error should carry the offending year and counts: %+v", countErr)
	}
}

func TestObservationsFromCountsSumsDuplicateYears(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	cfg.FillMissingYears = false
	counts := []YearCounts{
		{Year: 2018, Total: 4, Reappointed: 1},
		{Year: 2018, Total: 6, Reappointed: 2},
	}

	obs, err := ObservationsFromCounts(counts, cfg)
	if err != nil {
		t.Fatalf("ObservationsFromCounts failed: %v", err)
	}
	if len(obs) != 1 || obs[0].TotalCount != 10 || obs[0].ReappointmentCount != 3 {
		t.Fatalf("expected duplicate years summed, got %+v", obs)
	}
	if obs[0].Proportion != 0.3 {
		t.Fatalf("unexpected proportion: %f", obs[0].Proportion)
	}
}

func TestObservationProportionsStayInRange(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	var records []AppointmentRecord
	for year := 2013; year <= 2024; year++ {
		for i := 0; i < 7; i++ {
			records = append(records, AppointmentRecord{Year: year, Reappointed: i%3 == 0})
		}
	}

	obs, err := Aggregate(records, cfg)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	for _, o := range obs {
		if o.ReappointmentCount < 0 || o.ReappointmentCount > o.TotalCount {
			t.Fatalf("count invariant violated: %+v", o)
		}
		if o.Proportion < 0 || o.Proportion > 1 {
			t.Fatalf("proportion out of range: %+v", o)
		}
	}
}

func TestOrgYearBreakdownGroupsOnNormalizedKey(t *testing.T) {
	records := []AppointmentRecord{
		{Year: 2019, Organization: "Health Canada", OrgKey: "health canada", Reappointed: true},
		{Year: 2019, Organization: "HEALTH CANADA", OrgKey: "health canada"},
		{Year: 2020, Organization: "Health Canada", OrgKey: "health canada", Reappointed: true},
		{Year: 2019, Organization: "Justice", OrgKey: "justice"},
	}

	breakdown := OrgYearBreakdown(records)
	if len(breakdown) != 3 {
		t.Fatalf("expected 3 (org, year) groups, got %d: %+v", len(breakdown), breakdown)
	}
	if breakdown[0].Organization != "Health Canada" || breakdown[0].Year != 2019 {
		t.Fatalf("unexpected first group: %+v", breakdown[0])
	}
	if breakdown[0].TotalCount != 2 || breakdown[0].ReappointmentCount != 1 {
		t.Fatalf("case variants should group together: %+v", breakdown[0])
	}
	if breakdown[1].Year != 2020 || breakdown[2].Organization != "Justice" {
		t.Fatalf("expected org then year ordering: %+v", breakdown)
	}
}

func TestTopReappointingOrgs(t *testing.T) {
	breakdown := []OrgYearCount{
		{Organization: "Health", Year: 2019, TotalCount: 10, ReappointmentCount: 5},
		{Organization: "Health", Year: 2020, TotalCount: 10, ReappointmentCount: 5},
		{Organization: "Justice", Year: 2019, TotalCount: 20, ReappointmentCount: 8},
		{Organization: "Agriculture", Year: 2019, TotalCount: 16, ReappointmentCount: 8},
		{Organization: "Tourism", Year: 2019, TotalCount: 5, ReappointmentCount: 1},
	}

	top := TopReappointingOrgs(breakdown, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 organizations, got %d", len(top))
	}
	if top[0].Organization != "Health" || top[0].ReappointmentCount != 10 || top[0].TotalCount != 20 {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
	// Agriculture and Justice tie on 8; alphabetical breaks the tie.
	if top[1].Organization != "Agriculture" || top[2].Organization != "Justice" {
		t.Fatalf("unexpected tie-break order: %+v", top)
	}
	if top[0].Rate != 0.5 {
		t.Fatalf("unexpected rate: %f", top[0].Rate)
	}

	if got := TopReappointingOrgs(breakdown, 0); got != nil {
		t.Fatalf("topN=0 should return nil, got %+v", got)
	}
}
