package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/slack-go/slack"
)

// RunAnalysis executes one full pipeline pass: ingest the yearly CSVs
// into sqlite, aggregate annual counts, fit the trend, write the report,
// record the run, and deliver the optional Slack/LLM extras.
func RunAnalysis(cfg Config, db *sql.DB, api *slack.Client) error {
	runAt := time.Now().In(cfg.Location)

	ingest, err := LoadAppointmentsDir(cfg.RawDataDir)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", cfg.RawDataDir, err)
	}

	byFile := make(map[string][]AppointmentRecord)
	for _, r := range ingest.Records {
		byFile[r.SourceFile] = append(byFile[r.SourceFile], r)
	}
	for _, file := range ingest.Files {
		inserted, err := ReplaceSourceFile(db, file, byFile[file])
		if err != nil {
			return fmt.Errorf("storing %s: %w", file, err)
		}
		log.Printf("Stored %s: %d records", file, inserted)
	}

	res, err := AnalyzeStored(db, cfg.AnalysisConfig(), cfg.TopOrgCount)
	if err != nil {
		return err
	}
	res.RunAt = runAt
	res.RecordCount = len(ingest.Records)
	res.DroppedNoYear = ingest.DroppedNoYear
	res.BadFlagRows = ingest.BadFlagRows
	res.SourceFiles = ingest.Files

	report := BuildReport(res)

	if cfg.LLMConfigured() {
		summary, err := GenerateExecutiveSummary(context.Background(), cfg, res)
		if err != nil {
			log.Printf("Executive summary skipped: %v", err)
		} else {
			report += "## Executive summary\n\n" + summary + "\n"
		}
	}

	path, err := WriteReportFile(report, cfg.ReportOutputDir, runAt)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	log.Printf("Report written to %s", path)

	if err := InsertAnalysisRun(db, analysisRunRow(res)); err != nil {
		return fmt.Errorf("recording analysis run: %w", err)
	}

	log.Printf("Analysis complete: %s", FormatRunSummary(res))

	if cfg.SlackConfigured() && api != nil {
		if err := PostRunSummary(api, cfg.ReportChannelID, FormatRunSummary(res)); err != nil {
			log.Printf("Slack post error: %v", err)
		}
	}
	return nil
}

// AnalyzeStored runs aggregation and regression over whatever is in the
// database, without touching the raw CSVs. The counts come back from
// sqlite pre-aggregated, so the integrity gate in ObservationsFromCounts
// covers the stored data too.
func AnalyzeStored(db *sql.DB, cfg AnalysisConfig, topOrgCount int) (AnalysisResult, error) {
	counts, err := GetAnnualCounts(db, cfg.StartYear, cfg.EndYear)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("loading annual counts: %w", err)
	}

	obs, err := ObservationsFromCounts(counts, cfg)
	if err != nil {
		return AnalysisResult{}, err
	}

	reg, err := FitTrend(obs, cfg)
	if err != nil {
		return AnalysisResult{}, err
	}

	orgCounts, err := GetOrgYearCounts(db, cfg.StartYear, cfg.EndYear)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("loading organization counts: %w", err)
	}

	return AnalysisResult{
		Config:       cfg,
		Observations: obs,
		Regression:   reg,
		TopOrgs:      TopReappointingOrgs(orgCounts, topOrgCount),
	}, nil
}

func analysisRunRow(res AnalysisResult) AnalysisRun {
	reg := res.Regression
	return AnalysisRun{
		RunAt:          res.RunAt,
		StartYear:      res.Config.StartYear,
		EndYear:        res.Config.EndYear,
		RecordCount:    res.RecordCount,
		DroppedNoYear:  res.DroppedNoYear,
		Observations:   reg.N,
		Slope:          reg.Slope,
		Intercept:      reg.Intercept,
		RSquared:       reg.RSquared,
		StdErr:         reg.StdErr,
		TStat:          reg.TStat,
		PValue:         reg.PValue,
		CILower:        reg.CILower,
		CIUpper:        reg.CIUpper,
		Classification: string(reg.Classification),
	}
}
