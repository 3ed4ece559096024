package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := LoadConfig()

	if cfg.RawDataDir != "./raw_data" {
		t.Fatalf("unexpected raw data dir default: %q", cfg.RawDataDir)
	}
	if cfg.DBPath != "./appointments.db" {
		t.Fatalf("unexpected db path default: %q", cfg.DBPath)
	}
	if cfg.ReportOutputDir != "./analysis_output" {
		t.Fatalf("unexpected report output dir default: %q", cfg.ReportOutputDir)
	}
	if cfg.AnalysisStartYear != 2013 || cfg.AnalysisEndYear != 2024 {
		t.Fatalf("unexpected default year range: %d-%d", cfg.AnalysisStartYear, cfg.AnalysisEndYear)
	}
	if cfg.SignificanceThreshold != 0.05 {
		t.Fatalf("unexpected default significance threshold: %f", cfg.SignificanceThreshold)
	}
	if cfg.ConfidenceLevel != 0.95 {
		t.Fatalf("unexpected default confidence level: %f", cfg.ConfidenceLevel)
	}
	if cfg.TopOrgCount != 10 {
		t.Fatalf("unexpected default top org count: %d", cfg.TopOrgCount)
	}
	if cfg.Location == nil {
		t.Fatalf("expected location to be resolved")
	}
	if cfg.SlackConfigured() || cfg.LLMConfigured() {
		t.Fatalf("optional integrations should be off by default")
	}

	ac := cfg.AnalysisConfig()
	if !ac.FillMissingYears {
		t.Fatalf("fill_missing_years should default to true")
	}
	if ac != DefaultAnalysisConfig() {
		t.Fatalf("analysis config should match core defaults: %+v", ac)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yaml := `
raw_data_dir: /data/appointments
analysis_start_year: 2015
analysis_end_year: 2022
fill_missing_years: false
significance_threshold: 0.01
confidence_level: 0.9
top_org_count: 5
timezone: UTC
`
	if err := os.WriteFile(configPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("CONFIG_PATH", configPath)

	cfg := LoadConfig()

	if cfg.RawDataDir != "/data/appointments" {
		t.Fatalf("unexpected raw data dir: %q", cfg.RawDataDir)
	}
	ac := cfg.AnalysisConfig()
	if ac.StartYear != 2015 || ac.EndYear != 2022 {
		t.Fatalf("unexpected year range: %d-%d", ac.StartYear, ac.EndYear)
	}
	if ac.FillMissingYears {
		t.Fatalf("fill_missing_years: false should carry through")
	}
	if ac.SignificanceThreshold != 0.01 || ac.ConfidenceLevel != 0.9 {
		t.Fatalf("unexpected thresholds: %+v", ac)
	}
	if cfg.TopOrgCount != 5 {
		t.Fatalf("unexpected top org count: %d", cfg.TopOrgCount)
	}
	if cfg.Location.String() != "UTC" {
		t.Fatalf("unexpected location: %v", cfg.Location)
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yaml := "analysis_end_year: 2022\nfill_missing_years: false\n"
	if err := os.WriteFile(configPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("CONFIG_PATH", configPath)
	t.Setenv("ANALYSIS_END_YEAR", "2023")
	t.Setenv("FILL_MISSING_YEARS", "true")
	t.Setenv("SIGNIFICANCE_THRESHOLD", "0.1")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("REPORT_CHANNEL_ID", "C123")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg := LoadConfig()

	if cfg.AnalysisEndYear != 2023 {
		t.Fatalf("env should override yaml, got %d", cfg.AnalysisEndYear)
	}
	if !cfg.AnalysisConfig().FillMissingYears {
		t.Fatalf("env should override fill_missing_years")
	}
	if cfg.SignificanceThreshold != 0.1 {
		t.Fatalf("unexpected significance threshold: %f", cfg.SignificanceThreshold)
	}
	if !cfg.SlackConfigured() {
		t.Fatalf("expected slack to be configured")
	}
	if !cfg.LLMConfigured() {
		t.Fatalf("expected llm to be configured")
	}
}
