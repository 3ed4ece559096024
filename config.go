package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	RawDataDir      string `yaml:"raw_data_dir"`
	DBPath          string `yaml:"db_path"`
	ReportOutputDir string `yaml:"report_output_dir"`

	AnalysisStartYear     int     `yaml:"analysis_start_year"`
	AnalysisEndYear       int     `yaml:"analysis_end_year"`
	FillMissingYears      *bool   `yaml:"fill_missing_years"`
	SignificanceThreshold float64 `yaml:"significance_threshold"`
	ConfidenceLevel       float64 `yaml:"confidence_level"`
	TopOrgCount           int     `yaml:"top_org_count"`

	RefreshSchedule string `yaml:"refresh_schedule"`
	Timezone        string `yaml:"timezone"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.RawDataDir, "RAW_DATA_DIR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverrideInt(&cfg.AnalysisStartYear, "ANALYSIS_START_YEAR")
	envOverrideInt(&cfg.AnalysisEndYear, "ANALYSIS_END_YEAR")
	envOverrideBoolPtr(&cfg.FillMissingYears, "FILL_MISSING_YEARS")
	envOverrideFloat(&cfg.SignificanceThreshold, "SIGNIFICANCE_THRESHOLD")
	envOverrideFloat(&cfg.ConfidenceLevel, "CONFIDENCE_LEVEL")
	envOverrideInt(&cfg.TopOrgCount, "TOP_ORG_COUNT")
	envOverride(&cfg.RefreshSchedule, "REFRESH_SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")

	// Defaults
	if cfg.RawDataDir == "" {
		cfg.RawDataDir = "./raw_data"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./appointments.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./analysis_output"
	}
	if cfg.AnalysisStartYear == 0 {
		cfg.AnalysisStartYear = defaultStartYear
	}
	if cfg.AnalysisEndYear == 0 {
		cfg.AnalysisEndYear = defaultEndYear
	}
	if cfg.SignificanceThreshold == 0 {
		cfg.SignificanceThreshold = defaultSignificance
	}
	if cfg.ConfidenceLevel == 0 {
		cfg.ConfidenceLevel = defaultConfidence
	}
	if cfg.TopOrgCount == 0 {
		cfg.TopOrgCount = 10
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate
	if cfg.AnalysisEndYear < cfg.AnalysisStartYear {
		log.Fatalf("invalid analysis year range %d-%d: end before start", cfg.AnalysisStartYear, cfg.AnalysisEndYear)
	}
	if cfg.SignificanceThreshold <= 0 || cfg.SignificanceThreshold >= 1 {
		log.Fatalf("invalid significance_threshold '%f': must be between 0 and 1 exclusive", cfg.SignificanceThreshold)
	}
	if cfg.ConfidenceLevel <= 0 || cfg.ConfidenceLevel >= 1 {
		log.Fatalf("invalid confidence_level '%f': must be between 0 and 1 exclusive", cfg.ConfidenceLevel)
	}
	if cfg.TopOrgCount < 1 {
		log.Fatalf("invalid top_org_count '%d': must be >= 1", cfg.TopOrgCount)
	}
	if cfg.RefreshSchedule != "" {
		if _, err := ParseRefreshSchedule(cfg.RefreshSchedule); err != nil {
			log.Fatalf("invalid refresh_schedule '%s': %v", cfg.RefreshSchedule, err)
		}
	}

	if cfg.Timezone == "Local" {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

// AnalysisConfig narrows the full config to the surface the aggregation
// and regression core consumes.
func (c Config) AnalysisConfig() AnalysisConfig {
	fill := true
	if c.FillMissingYears != nil {
		fill = *c.FillMissingYears
	}
	return AnalysisConfig{
		StartYear:             c.AnalysisStartYear,
		EndYear:               c.AnalysisEndYear,
		FillMissingYears:      fill,
		SignificanceThreshold: c.SignificanceThreshold,
		ConfidenceLevel:       c.ConfidenceLevel,
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func (c Config) LLMConfigured() bool {
	return c.AnthropicAPIKey != ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBoolPtr(field **bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = &parsed
	}
}
