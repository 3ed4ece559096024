package main

import "testing"

func TestRegressionResultPredict(t *testing.T) {
	reg := RegressionResult{Slope: 0.4, Intercept: -807.9}

	tests := []struct {
		year int
		want float64
	}{
		{2020, 0.1},
		{2021, 0.5},
		{2022, 0.9},
	}
	for _, tc := range tests {
		if got := reg.Predict(tc.year); !almostEqual(got, tc.want, 1e-9) {
			t.Fatalf("Predict(%d) = %v, want %v", tc.year, got, tc.want)
		}
	}
}

func TestDefaultAnalysisConfig(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	if cfg.StartYear != 2013 || cfg.EndYear != 2024 {
		t.Fatalf("unexpected default range: %d-%d", cfg.StartYear, cfg.EndYear)
	}
	if !cfg.FillMissingYears {
		t.Fatalf("fill policy should default to true")
	}
	if cfg.SignificanceThreshold != 0.05 || cfg.ConfidenceLevel != 0.95 {
		t.Fatalf("unexpected default thresholds: %+v", cfg)
	}
}
