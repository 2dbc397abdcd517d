package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CONFIGURED_CLUBS", "ACC 1,ACC 2")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresAtLeastOneConfiguredClub(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CONFIGURED_CLUBS", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when CONFIGURED_CLUBS is empty")
	}
}

func TestLoad_ConfiguredClubsParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CONFIGURED_CLUBS", " ACC 1 , ACC 2 ,, ACC 3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []string{"ACC 1", "ACC 2", "ACC 3"}
	if len(cfg.ConfiguredClubs) != len(want) {
		t.Fatalf("expected %d clubs, got %v", len(want), cfg.ConfiguredClubs)
	}
	for i, club := range want {
		if cfg.ConfiguredClubs[i] != club {
			t.Fatalf("expected club %d to be %q, got %q", i, club, cfg.ConfiguredClubs[i])
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ScoringRulesetVersion != "v1" {
		t.Fatalf("unexpected default ruleset version: %q", cfg.ScoringRulesetVersion)
	}
	if cfg.ScrapeInterval != 10*time.Minute {
		t.Fatalf("unexpected default scrape interval: %s", cfg.ScrapeInterval)
	}
	if cfg.ScrapeSchedule != "0 1 * * 1" {
		t.Fatalf("unexpected default scrape schedule: %q", cfg.ScrapeSchedule)
	}
	if cfg.DriftRate != 0.15 {
		t.Fatalf("unexpected default drift rate: %v", cfg.DriftRate)
	}
	if cfg.MultiplierMin != 0.69 || cfg.MultiplierMax != 5.00 {
		t.Fatalf("unexpected default multiplier bounds: [%v, %v]", cfg.MultiplierMin, cfg.MultiplierMax)
	}
	if cfg.FuzzyMatchThreshold != 0.85 {
		t.Fatalf("unexpected default fuzzy match threshold: %v", cfg.FuzzyMatchThreshold)
	}
	if cfg.IngestionMaxWorkers != 4 {
		t.Fatalf("unexpected default ingestion max workers: %d", cfg.IngestionMaxWorkers)
	}
	if cfg.IngestionMaxRetries != 3 {
		t.Fatalf("unexpected default ingestion max retries: %d", cfg.IngestionMaxRetries)
	}
}

func TestLoad_DriftRateMustBeInRange(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DRIFT_RATE", "1.5")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for DRIFT_RATE outside (0, 1]")
	}
}

func TestLoad_MultiplierBoundsMustBeOrdered(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MULTIPLIER_MIN", "3.0")
	t.Setenv("MULTIPLIER_MAX", "2.0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when MULTIPLIER_MIN >= MULTIPLIER_MAX")
	}
}

func TestLoad_IngestionWorkerOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("INGESTION_MAX_WORKERS", "8")
	t.Setenv("INGESTION_MAX_RETRIES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IngestionMaxWorkers != 8 {
		t.Fatalf("unexpected ingestion max workers: %d", cfg.IngestionMaxWorkers)
	}
	if cfg.IngestionMaxRetries != 5 {
		t.Fatalf("unexpected ingestion max retries: %d", cfg.IngestionMaxRetries)
	}
}

func TestLoad_IngestionMaxWorkersMustBePositive(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("INGESTION_MAX_WORKERS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for INGESTION_MAX_WORKERS=0")
	}
}

func TestLoad_ScraperCircuitDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.ScraperCircuitEnabled {
		t.Fatalf("expected scraper circuit breaker enabled by default")
	}
	if cfg.ScraperCircuitFailureCount != 5 {
		t.Fatalf("unexpected default scraper circuit failure count: %d", cfg.ScraperCircuitFailureCount)
	}
}
