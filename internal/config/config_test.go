package config

import (
	"testing"
	"time"
)

// TestLoadConfig_Defaults проверяет значения по умолчанию
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.FuzzyArticleThreshold != 85 || cfg.FuzzyNameThreshold != 80 {
		t.Errorf("thresholds = %d/%d, want 85/80", cfg.FuzzyArticleThreshold, cfg.FuzzyNameThreshold)
	}
	if !cfg.SeedDemoData {
		t.Error("SeedDemoData must default to true")
	}
}

// TestLoadConfig_Env проверяет чтение переменных окружения
func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("MATCH_FUZZY_NAME_THRESHOLD", "75")
	t.Setenv("DB_CONN_MAX_LIFETIME", "2m")
	t.Setenv("SEED_DEMO_DATA", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.FuzzyNameThreshold != 75 {
		t.Errorf("FuzzyNameThreshold = %d, want 75", cfg.FuzzyNameThreshold)
	}
	if cfg.ConnMaxLifetime != 2*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 2m", cfg.ConnMaxLifetime)
	}
	if cfg.SeedDemoData {
		t.Error("SeedDemoData = true, want false")
	}
}

// TestLoadConfig_InvalidEnvFallsBack проверяет откат к умолчаниям
// для нечитаемых значений
func TestLoadConfig_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("MATCH_FUZZY_ARTICLE_THRESHOLD", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "garbage")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.FuzzyArticleThreshold != 85 {
		t.Errorf("FuzzyArticleThreshold = %d, want default 85", cfg.FuzzyArticleThreshold)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want default 5m", cfg.ConnMaxLifetime)
	}
}

// TestValidate проверяет отдельные правила валидации
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"bad port", func(c *Config) { c.Port = "abc" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"empty db path", func(c *Config) { c.DatabasePath = "" }},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 100 }},
		{"threshold out of range", func(c *Config) { c.FuzzyNameThreshold = 0 }},
		{"suggestion below threshold", func(c *Config) { c.SuggestionLow = 50 }},
		{"zero upload size", func(c *Config) { c.MaxUploadSizeMB = 0 }},
	}

	for _, tt := range tests {
		cfg := GetDefaults()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tt.name)
		}
	}

	if err := GetDefaults().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}
