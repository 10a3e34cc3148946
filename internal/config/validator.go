package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация пути к базе каталога
	if c.DatabasePath == "" {
		errors = append(errors, "database path is required")
	}

	// Валидация connection pooling
	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		errors = append(errors, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errors = append(errors, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		errors = append(errors, "connection max lifetime must be at least 1 second")
	}

	// Валидация порогов матчинга: шкала 0-100, полоса предложений не может
	// начинаться ниже порога принятия
	if c.FuzzyArticleThreshold < 1 || c.FuzzyArticleThreshold > 100 {
		errors = append(errors, fmt.Sprintf("fuzzy article threshold must be between 1 and 100, got %d", c.FuzzyArticleThreshold))
	}
	if c.FuzzyNameThreshold < 1 || c.FuzzyNameThreshold > 100 {
		errors = append(errors, fmt.Sprintf("fuzzy name threshold must be between 1 and 100, got %d", c.FuzzyNameThreshold))
	}
	if c.SuggestionLow < 1 || c.SuggestionLow > 100 {
		errors = append(errors, fmt.Sprintf("suggestion low bound must be between 1 and 100, got %d", c.SuggestionLow))
	}
	if c.SuggestionLow < c.FuzzyNameThreshold {
		errors = append(errors, "suggestion low bound cannot be below the fuzzy name threshold")
	}

	// Валидация загрузки файлов
	if c.UploadDir == "" {
		errors = append(errors, "upload dir is required")
	}
	if c.MaxUploadSizeMB < 1 {
		errors = append(errors, "max upload size must be at least 1 MB")
	}
	if c.UploadRatePerMin < 1 {
		errors = append(errors, "upload rate must be at least 1 per minute")
	}
	if c.UploadRateBurst < 1 {
		errors = append(errors, "upload rate burst must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// GetDefaults возвращает конфигурацию со значениями по умолчанию
func GetDefaults() *Config {
	return &Config{
		Port:                  "8080",
		DatabasePath:          "catalog.db",
		MaxOpenConns:          10,
		MaxIdleConns:          3,
		ConnMaxLifetime:       5 * time.Minute,
		FuzzyArticleThreshold: 85,
		FuzzyNameThreshold:    80,
		SuggestionLow:         85,
		UploadDir:             "uploads",
		MaxUploadSizeMB:       16,
		UploadRatePerMin:      30,
		UploadRateBurst:       5,
		SeedDemoData:          true,
	}
}
