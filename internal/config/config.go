package config

import (
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервера матчинга заказов
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База каталога
	DatabasePath string `json:"database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Пороги матчинга
	FuzzyArticleThreshold int `json:"fuzzy_article_threshold"`
	FuzzyNameThreshold    int `json:"fuzzy_name_threshold"`
	SuggestionLow         int `json:"suggestion_low"`

	// Загрузка файлов заказов
	UploadDir        string `json:"upload_dir"`
	MaxUploadSizeMB  int    `json:"max_upload_size_mb"`
	UploadRatePerMin int    `json:"upload_rate_per_min"`
	UploadRateBurst  int    `json:"upload_rate_burst"`

	// Первичное заполнение пустого каталога демо-данными
	SeedDemoData bool `json:"seed_demo_data"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		Port: getEnv("SERVER_PORT", "8080"),

		DatabasePath: getEnv("DATABASE_PATH", "catalog.db"),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 3),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		FuzzyArticleThreshold: getEnvInt("MATCH_FUZZY_ARTICLE_THRESHOLD", 85),
		FuzzyNameThreshold:    getEnvInt("MATCH_FUZZY_NAME_THRESHOLD", 80),
		SuggestionLow:         getEnvInt("MATCH_SUGGESTION_LOW", 85),

		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSizeMB:  getEnvInt("MAX_UPLOAD_SIZE_MB", 16),
		UploadRatePerMin: getEnvInt("UPLOAD_RATE_PER_MIN", 30),
		UploadRateBurst:  getEnvInt("UPLOAD_RATE_BURST", 5),

		SeedDemoData: getEnv("SEED_DEMO_DATA", "true") == "true",
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
