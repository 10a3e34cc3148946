package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

const migrationsTableName = "schema_migrations"

// ensureMigrationTable создает таблицу schema_migrations при необходимости
func ensureMigrationTable(db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, migrationsTableName)

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}
	return nil
}

// isMigrationApplied проверяет, была ли уже применена миграция
func isMigrationApplied(db *sql.DB, name string) (bool, error) {
	if err := ensureMigrationTable(db); err != nil {
		return false, err
	}

	var appliedAt sql.NullTime
	query := fmt.Sprintf(`SELECT applied_at FROM %s WHERE name = ?`, migrationsTableName)
	err := db.QueryRow(query, name).Scan(&appliedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}

	return appliedAt.Valid, nil
}

// markMigrationApplied сохраняет информацию о примененной миграции
func markMigrationApplied(db *sql.DB, name string) error {
	if err := ensureMigrationTable(db); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s(name, applied_at) VALUES(?, ?)`, migrationsTableName)
	_, err := db.Exec(query, name, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark migration %s as applied: %w", name, err)
	}
	return nil
}

// ensureMigrationApplied выполняет миграцию только один раз
func ensureMigrationApplied(db *sql.DB, name string, migration func(*sql.DB) error) error {
	applied, err := isMigrationApplied(db, name)
	if err != nil {
		return err
	}
	if applied {
		log.Printf("[Migrations] Skipping %s - already applied", name)
		return nil
	}

	if err := migration(db); err != nil {
		return err
	}

	if err := markMigrationApplied(db, name); err != nil {
		return err
	}

	log.Printf("[Migrations] %s applied successfully", name)
	return nil
}

// InitCatalogSchema применяет все миграции схемы каталога
func InitCatalogSchema(db *sql.DB) error {
	migrations := []struct {
		name string
		fn   func(*sql.DB) error
	}{
		{"create_products", migrateCreateProducts},
		{"create_product_versions", migrateCreateProductVersions},
		{"create_synonym_suggestions", migrateCreateSynonymSuggestions},
	}

	for _, m := range migrations {
		if err := ensureMigrationApplied(db, m.name, m.fn); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}

	return nil
}

// migrateCreateProducts создает таблицу товаров каталога
func migrateCreateProducts(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			article_number TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT DEFAULT '',
			is_available INTEGER NOT NULL DEFAULT 1,
			is_discontinued INTEGER NOT NULL DEFAULT 0,
			synonyms TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`); err != nil {
		return fmt.Errorf("failed to create products name index: %w", err)
	}

	return nil
}

// migrateCreateProductVersions создает таблицу журнала версий
func migrateCreateProductVersions(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS product_versions (
			version_id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_number TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT DEFAULT '',
			is_available INTEGER NOT NULL DEFAULT 1,
			is_discontinued INTEGER NOT NULL DEFAULT 0,
			synonyms TEXT NOT NULL DEFAULT '[]',
			change_reason TEXT NOT NULL,
			changed_by TEXT DEFAULT '',
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create product_versions table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_versions_article ON product_versions(article_number)`); err != nil {
		return fmt.Errorf("failed to create versions article index: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_versions_recorded ON product_versions(recorded_at)`); err != nil {
		return fmt.Errorf("failed to create versions recorded_at index: %w", err)
	}

	return nil
}

// migrateCreateSynonymSuggestions создает таблицу предложений псевдонимов
func migrateCreateSynonymSuggestions(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS synonym_suggestions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			alias TEXT NOT NULL,
			article_number TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			usage_count INTEGER NOT NULL DEFAULT 1,
			first_suggested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(alias, article_number)
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create synonym_suggestions table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_suggestions_status ON synonym_suggestions(status)`); err != nil {
		return fmt.Errorf("failed to create suggestions status index: %w", err)
	}

	return nil
}
