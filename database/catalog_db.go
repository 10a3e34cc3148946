package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig конфигурация пула подключений к БД каталога
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// CatalogDB обертка для работы с базой каталога: товары, версии,
// предложения псевдонимов
type CatalogDB struct {
	conn *sql.DB
}

// NewCatalogDB создает новое подключение к базе каталога
func NewCatalogDB(dbPath string) (*CatalogDB, error) {
	config := DBConfig{}

	// Для in-memory SQLite требуется ровно одно соединение, иначе каждое
	// новое соединение получает пустую БД без таблиц и миграций
	if isInMemoryCatalogDB(dbPath) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}

	return NewCatalogDBWithConfig(dbPath, config)
}

// isInMemoryCatalogDB определяет, что путь относится к in-memory SQLite
func isInMemoryCatalogDB(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}

	// Формат file:memdb?mode=memory&cache=shared также хранит БД в памяти
	if strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory") {
		return true
	}

	return false
}

// NewCatalogDBWithConfig создает новое подключение к базе каталога
// с конфигурацией пула
func NewCatalogDBWithConfig(dbPath string, config DBConfig) (*CatalogDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// SQLite плохо справляется с большим количеством одновременных
	// соединений, ограничиваем пул
	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(10)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(3)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// WAL позволяет множественным читателям работать одновременно
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Printf("[CatalogDB] Warning: Failed to enable WAL mode: %v", err)
	}

	catalogDB := &CatalogDB{conn: conn}

	if err := InitCatalogSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	return catalogDB, nil
}

// Conn возвращает низкоуровневое соединение с БД
func (db *CatalogDB) Conn() *sql.DB {
	return db.conn
}

// Close закрывает подключение к базе каталога
func (db *CatalogDB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}
