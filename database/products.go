package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ordermatch/catalog"
)

// ErrProductNotFound возвращается, когда артикул отсутствует в каталоге
var ErrProductNotFound = fmt.Errorf("product not found")

// ErrProductExists возвращается при попытке вставить уже существующий артикул
var ErrProductExists = fmt.Errorf("product already exists")

// encodeSynonyms сериализует список псевдонимов в JSON для хранения
func encodeSynonyms(synonyms []string) (string, error) {
	if len(synonyms) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(synonyms)
	if err != nil {
		return "", fmt.Errorf("failed to encode synonyms: %w", err)
	}
	return string(data), nil
}

// decodeSynonyms десериализует список псевдонимов из JSON
func decodeSynonyms(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var synonyms []string
	if err := json.Unmarshal([]byte(raw), &synonyms); err != nil {
		return nil, fmt.Errorf("failed to decode synonyms: %w", err)
	}
	return synonyms, nil
}

// scanProduct читает одну запись каталога из строки результата
func scanProduct(scanner interface{ Scan(...interface{}) error }) (catalog.Entry, error) {
	var entry catalog.Entry
	var synonymsRaw string
	var createdAt, updatedAt sql.NullTime

	err := scanner.Scan(
		&entry.ArticleNumber,
		&entry.Name,
		&entry.Category,
		&entry.Available,
		&entry.Discontinued,
		&synonymsRaw,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return catalog.Entry{}, err
	}

	synonyms, err := decodeSynonyms(synonymsRaw)
	if err != nil {
		return catalog.Entry{}, err
	}
	entry.Synonyms = synonyms

	if createdAt.Valid {
		entry.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		entry.UpdatedAt = updatedAt.Time
	}

	return entry, nil
}

const productColumns = `article_number, name, category, is_available, is_discontinued, synonyms, created_at, updated_at`

// ListProducts возвращает все записи каталога (включая снятые с производства)
func (db *CatalogDB) ListProducts() ([]catalog.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY article_number`, productColumns)
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		entry, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return entries, nil
}

// GetProduct возвращает запись каталога по артикулу
func (db *CatalogDB) GetProduct(article string) (catalog.Entry, error) {
	article = catalog.NormalizeArticle(article)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE article_number = ?`, productColumns)

	entry, err := scanProduct(db.conn.QueryRow(query, article))
	if err != nil {
		if err == sql.ErrNoRows {
			return catalog.Entry{}, ErrProductNotFound
		}
		return catalog.Entry{}, fmt.Errorf("failed to get product %s: %w", article, err)
	}

	return entry, nil
}

// InsertProduct добавляет новую запись каталога
func (db *CatalogDB) InsertProduct(entry catalog.Entry) error {
	entry.ArticleNumber = catalog.NormalizeArticle(entry.ArticleNumber)
	if entry.ArticleNumber == "" {
		return fmt.Errorf("article number is required")
	}
	if entry.Name == "" {
		return fmt.Errorf("product name is required")
	}

	if _, err := db.GetProduct(entry.ArticleNumber); err == nil {
		return ErrProductExists
	} else if err != ErrProductNotFound {
		return err
	}

	synonymsRaw, err := encodeSynonyms(entry.Synonyms)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = db.conn.Exec(`
		INSERT INTO products (article_number, name, category, is_available, is_discontinued, synonyms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ArticleNumber, entry.Name, entry.Category, entry.Available, entry.Discontinued, synonymsRaw, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert product %s: %w", entry.ArticleNumber, err)
	}

	return nil
}

// UpdateProduct обновляет изменяемые поля записи каталога.
// Артикул неизменяем: он идентифицирует запись.
func (db *CatalogDB) UpdateProduct(entry catalog.Entry) error {
	entry.ArticleNumber = catalog.NormalizeArticle(entry.ArticleNumber)

	synonymsRaw, err := encodeSynonyms(entry.Synonyms)
	if err != nil {
		return err
	}

	result, err := db.conn.Exec(`
		UPDATE products
		SET name = ?, category = ?, is_available = ?, is_discontinued = ?, synonyms = ?, updated_at = ?
		WHERE article_number = ?
	`, entry.Name, entry.Category, entry.Available, entry.Discontinued, synonymsRaw, time.Now(), entry.ArticleNumber)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", entry.ArticleNumber, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// AddProductSynonym добавляет утвержденный псевдоним к записи каталога.
// Повторное добавление того же псевдонима — no-op.
func (db *CatalogDB) AddProductSynonym(article, alias string) error {
	entry, err := db.GetProduct(article)
	if err != nil {
		return err
	}

	if entry.HasSynonym(alias) {
		return nil
	}

	entry.Synonyms = append(entry.Synonyms, alias)
	return db.UpdateProduct(entry)
}

// CountProducts возвращает число записей каталога
func (db *CatalogDB) CountProducts() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
