package database

import (
	"fmt"
	"log"
	"time"

	"ordermatch/catalog"
)

// EnsureDemoProducts инициализирует пустой каталог демо-товарами, чтобы
// матчинг работал сразу после первого запуска. Выполняется только если
// таблица products пуста.
func (db *CatalogDB) EnsureDemoProducts() error {
	count, err := db.CountProducts()
	if err != nil {
		return err
	}

	if count > 0 {
		// Уже есть реальные данные — оставляем как есть
		return nil
	}

	demoProducts := []catalog.Entry{
		{
			ArticleNumber: "VS9B20",
			Name:          "Rakza 9 Black (2.0 mm)",
			Category:      "rubbers",
			Available:     true,
			Synonyms:      []string{"Rakza9 Black 2.0"},
		},
		{
			ArticleNumber: "VS9R20",
			Name:          "Rakza 9 Red (2.0 mm)",
			Category:      "rubbers",
			Available:     true,
		},
		{
			ArticleNumber: "VS7S18",
			Name:          "Rakza 7 Soft (1.8 mm)",
			Category:      "rubbers",
			Available:     true,
		},
		{
			ArticleNumber: "T05B21",
			Name:          "Tenergy 05 Black (2.1 mm)",
			Category:      "rubbers",
			Available:     true,
		},
		{
			ArticleNumber: "H3NPRO",
			Name:          "Hurricane 3 Neo Provincial",
			Category:      "rubbers",
			Available:     false,
		},
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to start demo seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	for _, product := range demoProducts {
		synonymsRaw, err := encodeSynonyms(product.Synonyms)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(
			`INSERT INTO products (article_number, name, category, is_available, is_discontinued, synonyms, created_at, updated_at)
			 VALUES (?, ?, ?, ?, 0, ?, ?, ?)`,
			product.ArticleNumber,
			product.Name,
			product.Category,
			product.Available,
			synonymsRaw,
			now,
			now,
		); err != nil {
			return fmt.Errorf("failed to insert demo product %q: %w", product.ArticleNumber, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO product_versions (article_number, name, category, is_available, is_discontinued, synonyms, change_reason, changed_by, recorded_at)
			 VALUES (?, ?, ?, ?, 0, ?, 'created', 'seed', ?)`,
			product.ArticleNumber,
			product.Name,
			product.Category,
			product.Available,
			synonymsRaw,
			now,
		); err != nil {
			return fmt.Errorf("failed to insert demo version for %q: %w", product.ArticleNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit demo product seed: %w", err)
	}

	log.Printf("[CatalogDB] Seeded %d demo products", len(demoProducts))
	return nil
}
