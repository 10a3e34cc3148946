package database

import (
	"database/sql"
	"fmt"
	"time"

	"ordermatch/catalog"
	"ordermatch/synonyms"
)

const suggestionColumns = `id, alias, article_number, score, status, usage_count, first_suggested_at, last_seen_at`

// scanSuggestion читает одно предложение псевдонима из строки результата
func scanSuggestion(scanner interface{ Scan(...interface{}) error }) (synonyms.Suggestion, error) {
	var s synonyms.Suggestion
	var first, last sql.NullTime

	err := scanner.Scan(
		&s.ID,
		&s.Alias,
		&s.ArticleNumber,
		&s.Score,
		&s.Status,
		&s.UsageCount,
		&first,
		&last,
	)
	if err != nil {
		return synonyms.Suggestion{}, err
	}

	if first.Valid {
		s.FirstSuggestedAt = first.Time
	}
	if last.Valid {
		s.LastSeenAt = last.Time
	}

	return s, nil
}

// GetSuggestion возвращает предложение по паре (псевдоним, артикул),
// nil если пара еще не встречалась
func (db *CatalogDB) GetSuggestion(alias, article string) (*synonyms.Suggestion, error) {
	query := fmt.Sprintf(`SELECT %s FROM synonym_suggestions WHERE alias = ? AND article_number = ?`, suggestionColumns)

	s, err := scanSuggestion(db.conn.QueryRow(query, alias, catalog.NormalizeArticle(article)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get suggestion %q -> %s: %w", alias, article, err)
	}

	return &s, nil
}

// InsertSuggestion добавляет новое предложение псевдонима
func (db *CatalogDB) InsertSuggestion(s synonyms.Suggestion) error {
	now := time.Now()
	usage := s.UsageCount
	if usage <= 0 {
		usage = 1
	}

	_, err := db.conn.Exec(`
		INSERT INTO synonym_suggestions (alias, article_number, score, status, usage_count, first_suggested_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.Alias, catalog.NormalizeArticle(s.ArticleNumber), s.Score, s.Status, usage, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert suggestion %q -> %s: %w", s.Alias, s.ArticleNumber, err)
	}

	return nil
}

// TouchSuggestion отмечает повторное появление пары: usage_count
// увеличивается, last_seen_at обновляется, score хранит лучший результат
func (db *CatalogDB) TouchSuggestion(id int64, score int) error {
	result, err := db.conn.Exec(`
		UPDATE synonym_suggestions
		SET usage_count = usage_count + 1,
		    last_seen_at = ?,
		    score = MAX(score, ?)
		WHERE id = ?
	`, time.Now(), score, id)
	if err != nil {
		return fmt.Errorf("failed to touch suggestion %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check touch result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("suggestion %d not found", id)
	}

	return nil
}

// UpdateSuggestionStatus переводит предложение в новый статус
func (db *CatalogDB) UpdateSuggestionStatus(id int64, status string) error {
	result, err := db.conn.Exec(`UPDATE synonym_suggestions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update suggestion %d status: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("suggestion %d not found", id)
	}

	return nil
}

// SuggestionsByStatus возвращает предложения в статусе, самые частые первыми
func (db *CatalogDB) SuggestionsByStatus(status string) ([]synonyms.Suggestion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM synonym_suggestions
		WHERE status = ?
		ORDER BY usage_count DESC, last_seen_at DESC
	`, suggestionColumns)

	rows, err := db.conn.Query(query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions by status %s: %w", status, err)
	}
	defer rows.Close()

	var suggestions []synonyms.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suggestions: %w", err)
	}

	return suggestions, nil
}
