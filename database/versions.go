package database

import (
	"database/sql"
	"fmt"
	"time"

	"ordermatch/catalog"
	"ordermatch/versioning"
)

const versionColumns = `version_id, article_number, name, category, is_available, is_discontinued, synonyms, change_reason, changed_by, recorded_at`

// scanVersion читает одну запись журнала версий из строки результата
func scanVersion(scanner interface{ Scan(...interface{}) error }) (versioning.VersionRecord, error) {
	var record versioning.VersionRecord
	var synonymsRaw string
	var changedBy sql.NullString
	var recordedAt sql.NullTime

	err := scanner.Scan(
		&record.VersionID,
		&record.ArticleNumber,
		&record.Name,
		&record.Category,
		&record.Available,
		&record.Discontinued,
		&synonymsRaw,
		&record.ChangeReason,
		&changedBy,
		&recordedAt,
	)
	if err != nil {
		return versioning.VersionRecord{}, err
	}

	synonyms, err := decodeSynonyms(synonymsRaw)
	if err != nil {
		return versioning.VersionRecord{}, err
	}
	record.Synonyms = synonyms

	if changedBy.Valid {
		record.ChangedBy = changedBy.String
	}
	if recordedAt.Valid {
		record.RecordedAt = recordedAt.Time
	}

	return record, nil
}

// AppendVersion добавляет запись в журнал версий и возвращает ее номер
func (db *CatalogDB) AppendVersion(record versioning.VersionRecord) (int64, error) {
	synonymsRaw, err := encodeSynonyms(record.Synonyms)
	if err != nil {
		return 0, err
	}

	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	result, err := db.conn.Exec(`
		INSERT INTO product_versions (article_number, name, category, is_available, is_discontinued, synonyms, change_reason, changed_by, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, catalog.NormalizeArticle(record.ArticleNumber), record.Name, record.Category,
		record.Available, record.Discontinued, synonymsRaw,
		record.ChangeReason, record.ChangedBy, recordedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to append version for %s: %w", record.ArticleNumber, err)
	}

	versionID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read appended version id: %w", err)
	}

	return versionID, nil
}

// VersionsByArticle возвращает все версии артикула, новые первыми
func (db *CatalogDB) VersionsByArticle(article string) ([]versioning.VersionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM product_versions
		WHERE article_number = ?
		ORDER BY version_id DESC
	`, versionColumns)

	rows, err := db.conn.Query(query, catalog.NormalizeArticle(article))
	if err != nil {
		return nil, fmt.Errorf("failed to query versions for %s: %w", article, err)
	}
	defer rows.Close()

	return collectVersions(rows)
}

// VersionAsOf возвращает последнюю запись журнала с recorded_at <= at,
// nil если записей к этому моменту не было
func (db *CatalogDB) VersionAsOf(article string, at time.Time) (*versioning.VersionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM product_versions
		WHERE article_number = ? AND recorded_at <= ?
		ORDER BY recorded_at DESC, version_id DESC
		LIMIT 1
	`, versionColumns)

	record, err := scanVersion(db.conn.QueryRow(query, catalog.NormalizeArticle(article), at))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query version of %s as of %s: %w", article, at.Format(time.RFC3339), err)
	}

	return &record, nil
}

// RecentVersions возвращает последние изменения по всем артикулам
func (db *CatalogDB) RecentVersions(limit, offset int) ([]versioning.VersionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM product_versions
		ORDER BY version_id DESC
		LIMIT ? OFFSET ?
	`, versionColumns)

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query change log: %w", err)
	}
	defer rows.Close()

	return collectVersions(rows)
}

func collectVersions(rows *sql.Rows) ([]versioning.VersionRecord, error) {
	var records []versioning.VersionRecord
	for rows.Next() {
		record, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate version records: %w", err)
	}

	return records, nil
}
