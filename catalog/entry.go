package catalog

import (
	"strings"
	"time"
)

// Entry каноническая запись каталога. Идентичность записи — артикул:
// он не меняется после назначения, наименование изменяемо и неуникально
// в истории.
type Entry struct {
	ArticleNumber string    `json:"article_number"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Available     bool      `json:"is_available"`
	Discontinued  bool      `json:"is_discontinued"`
	Synonyms      []string  `json:"synonyms"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasSynonym проверяет наличие псевдонима у записи (без учета регистра)
func (e *Entry) HasSynonym(alias string) bool {
	normalized := NormalizeName(alias)
	for _, s := range e.Synonyms {
		if NormalizeName(s) == normalized {
			return true
		}
	}
	return false
}

// Clone возвращает глубокую копию записи
func (e *Entry) Clone() Entry {
	clone := *e
	clone.Synonyms = append([]string(nil), e.Synonyms...)
	return clone
}

// NormalizeName приводит наименование к канонической форме для индексов:
// нижний регистр, схлопнутые пробелы
func NormalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(lowered), " ")
}

// NormalizeArticle приводит артикул к канонической форме для индексов
func NormalizeArticle(article string) string {
	return strings.ToUpper(strings.TrimSpace(article))
}
