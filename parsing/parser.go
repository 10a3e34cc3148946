package parsing

import (
	"regexp"
	"strings"
)

// Идентификаторы паттернов разбора (для аудита и логирования)
const (
	PatternArticleNameQty = "article_name_qty"
	PatternNameDelimQty   = "name_delim_qty"
	PatternQtyXName       = "qty_x_name"
	PatternQtyName        = "qty_name"
)

// ParsedLine результат разбора одной строки заказа
type ParsedLine struct {
	Raw           string // Исходная строка
	ArticleNumber string // Извлеченный артикул (может быть пустым)
	Name          string // Извлеченное наименование
	RawQuantity   string // Сырой текст количества (до валидации)
	Pattern       string // Идентификатор сработавшего паттерна
}

// Паттерны с жесткой привязкой количества к концу строки.
// Количество распознается только если ему непосредственно предшествует
// явный разделитель, иначе цифры внутри наименования (например,
// "Rakza 9 Black (2.0 mm)") были бы ошибочно приняты за количество.
var (
	// Артикул - Наименование, Количество
	reArticleNameQty = regexp.MustCompile(`^([A-Za-z0-9]+)\s*-\s*(.+?)\s*[,:;\t]\s*(\d+(?:[.,]\d+)?)\s*$`)

	// Наименование, Количество (разделитель обязателен)
	reNameDelimQty = regexp.MustCompile(`^(.+?)\s*[,:;\t]\s*(\d+(?:[.,]\d+)?)\s*$`)

	// Количество x Наименование
	reQtyXName = regexp.MustCompile(`^(\d+)\s*[x×]\s*(.+)$`)

	// Количество Наименование
	reQtyName = regexp.MustCompile(`^(\d+)\s+(.+)$`)

	// Вспомогательные паттерны для диагностики неоднозначных строк
	reTrailingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*$`)
)

// delimiters распознаваемые разделители между наименованием и количеством
const delimiters = ",:;\t"

// IsSkippable сообщает, нужно ли пропустить строку без разбора
// (пустые строки и комментарии не считаются ошибками разбора)
func IsSkippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// ParseLine разбирает одну строку заказа через упорядоченный каскад паттернов.
// Побеждает первый полностью совпавший паттерн; частичных результатов нет.
func ParseLine(raw string) (*ParsedLine, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return nil, &ParseError{Reason: ReasonNoPatternMatch, Line: raw}
	}

	if m := reArticleNameQty.FindStringSubmatch(line); m != nil {
		return &ParsedLine{
			Raw:           raw,
			ArticleNumber: strings.TrimSpace(m[1]),
			Name:          strings.TrimSpace(m[2]),
			RawQuantity:   m[3],
			Pattern:       PatternArticleNameQty,
		}, nil
	}

	if m := reNameDelimQty.FindStringSubmatch(line); m != nil {
		return &ParsedLine{
			Raw:         raw,
			Name:        strings.TrimSpace(m[1]),
			RawQuantity: m[2],
			Pattern:     PatternNameDelimQty,
		}, nil
	}

	if m := reQtyXName.FindStringSubmatch(line); m != nil {
		return &ParsedLine{
			Raw:         raw,
			Name:        strings.TrimSpace(m[2]),
			RawQuantity: m[1],
			Pattern:     PatternQtyXName,
		}, nil
	}

	if m := reQtyName.FindStringSubmatch(line); m != nil {
		return &ParsedLine{
			Raw:         raw,
			Name:        strings.TrimSpace(m[2]),
			RawQuantity: m[1],
			Pattern:     PatternQtyName,
		}, nil
	}

	// Строка заканчивается числом и содержит разделитель, но число не стоит
	// сразу после последнего разделителя. Невозможно решить, количество это
	// или часть наименования.
	if reTrailingNumber.MatchString(line) && strings.ContainsAny(line, delimiters) {
		return nil, &ParseError{Reason: ReasonAmbiguousDelimiter, Line: raw}
	}

	return nil, &ParseError{Reason: ReasonNoPatternMatch, Line: raw}
}
