package importer

import (
	"encoding/csv"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// fromCSV читает CSV-таблицу с заголовком. Разделитель определяется по
// первой строке, кодировка приводится к UTF-8.
func fromCSV(data []byte) (*OrderFile, error) {
	text, encoding := decodeText(data)
	if encoding != "utf-8" {
		log.Printf("[Importer] Decoded csv order from %s", encoding)
	}

	delimiter := sniffDelimiter(text)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	// Строки заказов от поставщиков часто рваные, число полей не проверяем
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}

	order := &OrderFile{
		Kind:    KindTable,
		Headers: records[0],
	}
	for _, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}
		order.Rows = append(order.Rows, row)
	}

	log.Printf("[Importer] Read csv (%q delimiter): %d data rows", delimiter, len(order.Rows))
	return order, nil
}

// sniffDelimiter выбирает разделитель CSV по первой строке: побеждает
// самый частый из ';', ',' и табуляции
func sniffDelimiter(text string) rune {
	firstLine := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine = text[:idx]
	}

	best := ','
	bestCount := strings.Count(firstLine, ",")

	if count := strings.Count(firstLine, ";"); count > bestCount {
		best = ';'
		bestCount = count
	}
	if count := strings.Count(firstLine, "\t"); count > bestCount {
		best = '\t'
	}

	return best
}

// decodeText приводит содержимое файла к UTF-8. Валидный UTF-8 проходит
// как есть, иначе пробуется Windows-1251 (типичная кодировка выгрузок из
// 1С и старого Excel), затем Latin-1, который принимает любые байты.
func decodeText(data []byte) (string, string) {
	// Срезаем BOM, если он есть
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err == nil && len(decoded) > 0 && utf8.Valid(decoded) {
		return string(decoded), "windows-1251"
	}

	decoded, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err == nil {
		return string(decoded), "iso-8859-1"
	}

	return string(data), "unknown"
}
