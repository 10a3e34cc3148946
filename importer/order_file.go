package importer

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Kind вид содержимого файла заказа
type Kind string

// Виды содержимого
const (
	KindTable Kind = "table" // Таблица с заголовком (xlsx, csv)
	KindText  Kind = "text"  // Построчный текст (txt)
)

// OrderFile содержимое файла заказа, приведенное к общему виду
// для конвейера обработки
type OrderFile struct {
	Kind    Kind
	Headers []string
	Rows    [][]string
	Text    string
}

// Поддерживаемые расширения
var supportedExtensions = map[string]bool{
	".xlsx": true,
	".csv":  true,
	".txt":  true,
}

// IsSupported проверяет расширение файла заказа
func IsSupported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ReadOrderFile читает файл заказа с диска
func ReadOrderFile(path string) (*OrderFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read order file: %w", err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes разбирает содержимое файла заказа по расширению имени.
// Используется и для загрузок через HTTP, где файла на диске нет.
func FromBytes(filename string, data []byte) (*OrderFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".xlsx":
		return fromXLSX(data)
	case ".csv":
		return fromCSV(data)
	case ".txt":
		return fromText(data)
	default:
		return nil, fmt.Errorf("unsupported order file extension: %s", ext)
	}
}

// fromXLSX читает первый лист книги Excel как таблицу с заголовком
func fromXLSX(data []byte) (*OrderFile, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[Importer] Failed to close xlsx reader: %v", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx sheet %s is empty", sheets[0])
	}

	order := &OrderFile{
		Kind:    KindTable,
		Headers: rows[0],
	}
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		order.Rows = append(order.Rows, row)
	}

	log.Printf("[Importer] Read xlsx sheet %s: %d data rows", sheets[0], len(order.Rows))
	return order, nil
}

// fromText читает построчный текстовый заказ
func fromText(data []byte) (*OrderFile, error) {
	text, encoding := decodeText(data)
	if encoding != "utf-8" {
		log.Printf("[Importer] Decoded text order from %s", encoding)
	}

	return &OrderFile{
		Kind: KindText,
		Text: text,
	}, nil
}

// isEmptyRow проверяет, что все ячейки строки пустые
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
