package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"ordermatch/catalog"
	"ordermatch/database"
)

// TestDataset набор тестовых данных каталога
type TestDataset struct {
	Count   int             `json:"count"`
	Entries []catalog.Entry `json:"entries"`
}

var (
	brands = []string{"Yasaka", "Butterfly", "DHS", "Tibhar", "Donic", "Stiga", "Nittaku", "Andro"}
	series = []string{"Rakza", "Tenergy", "Hurricane", "Evolution", "Bluefire", "Calibra", "Fastarc", "Rasanter"}
	suffix = []string{"", "Pro", "Soft", "Hard", "FX", "Neo", "X", "Z"}

	categories = []string{"rubber", "blade", "ball", "glue", "accessory"}

	thicknesses = []string{"1.8 mm", "2.0 mm", "2.1 mm", "max"}
)

func main() {
	// Инициализируем gofakeit
	gofakeit.Seed(0)

	sizes := []struct {
		name string
		size int
	}{
		{"100", 100},
		{"1K", 1000},
		{"10K", 10000},
	}

	dataDir := filepath.Join("tests", "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	for _, size := range sizes {
		fmt.Printf("Generating %s catalog entries...\n", size.name)

		entries := make([]catalog.Entry, size.size)
		seen := make(map[string]bool, size.size)
		for i := 0; i < size.size; i++ {
			entries[i] = generateEntry(seen)
		}

		dataset := TestDataset{
			Count:   size.size,
			Entries: entries,
		}

		filename := filepath.Join(dataDir, fmt.Sprintf("catalog_%s.json", size.name))
		data, err := json.MarshalIndent(dataset, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal dataset: %v", err)
		}

		if err := os.WriteFile(filename, data, 0644); err != nil {
			log.Fatalf("Failed to write file %s: %v", filename, err)
		}

		fmt.Printf("Generated %s entries in %s\n", size.name, filename)
	}

	fmt.Println("\nGenerating SQLite catalog...")
	generateCatalogDB(dataDir)

	fmt.Println("\nGenerating sample order files...")
	generateOrderFiles(dataDir)
}

// generateEntry генерирует запись каталога с уникальным артикулом
func generateEntry(seen map[string]bool) catalog.Entry {
	name := generateProductName()

	article := generateArticle()
	for seen[article] {
		article = generateArticle()
	}
	seen[article] = true

	entry := catalog.Entry{
		ArticleNumber: article,
		Name:          name,
		Category:      gofakeit.RandomString(categories),
		Available:     true,
	}

	// Небольшая доля записей недоступна или снята с производства
	if gofakeit.Number(1, 100) <= 10 {
		entry.Available = false
	}
	if gofakeit.Number(1, 100) <= 5 {
		entry.Discontinued = true
		entry.Available = false
	}

	// Иногда добавляем псевдоним — сокращенную форму наименования
	if gofakeit.Bool() {
		entry.Synonyms = []string{abbreviate(name)}
	}

	return entry
}

// generateProductName генерирует наименование в стиле реального каталога
func generateProductName() string {
	brand := gofakeit.RandomString(brands)
	model := fmt.Sprintf("%s %d", gofakeit.RandomString(series), gofakeit.Number(1, 99))

	if s := gofakeit.RandomString(suffix); s != "" {
		model += " " + s
	}

	name := fmt.Sprintf("%s %s", brand, model)
	if gofakeit.Bool() {
		name += fmt.Sprintf(" (%s)", gofakeit.RandomString(thicknesses))
	}

	return name
}

// generateArticle генерирует артикул: 2-3 буквы и 4-6 цифр
func generateArticle() string {
	if gofakeit.Bool() {
		return gofakeit.Regex(`[A-Z]{2}[0-9]{4}`)
	}
	return gofakeit.Regex(`[A-Z]{3}[0-9]{6}`)
}

// abbreviate строит сокращенную форму наименования: первые буквы слов
// с сохранением числовых частей ("Yasaka Rakza 9" -> "YR 9")
func abbreviate(name string) string {
	var letters []string
	var tail []string
	for _, word := range strings.Fields(name) {
		if word[0] >= '0' && word[0] <= '9' || word[0] == '(' {
			tail = append(tail, strings.Trim(word, "()"))
			continue
		}
		letters = append(letters, string(word[0]))
	}
	short := strings.Join(letters, "")
	if len(tail) > 0 {
		short += " " + strings.Join(tail, " ")
	}
	return short
}

// generateCatalogDB создает SQLite каталог с тестовыми данными
func generateCatalogDB(dataDir string) {
	dbPath := filepath.Join(dataDir, "catalog_test.db")

	// Удаляем существующую БД
	os.Remove(dbPath)

	db, err := database.NewCatalogDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		entry := generateEntry(seen)
		if err := db.InsertProduct(entry); err != nil {
			log.Fatalf("Failed to insert product %s: %v", entry.ArticleNumber, err)
		}
	}

	fmt.Printf("Generated SQLite catalog with 1000 products in %s\n", dbPath)
}

// generateOrderFiles создает примеры заказов: текстовый и CSV
func generateOrderFiles(dataDir string) {
	var textLines []string
	var csvLines []string
	csvLines = append(csvLines, "Наименование;Артикул;Количество")

	for i := 0; i < 50; i++ {
		name := generateProductName()
		qty := gofakeit.Number(1, 20)

		switch gofakeit.Number(1, 3) {
		case 1:
			textLines = append(textLines, fmt.Sprintf("%s, %d", name, qty))
		case 2:
			textLines = append(textLines, fmt.Sprintf("%d x %s", qty, name))
		default:
			// Строка без количества: матчер получает грязные данные тоже
			textLines = append(textLines, name)
		}

		article := ""
		if gofakeit.Bool() {
			article = generateArticle()
		}
		csvLines = append(csvLines, fmt.Sprintf("%s;%s;%d", name, article, qty))
	}

	textPath := filepath.Join(dataDir, "order_sample.txt")
	if err := os.WriteFile(textPath, []byte(strings.Join(textLines, "\n")), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", textPath, err)
	}

	csvPath := filepath.Join(dataDir, "order_sample.csv")
	if err := os.WriteFile(csvPath, []byte(strings.Join(csvLines, "\n")), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", csvPath, err)
	}

	fmt.Printf("Generated order samples in %s and %s\n", textPath, csvPath)
}
