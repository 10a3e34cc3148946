package database

import (
	"testing"
	"time"

	"ordermatch/catalog"
	"ordermatch/synonyms"
	"ordermatch/versioning"
)

func openTestDB(t *testing.T) *CatalogDB {
	t.Helper()
	db, err := NewCatalogDB(":memory:")
	if err != nil {
		t.Fatalf("NewCatalogDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInitCatalogSchema_Idempotent проверяет повторное применение миграций
func TestInitCatalogSchema_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := InitCatalogSchema(db.Conn()); err != nil {
		t.Fatalf("second InitCatalogSchema: %v", err)
	}
}

// TestProductCRUD проверяет вставку, чтение и обновление записи каталога
func TestProductCRUD(t *testing.T) {
	db := openTestDB(t)

	entry := catalog.Entry{
		ArticleNumber: "vs9b20",
		Name:          "Rakza 9 Black (2.0 mm)",
		Category:      "rubbers",
		Available:     true,
		Synonyms:      []string{"R9 Black"},
	}

	if err := db.InsertProduct(entry); err != nil {
		t.Fatalf("InsertProduct: %v", err)
	}

	// Артикул нормализуется к верхнему регистру
	got, err := db.GetProduct("VS9B20")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.ArticleNumber != "VS9B20" {
		t.Errorf("ArticleNumber = %q, want VS9B20", got.ArticleNumber)
	}
	if got.Name != entry.Name {
		t.Errorf("Name = %q, want %q", got.Name, entry.Name)
	}
	if len(got.Synonyms) != 1 || got.Synonyms[0] != "R9 Black" {
		t.Errorf("Synonyms = %v, want [R9 Black]", got.Synonyms)
	}

	// Повторная вставка того же артикула отклоняется
	if err := db.InsertProduct(entry); err != ErrProductExists {
		t.Errorf("duplicate InsertProduct = %v, want ErrProductExists", err)
	}

	got.Name = "Rakza 9 Black (2.1 mm)"
	got.Available = false
	if err := db.UpdateProduct(got); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	updated, err := db.GetProduct("VS9B20")
	if err != nil {
		t.Fatalf("GetProduct after update: %v", err)
	}
	if updated.Name != "Rakza 9 Black (2.1 mm)" || updated.Available {
		t.Errorf("update not persisted: %+v", updated)
	}
}

// TestGetProduct_NotFound проверяет типизированную ошибку отсутствия артикула
func TestGetProduct_NotFound(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetProduct("MISSING"); err != ErrProductNotFound {
		t.Errorf("GetProduct(MISSING) = %v, want ErrProductNotFound", err)
	}

	if err := db.UpdateProduct(catalog.Entry{ArticleNumber: "MISSING", Name: "x"}); err != ErrProductNotFound {
		t.Errorf("UpdateProduct(MISSING) = %v, want ErrProductNotFound", err)
	}
}

// TestAddProductSynonym проверяет добавление псевдонима и идемпотентность
func TestAddProductSynonym(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertProduct(catalog.Entry{ArticleNumber: "T05", Name: "Tenergy 05", Available: true}); err != nil {
		t.Fatalf("InsertProduct: %v", err)
	}

	if err := db.AddProductSynonym("T05", "Tenergy-05"); err != nil {
		t.Fatalf("AddProductSynonym: %v", err)
	}
	// Повторное добавление (в другом регистре) — no-op
	if err := db.AddProductSynonym("T05", "tenergy-05"); err != nil {
		t.Fatalf("AddProductSynonym repeat: %v", err)
	}

	got, err := db.GetProduct("T05")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if len(got.Synonyms) != 1 {
		t.Errorf("Synonyms = %v, want exactly one", got.Synonyms)
	}
}

// TestVersionLedger проверяет журнал версий: порядок, AsOf, общий список
func TestVersionLedger(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []versioning.VersionRecord{
		{ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.0 mm)", Available: true, ChangeReason: versioning.ReasonCreated, RecordedAt: base},
		{ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.1 mm)", Available: true, ChangeReason: versioning.ReasonUpdated, RecordedAt: base.Add(24 * time.Hour)},
		{ArticleNumber: "T05", Name: "Tenergy 05", Available: true, ChangeReason: versioning.ReasonCreated, RecordedAt: base.Add(48 * time.Hour)},
	}

	for _, r := range records {
		if _, err := db.AppendVersion(r); err != nil {
			t.Fatalf("AppendVersion: %v", err)
		}
	}

	history, err := db.VersionsByArticle("VS9B20")
	if err != nil {
		t.Fatalf("VersionsByArticle: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	// Новые версии первыми
	if history[0].Name != "Rakza 9 Black (2.1 mm)" {
		t.Errorf("history[0].Name = %q, want the newer version first", history[0].Name)
	}
	if history[0].VersionID <= history[1].VersionID {
		t.Errorf("version ids not descending: %d, %d", history[0].VersionID, history[1].VersionID)
	}

	// Состояние на момент между первой и второй версией
	asOf, err := db.VersionAsOf("VS9B20", base.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("VersionAsOf: %v", err)
	}
	if asOf == nil || asOf.Name != "Rakza 9 Black (2.0 mm)" {
		t.Errorf("AsOf mid-window = %+v, want the first version", asOf)
	}

	// До первой записи состояния не было
	before, err := db.VersionAsOf("VS9B20", base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("VersionAsOf before: %v", err)
	}
	if before != nil {
		t.Errorf("AsOf before first record = %+v, want nil", before)
	}

	recent, err := db.RecentVersions(2, 0)
	if err != nil {
		t.Fatalf("RecentVersions: %v", err)
	}
	if len(recent) != 2 || recent[0].ArticleNumber != "T05" {
		t.Errorf("RecentVersions = %+v, want newest two with T05 first", recent)
	}
}

// TestSuggestionStore проверяет хранение предложений псевдонимов
func TestSuggestionStore(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetSuggestion("Rakza 9 Blk 2.0", "VS9B20")
	if err != nil {
		t.Fatalf("GetSuggestion: %v", err)
	}
	if missing != nil {
		t.Fatalf("GetSuggestion unknown pair = %+v, want nil", missing)
	}

	if err := db.InsertSuggestion(synonyms.Suggestion{
		Alias:         "Rakza 9 Blk 2.0",
		ArticleNumber: "VS9B20",
		Score:         91,
		Status:        synonyms.StatusPending,
	}); err != nil {
		t.Fatalf("InsertSuggestion: %v", err)
	}

	s, err := db.GetSuggestion("Rakza 9 Blk 2.0", "VS9B20")
	if err != nil {
		t.Fatalf("GetSuggestion: %v", err)
	}
	if s == nil || s.UsageCount != 1 || s.Status != synonyms.StatusPending {
		t.Fatalf("stored suggestion = %+v", s)
	}

	// Повторное появление: usage_count растет, score хранит лучший результат
	if err := db.TouchSuggestion(s.ID, 95); err != nil {
		t.Fatalf("TouchSuggestion: %v", err)
	}
	if err := db.TouchSuggestion(s.ID, 88); err != nil {
		t.Fatalf("TouchSuggestion: %v", err)
	}

	s, err = db.GetSuggestion("Rakza 9 Blk 2.0", "VS9B20")
	if err != nil {
		t.Fatalf("GetSuggestion: %v", err)
	}
	if s.UsageCount != 3 {
		t.Errorf("UsageCount = %d, want 3", s.UsageCount)
	}
	if s.Score != 95 {
		t.Errorf("Score = %d, want best score 95", s.Score)
	}

	if err := db.UpdateSuggestionStatus(s.ID, synonyms.StatusApproved); err != nil {
		t.Fatalf("UpdateSuggestionStatus: %v", err)
	}

	pending, err := db.SuggestionsByStatus(synonyms.StatusPending)
	if err != nil {
		t.Fatalf("SuggestionsByStatus: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %+v, want empty after approval", pending)
	}
}

// TestSuggestionsByStatus_Order проверяет сортировку по usage_count
func TestSuggestionsByStatus_Order(t *testing.T) {
	db := openTestDB(t)

	pairs := []struct {
		alias   string
		touches int
	}{
		{"rare alias", 0},
		{"frequent alias", 5},
		{"common alias", 2},
	}

	for _, p := range pairs {
		if err := db.InsertSuggestion(synonyms.Suggestion{
			Alias:         p.alias,
			ArticleNumber: "VS9B20",
			Score:         90,
			Status:        synonyms.StatusPending,
		}); err != nil {
			t.Fatalf("InsertSuggestion(%q): %v", p.alias, err)
		}
		s, err := db.GetSuggestion(p.alias, "VS9B20")
		if err != nil {
			t.Fatalf("GetSuggestion(%q): %v", p.alias, err)
		}
		for i := 0; i < p.touches; i++ {
			if err := db.TouchSuggestion(s.ID, 90); err != nil {
				t.Fatalf("TouchSuggestion(%q): %v", p.alias, err)
			}
		}
	}

	pending, err := db.SuggestionsByStatus(synonyms.StatusPending)
	if err != nil {
		t.Fatalf("SuggestionsByStatus: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("pending length = %d, want 3", len(pending))
	}
	if pending[0].Alias != "frequent alias" || pending[1].Alias != "common alias" {
		t.Errorf("pending order = [%s, %s, %s], want usage desc",
			pending[0].Alias, pending[1].Alias, pending[2].Alias)
	}
}

// TestEnsureDemoProducts проверяет первичное заполнение и идемпотентность
func TestEnsureDemoProducts(t *testing.T) {
	db := openTestDB(t)

	if err := db.EnsureDemoProducts(); err != nil {
		t.Fatalf("EnsureDemoProducts: %v", err)
	}

	count, err := db.CountProducts()
	if err != nil {
		t.Fatalf("CountProducts: %v", err)
	}
	if count == 0 {
		t.Fatal("demo seed left the catalog empty")
	}

	// Повторный вызов не дублирует данные
	if err := db.EnsureDemoProducts(); err != nil {
		t.Fatalf("EnsureDemoProducts repeat: %v", err)
	}
	again, err := db.CountProducts()
	if err != nil {
		t.Fatalf("CountProducts: %v", err)
	}
	if again != count {
		t.Errorf("repeat seed changed count: %d -> %d", count, again)
	}

	// Каждая демо-запись имеет стартовую запись в журнале версий
	versions, err := db.VersionsByArticle("VS9B20")
	if err != nil {
		t.Fatalf("VersionsByArticle: %v", err)
	}
	if len(versions) != 1 || versions[0].ChangeReason != versioning.ReasonCreated {
		t.Errorf("seed versions = %+v, want one created record", versions)
	}
}
