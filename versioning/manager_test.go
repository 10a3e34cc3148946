package versioning

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"ordermatch/catalog"
)

// fakeStore журнал версий в памяти
type fakeStore struct {
	records []VersionRecord
	nextID  int64
	failing bool
}

func (s *fakeStore) AppendVersion(record VersionRecord) (int64, error) {
	if s.failing {
		return 0, fmt.Errorf("disk full")
	}
	s.nextID++
	record.VersionID = s.nextID
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now()
	}
	s.records = append(s.records, record)
	return record.VersionID, nil
}

func (s *fakeStore) VersionsByArticle(article string) ([]VersionRecord, error) {
	article = catalog.NormalizeArticle(article)
	var out []VersionRecord
	for _, r := range s.records {
		if r.ArticleNumber == article {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionID > out[j].VersionID })
	return out, nil
}

func (s *fakeStore) VersionAsOf(article string, at time.Time) (*VersionRecord, error) {
	article = catalog.NormalizeArticle(article)
	var best *VersionRecord
	for i := range s.records {
		r := s.records[i]
		if r.ArticleNumber != article || r.RecordedAt.After(at) {
			continue
		}
		if best == nil || r.RecordedAt.After(best.RecordedAt) ||
			(r.RecordedAt.Equal(best.RecordedAt) && r.VersionID > best.VersionID) {
			best = &s.records[i]
		}
	}
	return best, nil
}

func (s *fakeStore) RecentVersions(limit, offset int) ([]VersionRecord, error) {
	sorted := append([]VersionRecord(nil), s.records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VersionID > sorted[j].VersionID })
	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// fakeProducts каталог в памяти
type fakeProducts struct {
	entries map[string]catalog.Entry
}

func newFakeProducts(entries ...catalog.Entry) *fakeProducts {
	p := &fakeProducts{entries: make(map[string]catalog.Entry)}
	for _, e := range entries {
		p.entries[catalog.NormalizeArticle(e.ArticleNumber)] = e
	}
	return p
}

func (p *fakeProducts) GetProduct(article string) (catalog.Entry, error) {
	entry, ok := p.entries[catalog.NormalizeArticle(article)]
	if !ok {
		return catalog.Entry{}, fmt.Errorf("product not found")
	}
	return entry, nil
}

func (p *fakeProducts) UpdateProduct(entry catalog.Entry) error {
	key := catalog.NormalizeArticle(entry.ArticleNumber)
	if _, ok := p.entries[key]; !ok {
		return fmt.Errorf("product not found")
	}
	entry.UpdatedAt = time.Now()
	p.entries[key] = entry
	return nil
}

// TestManager_AppendAndHistory проверяет фиксацию версий и порядок истории
func TestManager_AppendAndHistory(t *testing.T) {
	store := &fakeStore{}
	products := newFakeProducts()
	manager := NewManager(store, products)

	entry := catalog.Entry{ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.0 mm)", Available: true}
	if _, err := manager.Append(entry, ReasonCreated, "tester"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entry.Name = "Rakza 9 Black (2.1 mm)"
	if _, err := manager.Append(entry, ReasonUpdated, "tester"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	history, err := manager.History("VS9B20")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ChangeReason != ReasonUpdated {
		t.Errorf("history[0].ChangeReason = %q, want newest first", history[0].ChangeReason)
	}
}

// TestManager_AppendFailurePropagates проверяет, что отказ записи журнала
// становится ошибкой операции
func TestManager_AppendFailurePropagates(t *testing.T) {
	store := &fakeStore{failing: true}
	manager := NewManager(store, newFakeProducts())

	_, err := manager.Append(catalog.Entry{ArticleNumber: "VS9B20", Name: "x"}, ReasonCreated, "")
	if err == nil {
		t.Fatal("Append must fail when the ledger write fails")
	}
}

// TestManager_SoftDeleteRestore проверяет мягкое удаление и восстановление
func TestManager_SoftDeleteRestore(t *testing.T) {
	store := &fakeStore{}
	products := newFakeProducts(catalog.Entry{ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.0 mm)", Available: true})
	manager := NewManager(store, products)

	if err := manager.SoftDelete("VS9B20", "tester"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	entry, _ := products.GetProduct("VS9B20")
	if !entry.Discontinued || entry.Available {
		t.Errorf("after soft delete: %+v, want discontinued and unavailable", entry)
	}

	// Повторное удаление отклоняется
	if err := manager.SoftDelete("VS9B20", "tester"); err != ErrAlreadyDeleted {
		t.Errorf("repeat SoftDelete = %v, want ErrAlreadyDeleted", err)
	}

	if err := manager.Restore("VS9B20", "tester"); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	entry, _ = products.GetProduct("VS9B20")
	if entry.Discontinued || !entry.Available {
		t.Errorf("after restore: %+v, want active", entry)
	}

	if err := manager.Restore("VS9B20", "tester"); err != ErrNotDeleted {
		t.Errorf("repeat Restore = %v, want ErrNotDeleted", err)
	}

	// Оба перехода зафиксированы в журнале
	history, _ := manager.History("VS9B20")
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ChangeReason != ReasonRestored || history[1].ChangeReason != ReasonSoftDeleted {
		t.Errorf("history reasons = [%s, %s]", history[0].ChangeReason, history[1].ChangeReason)
	}
}

// TestManager_AsOfAndExplain проверяет исторический срез и объяснение отличий
func TestManager_AsOfAndExplain(t *testing.T) {
	store := &fakeStore{}
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store.AppendVersion(VersionRecord{
		ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.0 mm)", Available: true,
		ChangeReason: ReasonCreated, RecordedAt: base,
	})
	store.AppendVersion(VersionRecord{
		ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.1 mm)", Available: true,
		ChangeReason: ReasonUpdated, RecordedAt: base.Add(24 * time.Hour),
	})

	products := newFakeProducts(catalog.Entry{
		ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.1 mm)", Category: "rubbers", Available: true,
	})
	manager := NewManager(store, products)

	asOf, err := manager.AsOf("VS9B20", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("AsOf: %v", err)
	}
	if asOf == nil || asOf.Name != "Rakza 9 Black (2.0 mm)" {
		t.Fatalf("AsOf = %+v, want the first version", asOf)
	}

	explanation, err := manager.Explain("VS9B20", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if explanation.Historical == nil || explanation.Current == nil {
		t.Fatalf("Explain = %+v, want both states", explanation)
	}

	// Изменились name и category
	fields := make(map[string]FieldChange)
	for _, c := range explanation.Changes {
		fields[c.Field] = c
	}
	if c, ok := fields["name"]; !ok || c.After != "Rakza 9 Black (2.1 mm)" {
		t.Errorf("name change = %+v", fields["name"])
	}
	if _, ok := fields["category"]; !ok {
		t.Errorf("category change missing: %+v", explanation.Changes)
	}
	if _, ok := fields["is_available"]; ok {
		t.Errorf("is_available did not change, diff = %+v", explanation.Changes)
	}
}

// TestManager_DiffBetweenTimes проверяет сравнение состояний артикула
// между двумя моментами времени
func TestManager_DiffBetweenTimes(t *testing.T) {
	store := &fakeStore{}
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store.AppendVersion(VersionRecord{
		ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.0 mm)", Available: true,
		ChangeReason: ReasonCreated, RecordedAt: base,
	})
	store.AppendVersion(VersionRecord{
		ArticleNumber: "VS9B20", Name: "Rakza 9 Black (2.1 mm)", Category: "rubbers", Available: true,
		ChangeReason: ReasonUpdated, RecordedAt: base.Add(24 * time.Hour),
	})

	manager := NewManager(store, newFakeProducts())

	changes, err := manager.Diff("vs9b20", base.Add(time.Hour), base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}

	fields := make(map[string]FieldChange)
	for _, c := range changes {
		fields[c.Field] = c
	}
	if c, ok := fields["name"]; !ok || c.Before != "Rakza 9 Black (2.0 mm)" || c.After != "Rakza 9 Black (2.1 mm)" {
		t.Errorf("name change = %+v", fields["name"])
	}
	if _, ok := fields["category"]; !ok {
		t.Errorf("category change missing: %+v", changes)
	}

	// Оба момента внутри одного состояния — изменений нет
	same, err := manager.Diff("VS9B20", base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if same != nil {
		t.Errorf("Diff within one state = %+v, want empty", same)
	}

	// Момент до первой записи журнала — ошибка
	if _, err := manager.Diff("VS9B20", base.Add(-time.Hour), base.Add(time.Hour)); err == nil {
		t.Error("Diff before first record must fail")
	}
}

// TestDiff проверяет сравнение состояний по полям
func TestDiff(t *testing.T) {
	before := VersionRecord{Name: "Rakza 9", Category: "rubbers", Available: true}
	after := VersionRecord{Name: "Rakza 9", Category: "rubbers", Available: false, Synonyms: []string{"R9"}}

	changes := Diff(before, after)
	if len(changes) != 2 {
		t.Fatalf("Diff = %+v, want 2 changes", changes)
	}

	if Diff(before, before) != nil {
		t.Error("Diff(identical) must be empty")
	}
}

// TestManager_ChangeLog проверяет постраничный общий журнал
func TestManager_ChangeLog(t *testing.T) {
	store := &fakeStore{}
	manager := NewManager(store, newFakeProducts())

	for i := 0; i < 5; i++ {
		store.AppendVersion(VersionRecord{
			ArticleNumber: fmt.Sprintf("ART%d", i), Name: fmt.Sprintf("Product %d", i),
			ChangeReason: ReasonCreated,
		})
	}

	page, err := manager.ChangeLog(2, 1)
	if err != nil {
		t.Fatalf("ChangeLog: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page length = %d, want 2", len(page))
	}
	if page[0].ArticleNumber != "ART3" || page[1].ArticleNumber != "ART2" {
		t.Errorf("page = [%s, %s], want [ART3, ART2]", page[0].ArticleNumber, page[1].ArticleNumber)
	}
}
