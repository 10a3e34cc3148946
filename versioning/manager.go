package versioning

import (
	"fmt"
	"time"

	"ordermatch/catalog"
)

// Ошибки операций мягкого удаления и восстановления
var (
	ErrAlreadyDeleted = fmt.Errorf("product is already soft-deleted")
	ErrNotDeleted     = fmt.Errorf("product is not soft-deleted")
)

// Store хранилище журнала версий
type Store interface {
	AppendVersion(record VersionRecord) (int64, error)
	VersionsByArticle(article string) ([]VersionRecord, error)
	VersionAsOf(article string, at time.Time) (*VersionRecord, error)
	RecentVersions(limit, offset int) ([]VersionRecord, error)
}

// ProductStore доступ к текущему состоянию каталога
type ProductStore interface {
	GetProduct(article string) (catalog.Entry, error)
	UpdateProduct(entry catalog.Entry) error
}

// Explanation состояние записи на момент времени с объяснением отличий
// от текущего состояния
type Explanation struct {
	ArticleNumber string         `json:"article_number"`
	AsOf          time.Time      `json:"as_of"`
	Historical    *VersionRecord `json:"historical,omitempty"`
	Current       *VersionRecord `json:"current,omitempty"`
	Changes       []FieldChange  `json:"changes,omitempty"`
	Note          string         `json:"note,omitempty"`
}

// Manager операции журнала версий каталога
type Manager struct {
	store    Store
	products ProductStore
}

// NewManager создает менеджер журнала версий
func NewManager(store Store, products ProductStore) *Manager {
	return &Manager{store: store, products: products}
}

// Append фиксирует состояние записи каталога в журнале. Отказ записи
// журнала — ошибка операции: мутация без следа в журнале недопустима.
func (m *Manager) Append(entry catalog.Entry, reason, changedBy string) (int64, error) {
	record := RecordFromEntry(entry, reason, changedBy)
	versionID, err := m.store.AppendVersion(record)
	if err != nil {
		return 0, fmt.Errorf("ledger write failed for %s: %w", entry.ArticleNumber, err)
	}
	return versionID, nil
}

// History возвращает все версии артикула, новые первыми
func (m *Manager) History(article string) ([]VersionRecord, error) {
	return m.store.VersionsByArticle(article)
}

// AsOf возвращает состояние артикула на момент времени: последняя запись
// журнала с recorded_at <= at, nil если записей к этому моменту не было
func (m *Manager) AsOf(article string, at time.Time) (*VersionRecord, error) {
	return m.store.VersionAsOf(article, at)
}

// Diff возвращает изменившиеся поля артикула между двумя моментами
// времени: сравниваются состояния AsOf(t1) и AsOf(t2)
func (m *Manager) Diff(article string, t1, t2 time.Time) ([]FieldChange, error) {
	article = catalog.NormalizeArticle(article)

	before, err := m.AsOf(article, t1)
	if err != nil {
		return nil, err
	}
	after, err := m.AsOf(article, t2)
	if err != nil {
		return nil, err
	}

	if before == nil || after == nil {
		return nil, fmt.Errorf("no recorded state for %s at requested time", article)
	}

	return Diff(*before, *after), nil
}

// Explain возвращает историческое состояние артикула на момент времени
// вместе с текущим состоянием и списком изменившихся полей
func (m *Manager) Explain(article string, at time.Time) (*Explanation, error) {
	article = catalog.NormalizeArticle(article)

	historical, err := m.AsOf(article, at)
	if err != nil {
		return nil, err
	}

	explanation := &Explanation{
		ArticleNumber: article,
		AsOf:          at,
		Historical:    historical,
	}

	current, err := m.products.GetProduct(article)
	if err != nil {
		// Запись могла быть создана позже запрошенного момента и так и
		// не попасть в текущий каталог
		explanation.Note = "article not present in current catalog"
		return explanation, nil
	}

	currentRecord := RecordFromEntry(current, "", "")
	currentRecord.RecordedAt = current.UpdatedAt
	explanation.Current = &currentRecord

	if historical == nil {
		explanation.Note = "no recorded state at requested time"
		return explanation, nil
	}

	explanation.Changes = Diff(*historical, currentRecord)
	return explanation, nil
}

// SoftDelete помечает запись снятой с производства, сохраняя ее в каталоге
// и в индексах матчинга. Повторное удаление — ошибка.
func (m *Manager) SoftDelete(article, changedBy string) error {
	entry, err := m.products.GetProduct(article)
	if err != nil {
		return err
	}

	if entry.Discontinued {
		return ErrAlreadyDeleted
	}

	entry.Discontinued = true
	entry.Available = false

	if err := m.products.UpdateProduct(entry); err != nil {
		return err
	}

	if _, err := m.Append(entry, ReasonSoftDeleted, changedBy); err != nil {
		return err
	}

	return nil
}

// Restore возвращает снятую с производства запись в активный каталог
func (m *Manager) Restore(article, changedBy string) error {
	entry, err := m.products.GetProduct(article)
	if err != nil {
		return err
	}

	if !entry.Discontinued {
		return ErrNotDeleted
	}

	entry.Discontinued = false
	entry.Available = true

	if err := m.products.UpdateProduct(entry); err != nil {
		return err
	}

	if _, err := m.Append(entry, ReasonRestored, changedBy); err != nil {
		return err
	}

	return nil
}

// ChangeLog возвращает последние изменения по всем артикулам
func (m *Manager) ChangeLog(limit, offset int) ([]VersionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return m.store.RecentVersions(limit, offset)
}
